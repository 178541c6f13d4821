package queries

import (
	"context"

	"pearhub/storage/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func GetContent(ctx context.Context, db DBTX, id uuid.UUID) (models.Content, error) {
	var content models.Content
	err := db.QueryRow(
		ctx,
		`SELECT id, business_id, title, description, type, created_at
		 FROM contents
		 WHERE id = $1`,
		id,
	).Scan(
		&content.ID,
		&content.BusinessID,
		&content.Title,
		&content.Description,
		&content.Type,
		&content.CreatedAt,
	)
	return content, err
}

func GetBusinessBySlug(ctx context.Context, db DBTX, slug string) (models.Business, error) {
	var business models.Business
	err := db.QueryRow(
		ctx,
		`SELECT id, slug, name, created_at
		 FROM businesses
		 WHERE slug = $1`,
		slug,
	).Scan(
		&business.ID,
		&business.Slug,
		&business.Name,
		&business.CreatedAt,
	)
	return business, err
}

func ListBusinessContent(
	ctx context.Context,
	db DBTX,
	businessID uuid.UUID,
	limit int,
	offset int,
) ([]models.Content, error) {
	rows, err := db.Query(
		ctx,
		`SELECT id, business_id, title, description, type, created_at
		 FROM contents
		 WHERE business_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		businessID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanContents(rows)
}

func CountBusinessContent(ctx context.Context, db DBTX, businessID uuid.UUID) (int64, error) {
	var count int64
	err := db.QueryRow(
		ctx,
		`SELECT count(*) FROM contents WHERE business_id = $1`,
		businessID,
	).Scan(&count)
	return count, err
}

func scanContents(rows pgx.Rows) ([]models.Content, error) {
	contents := make([]models.Content, 0)
	for rows.Next() {
		var content models.Content
		if err := rows.Scan(
			&content.ID,
			&content.BusinessID,
			&content.Title,
			&content.Description,
			&content.Type,
			&content.CreatedAt,
		); err != nil {
			return nil, err
		}
		contents = append(contents, content)
	}
	return contents, rows.Err()
}
