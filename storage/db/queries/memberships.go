package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CountMemberships counts memberships of a business created inside [from, to).
// Zero times lift the corresponding bound.
func CountMemberships(
	ctx context.Context,
	db DBTX,
	businessID uuid.UUID,
	from time.Time,
	to time.Time,
) (int64, error) {
	var count int64
	err := db.QueryRow(
		ctx,
		`SELECT count(*) FROM memberships
		 WHERE business_id = $1
		   AND ($2::timestamptz IS NULL OR created_at >= $2)
		   AND ($3::timestamptz IS NULL OR created_at < $3)`,
		businessID, nullableTime(from), nullableTime(to),
	).Scan(&count)
	return count, err
}

// CountActiveMembers counts members of the business with at least one
// interaction against its content inside [from, to).
func CountActiveMembers(
	ctx context.Context,
	db DBTX,
	businessID uuid.UUID,
	from time.Time,
	to time.Time,
) (int64, error) {
	var count int64
	err := db.QueryRow(
		ctx,
		`SELECT count(DISTINCT m.user_id)
		 FROM memberships m
		 JOIN interactions i ON i.user_id = m.user_id
		 JOIN contents c ON c.id = i.content_id AND c.business_id = m.business_id
		 WHERE m.business_id = $1
		   AND ($2::timestamptz IS NULL OR i.created_at >= $2)
		   AND ($3::timestamptz IS NULL OR i.created_at < $3)`,
		businessID, nullableTime(from), nullableTime(to),
	).Scan(&count)
	return count, err
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
