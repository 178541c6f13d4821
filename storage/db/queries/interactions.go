package queries

import (
	"context"
	"errors"

	"pearhub/storage/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InsertInteraction writes a new interaction row. For non-comment types a
// concurrent duplicate hits the partial unique index and no row is inserted;
// the returned bool reports whether the insert happened.
func InsertInteraction(ctx context.Context, db DBTX, interaction models.Interaction) (bool, error) {
	var payload *string
	if interaction.Payload != "" {
		payload = &interaction.Payload
	}

	tag, err := db.Exec(
		ctx,
		`INSERT INTO interactions (id, type, user_id, content_id, payload, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id, content_id, type) WHERE type <> 'COMMENT' DO NOTHING`,
		interaction.ID,
		interaction.Type,
		interaction.UserID,
		interaction.ContentID,
		payload,
		interaction.CreatedAt,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// GetLiveInteraction returns the unique live row for a non-comment type.
func GetLiveInteraction(
	ctx context.Context,
	db DBTX,
	userID uuid.UUID,
	contentID uuid.UUID,
	kind models.InteractionType,
) (models.Interaction, bool, error) {
	var interaction models.Interaction
	var payload *string
	err := db.QueryRow(
		ctx,
		`SELECT id, type, user_id, content_id, payload, created_at
		 FROM interactions
		 WHERE user_id = $1 AND content_id = $2 AND type = $3`,
		userID, contentID, kind,
	).Scan(
		&interaction.ID,
		&interaction.Type,
		&interaction.UserID,
		&interaction.ContentID,
		&payload,
		&interaction.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Interaction{}, false, nil
	}
	if err != nil {
		return models.Interaction{}, false, err
	}
	if payload != nil {
		interaction.Payload = *payload
	}
	return interaction, true, nil
}

// DeleteLike removes the caller's live like row, reporting whether one existed.
func DeleteLike(ctx context.Context, db DBTX, userID, contentID uuid.UUID) (bool, error) {
	tag, err := db.Exec(
		ctx,
		`DELETE FROM interactions
		 WHERE user_id = $1 AND content_id = $2 AND type = 'LIKE'`,
		userID, contentID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteComment removes one of the caller's comments. With a zero id the most
// recent comment on the content is removed.
func DeleteComment(
	ctx context.Context,
	db DBTX,
	userID uuid.UUID,
	contentID uuid.UUID,
	commentID uuid.UUID,
) (bool, error) {
	var tagSQL string
	args := []any{userID, contentID}
	if commentID == uuid.Nil {
		tagSQL = `DELETE FROM interactions
		 WHERE id = (
		     SELECT id FROM interactions
		     WHERE user_id = $1 AND content_id = $2 AND type = 'COMMENT'
		     ORDER BY created_at DESC
		     LIMIT 1
		 )`
	} else {
		tagSQL = `DELETE FROM interactions
		 WHERE id = $3 AND user_id = $1 AND content_id = $2 AND type = 'COMMENT'`
		args = append(args, commentID)
	}

	tag, err := db.Exec(ctx, tagSQL, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// UserInteractionFlags returns which interaction types the user has live rows
// for on one content item.
func UserInteractionFlags(
	ctx context.Context,
	db DBTX,
	userID uuid.UUID,
	contentID uuid.UUID,
) (map[models.InteractionType]bool, error) {
	rows, err := db.Query(
		ctx,
		`SELECT DISTINCT type FROM interactions
		 WHERE user_id = $1 AND content_id = $2`,
		userID, contentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flags := make(map[models.InteractionType]bool, len(models.InteractionTypes))
	for _, kind := range models.InteractionTypes {
		flags[kind] = false
	}
	for rows.Next() {
		var kind models.InteractionType
		if err := rows.Scan(&kind); err != nil {
			return nil, err
		}
		flags[kind] = true
	}
	return flags, rows.Err()
}

// UserInteractionFlagsForContents is the batch form used by the feed listing.
func UserInteractionFlagsForContents(
	ctx context.Context,
	db DBTX,
	userID uuid.UUID,
	contentIDs []uuid.UUID,
) (map[uuid.UUID]map[models.InteractionType]bool, error) {
	flags := make(map[uuid.UUID]map[models.InteractionType]bool, len(contentIDs))
	for _, id := range contentIDs {
		perContent := make(map[models.InteractionType]bool, len(models.InteractionTypes))
		for _, kind := range models.InteractionTypes {
			perContent[kind] = false
		}
		flags[id] = perContent
	}
	if len(contentIDs) == 0 {
		return flags, nil
	}

	rows, err := db.Query(
		ctx,
		`SELECT DISTINCT content_id, type FROM interactions
		 WHERE user_id = $1 AND content_id = ANY($2)`,
		userID, contentIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var contentID uuid.UUID
		var kind models.InteractionType
		if err := rows.Scan(&contentID, &kind); err != nil {
			return nil, err
		}
		flags[contentID][kind] = true
	}
	return flags, rows.Err()
}
