package queries

import (
	"context"
	"errors"
	"fmt"

	"pearhub/storage/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var counterColumns = map[models.InteractionType]string{
	models.View:    "views",
	models.Like:    "likes",
	models.Comment: "comments",
	models.Share:   "shares",
	models.Click:   "clicks",
}

// ApplyCounterDelta adjusts one tally, flooring at zero. Must run in the same
// transaction as the interaction row change it mirrors.
func ApplyCounterDelta(
	ctx context.Context,
	db DBTX,
	contentID uuid.UUID,
	kind models.InteractionType,
	delta int64,
) error {
	column, ok := counterColumns[kind]
	if !ok {
		return fmt.Errorf("no counter column for type %q", kind)
	}

	_, err := db.Exec(
		ctx,
		fmt.Sprintf(
			`INSERT INTO content_counters (content_id, %[1]s)
			 VALUES ($1, GREATEST(0, $2::bigint))
			 ON CONFLICT (content_id)
			 DO UPDATE SET %[1]s = GREATEST(0, content_counters.%[1]s + $2)`,
			column,
		),
		contentID, delta,
	)
	return err
}

// GetCounters returns the snapshot for one content item; a missing row is an
// all-zero snapshot, not an error.
func GetCounters(ctx context.Context, db DBTX, contentID uuid.UUID) (models.CounterSnapshot, error) {
	snapshot := models.CounterSnapshot{ContentID: contentID}
	err := db.QueryRow(
		ctx,
		`SELECT views, likes, comments, shares, clicks
		 FROM content_counters
		 WHERE content_id = $1`,
		contentID,
	).Scan(
		&snapshot.Views,
		&snapshot.Likes,
		&snapshot.Comments,
		&snapshot.Shares,
		&snapshot.Clicks,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return snapshot, nil
	}
	return snapshot, err
}

func GetCountersForContents(
	ctx context.Context,
	db DBTX,
	contentIDs []uuid.UUID,
) (map[uuid.UUID]models.CounterSnapshot, error) {
	snapshots := make(map[uuid.UUID]models.CounterSnapshot, len(contentIDs))
	for _, id := range contentIDs {
		snapshots[id] = models.CounterSnapshot{ContentID: id}
	}
	if len(contentIDs) == 0 {
		return snapshots, nil
	}

	rows, err := db.Query(
		ctx,
		`SELECT content_id, views, likes, comments, shares, clicks
		 FROM content_counters
		 WHERE content_id = ANY($1)`,
		contentIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var snapshot models.CounterSnapshot
		if err := rows.Scan(
			&snapshot.ContentID,
			&snapshot.Views,
			&snapshot.Likes,
			&snapshot.Comments,
			&snapshot.Shares,
			&snapshot.Clicks,
		); err != nil {
			return nil, err
		}
		snapshots[snapshot.ContentID] = snapshot
	}
	return snapshots, rows.Err()
}

// RecountCounters rewrites every tally from the live interaction rows and
// returns the ids of contents whose counters had drifted.
func RecountCounters(ctx context.Context, db DBTX) ([]uuid.UUID, error) {
	rows, err := db.Query(
		ctx,
		`WITH live AS (
		     SELECT c.id AS content_id,
		            count(*) FILTER (WHERE i.type = 'VIEW')    AS views,
		            count(*) FILTER (WHERE i.type = 'LIKE')    AS likes,
		            count(*) FILTER (WHERE i.type = 'COMMENT') AS comments,
		            count(*) FILTER (WHERE i.type = 'SHARE')   AS shares,
		            count(*) FILTER (WHERE i.type = 'CLICK')   AS clicks
		     FROM contents c
		     LEFT JOIN interactions i ON i.content_id = c.id
		     GROUP BY c.id
		 )
		 INSERT INTO content_counters (content_id, views, likes, comments, shares, clicks)
		 SELECT content_id, views, likes, comments, shares, clicks FROM live
		 ON CONFLICT (content_id) DO UPDATE
		 SET views = EXCLUDED.views,
		     likes = EXCLUDED.likes,
		     comments = EXCLUDED.comments,
		     shares = EXCLUDED.shares,
		     clicks = EXCLUDED.clicks
		 WHERE (content_counters.views, content_counters.likes, content_counters.comments,
		        content_counters.shares, content_counters.clicks)
		    IS DISTINCT FROM
		       (EXCLUDED.views, EXCLUDED.likes, EXCLUDED.comments,
		        EXCLUDED.shares, EXCLUDED.clicks)
		 RETURNING content_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	repaired := make([]uuid.UUID, 0)
	for rows.Next() {
		var contentID uuid.UUID
		if err := rows.Scan(&contentID); err != nil {
			return nil, err
		}
		repaired = append(repaired, contentID)
	}
	return repaired, rows.Err()
}
