package queries

import (
	"context"
	"time"

	"pearhub/storage/models"

	"github.com/google/uuid"
)

type TypeCount struct {
	Type  models.ContentType
	Count int64
}

type TopContentRow struct {
	ContentID        uuid.UUID
	Title            string
	InteractionCount int64
}

type DateCount struct {
	Date  time.Time
	Count int64
}

type AverageInteractionRow struct {
	ContentType     models.ContentType
	InteractionType models.InteractionType
	Average         float64
}

// OverviewTotals sums the counter table across the business's content.
func OverviewTotals(ctx context.Context, db DBTX, businessID uuid.UUID) (models.CounterSnapshot, error) {
	var totals models.CounterSnapshot
	err := db.QueryRow(
		ctx,
		`SELECT COALESCE(sum(cc.views), 0),
		        COALESCE(sum(cc.likes), 0),
		        COALESCE(sum(cc.comments), 0),
		        COALESCE(sum(cc.shares), 0),
		        COALESCE(sum(cc.clicks), 0)
		 FROM content_counters cc
		 JOIN contents c ON c.id = cc.content_id
		 WHERE c.business_id = $1`,
		businessID,
	).Scan(
		&totals.Views,
		&totals.Likes,
		&totals.Comments,
		&totals.Shares,
		&totals.Clicks,
	)
	return totals, err
}

// OverviewWindow counts live interaction rows created inside [from, to).
func OverviewWindow(
	ctx context.Context,
	db DBTX,
	businessID uuid.UUID,
	from time.Time,
	to time.Time,
) (models.CounterSnapshot, error) {
	var totals models.CounterSnapshot
	err := db.QueryRow(
		ctx,
		`SELECT count(*) FILTER (WHERE i.type = 'VIEW'),
		        count(*) FILTER (WHERE i.type = 'LIKE'),
		        count(*) FILTER (WHERE i.type = 'COMMENT'),
		        count(*) FILTER (WHERE i.type = 'SHARE'),
		        count(*) FILTER (WHERE i.type = 'CLICK')
		 FROM interactions i
		 JOIN contents c ON c.id = i.content_id
		 WHERE c.business_id = $1 AND i.created_at >= $2 AND i.created_at < $3`,
		businessID, from, to,
	).Scan(
		&totals.Views,
		&totals.Likes,
		&totals.Comments,
		&totals.Shares,
		&totals.Clicks,
	)
	return totals, err
}

func ContentTypeDistribution(ctx context.Context, db DBTX, businessID uuid.UUID) ([]TypeCount, error) {
	rows, err := db.Query(
		ctx,
		`SELECT type, count(*) FROM contents
		 WHERE business_id = $1
		 GROUP BY type
		 ORDER BY count(*) DESC, type`,
		businessID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	distribution := make([]TypeCount, 0)
	for rows.Next() {
		var tc TypeCount
		if err := rows.Scan(&tc.Type, &tc.Count); err != nil {
			return nil, err
		}
		distribution = append(distribution, tc)
	}
	return distribution, rows.Err()
}

// TopContent ranks the business's content by total interactions, newest
// first on ties. Zero times fall back to the counter table; a window counts
// rows created inside it.
func TopContent(
	ctx context.Context,
	db DBTX,
	businessID uuid.UUID,
	from time.Time,
	to time.Time,
	limit int,
) ([]TopContentRow, error) {
	var sql string
	args := []any{businessID, limit}
	if from.IsZero() && to.IsZero() {
		sql = `SELECT c.id, c.title,
		              COALESCE(cc.views + cc.likes + cc.comments + cc.shares + cc.clicks, 0) AS total
		       FROM contents c
		       LEFT JOIN content_counters cc ON cc.content_id = c.id
		       WHERE c.business_id = $1
		       ORDER BY total DESC, c.created_at DESC
		       LIMIT $2`
	} else {
		sql = `SELECT c.id, c.title, count(i.id) AS total
		       FROM contents c
		       LEFT JOIN interactions i
		         ON i.content_id = c.id AND i.created_at >= $3 AND i.created_at < $4
		       WHERE c.business_id = $1
		       GROUP BY c.id, c.title, c.created_at
		       ORDER BY total DESC, c.created_at DESC
		       LIMIT $2`
		args = append(args, from, to)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	top := make([]TopContentRow, 0, limit)
	for rows.Next() {
		var row TopContentRow
		if err := rows.Scan(&row.ContentID, &row.Title, &row.InteractionCount); err != nil {
			return nil, err
		}
		top = append(top, row)
	}
	return top, rows.Err()
}

// PostsPublished buckets content creation by day inside [from, to).
func PostsPublished(
	ctx context.Context,
	db DBTX,
	businessID uuid.UUID,
	from time.Time,
	to time.Time,
) ([]DateCount, error) {
	rows, err := db.Query(
		ctx,
		`SELECT date_trunc('day', created_at) AS day, count(*)
		 FROM contents
		 WHERE business_id = $1 AND created_at >= $2 AND created_at < $3
		 GROUP BY day
		 ORDER BY day`,
		businessID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	buckets := make([]DateCount, 0)
	for rows.Next() {
		var dc DateCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, err
		}
		buckets = append(buckets, dc)
	}
	return buckets, rows.Err()
}

// AverageInteractions reports, per content type, the average number of
// interactions a content item received inside [from, to), split by
// interaction type.
func AverageInteractions(
	ctx context.Context,
	db DBTX,
	businessID uuid.UUID,
	from time.Time,
	to time.Time,
) ([]AverageInteractionRow, error) {
	rows, err := db.Query(
		ctx,
		`WITH per_content AS (
		     SELECT c.id, c.type AS content_type, i.type AS interaction_type, count(i.id) AS n
		     FROM contents c
		     LEFT JOIN interactions i
		       ON i.content_id = c.id
		      AND ($2::timestamptz IS NULL OR i.created_at >= $2)
		      AND ($3::timestamptz IS NULL OR i.created_at < $3)
		     WHERE c.business_id = $1
		     GROUP BY c.id, c.type, i.type
		 )
		 SELECT content_type, interaction_type, avg(n)::float8
		 FROM per_content
		 WHERE interaction_type IS NOT NULL
		 GROUP BY content_type, interaction_type
		 ORDER BY content_type, interaction_type`,
		businessID, nullableTime(from), nullableTime(to),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	averages := make([]AverageInteractionRow, 0)
	for rows.Next() {
		var row AverageInteractionRow
		if err := rows.Scan(&row.ContentType, &row.InteractionType, &row.Average); err != nil {
			return nil, err
		}
		averages = append(averages, row)
	}
	return averages, rows.Err()
}
