// Package analytics is the read side of the ledger: time-windowed
// aggregations over the interaction store, counter table and membership
// metadata, always scoped to a single business. It takes no locks and
// promises no consistency between two separate calls.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"math"

	"pearhub/storage"
	"pearhub/storage/db/queries"
	"pearhub/storage/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultTopContentLimit caps the top-content ranking when the caller does
// not ask for a size.
const DefaultTopContentLimit = 5

type Aggregator struct {
	db *pgxpool.Pool
}

func NewAggregator(db *pgxpool.Pool) *Aggregator {
	return &Aggregator{db: db}
}

type Growth struct {
	Count         int64
	GrowthPercent float64
}

type ActiveMembers struct {
	TotalMembers            int64
	ActiveMembers           int64
	ActiveMembersPercentage float64
}

type ContentAnalytics struct {
	Content      models.Content
	Interactions models.CounterSnapshot
}

// Overview returns the five engagement totals for the business. A window
// counts interaction rows created inside it; without one the counter table
// is summed directly.
func (a *Aggregator) Overview(
	ctx context.Context,
	businessID uuid.UUID,
	window Window,
) (models.CounterSnapshot, error) {
	if window.IsZero() {
		return queries.OverviewTotals(ctx, a.db, businessID)
	}
	return queries.OverviewWindow(ctx, a.db, businessID, window.Start, window.End)
}

func (a *Aggregator) ContentTypeDistribution(
	ctx context.Context,
	businessID uuid.UUID,
) ([]queries.TypeCount, error) {
	return queries.ContentTypeDistribution(ctx, a.db, businessID)
}

// TopContent ranks the business's content by total interaction count,
// descending, ties broken by most recent creation.
func (a *Aggregator) TopContent(
	ctx context.Context,
	businessID uuid.UUID,
	window Window,
	limit int,
) ([]queries.TopContentRow, error) {
	if limit == 0 {
		limit = DefaultTopContentLimit
	}
	if limit < 1 {
		return nil, &storage.ValidationError{Reason: "limit must be at least 1"}
	}
	return queries.TopContent(ctx, a.db, businessID, window.Start, window.End, limit)
}

// ContentDetails returns the per-type breakdown for one content item owned
// by the business. Content without interactions yields an all-zero
// breakdown.
func (a *Aggregator) ContentDetails(
	ctx context.Context,
	businessID uuid.UUID,
	contentID uuid.UUID,
) (*ContentAnalytics, error) {
	content, err := queries.GetContent(ctx, a.db, contentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &storage.NotFoundError{Resource: "content"}
	}
	if err != nil {
		return nil, fmt.Errorf("get content: %w", err)
	}
	if content.BusinessID != businessID {
		// Content of other businesses is invisible, not forbidden.
		return nil, &storage.NotFoundError{Resource: "content"}
	}

	counters, err := queries.GetCounters(ctx, a.db, contentID)
	if err != nil {
		return nil, fmt.Errorf("get counters: %w", err)
	}
	counters.ContentID = contentID

	return &ContentAnalytics{
		Content:      content,
		Interactions: counters,
	}, nil
}

// MembershipCount counts memberships created inside the window, or all
// memberships when the window is unset.
func (a *Aggregator) MembershipCount(
	ctx context.Context,
	businessID uuid.UUID,
	window Window,
) (int64, error) {
	return queries.CountMemberships(ctx, a.db, businessID, window.Start, window.End)
}

// MembershipGrowth compares the window's membership count with the previous
// month's.
func (a *Aggregator) MembershipGrowth(
	ctx context.Context,
	businessID uuid.UUID,
	window Window,
) (Growth, error) {
	if window.IsZero() {
		return Growth{}, &storage.ValidationError{Reason: "growth requires a window"}
	}

	current, err := a.MembershipCount(ctx, businessID, window)
	if err != nil {
		return Growth{}, err
	}
	previous, err := a.MembershipCount(ctx, businessID, window.Previous())
	if err != nil {
		return Growth{}, err
	}

	return Growth{
		Count:         current,
		GrowthPercent: GrowthPercent(current, previous),
	}, nil
}

// GrowthPercent implements the three-way zero policy: both windows empty is
// flat, growth from nothing is 100%, anything else is the usual ratio
// rounded to one decimal. Division by zero can never escape here.
func GrowthPercent(current, previous int64) float64 {
	switch {
	case previous == 0 && current == 0:
		return 0
	case previous == 0:
		return 100
	default:
		return round1(float64(current-previous) / float64(previous) * 100)
	}
}

// PostsPublished buckets the business's content creation per day inside the
// window.
func (a *Aggregator) PostsPublished(
	ctx context.Context,
	businessID uuid.UUID,
	window Window,
) ([]queries.DateCount, error) {
	if window.IsZero() {
		return nil, &storage.ValidationError{Reason: "posts-published requires a window"}
	}
	return queries.PostsPublished(ctx, a.db, businessID, window.Start, window.End)
}

// ActiveMembers reports how many of the business's members interacted with
// its content inside the window.
func (a *Aggregator) ActiveMembers(
	ctx context.Context,
	businessID uuid.UUID,
	window Window,
) (ActiveMembers, error) {
	total, err := queries.CountMemberships(ctx, a.db, businessID, Window{}.Start, Window{}.End)
	if err != nil {
		return ActiveMembers{}, err
	}
	active, err := queries.CountActiveMembers(ctx, a.db, businessID, window.Start, window.End)
	if err != nil {
		return ActiveMembers{}, err
	}

	percentage := float64(0)
	if total > 0 {
		percentage = round1(float64(active) / float64(total) * 100)
	}
	return ActiveMembers{
		TotalMembers:            total,
		ActiveMembers:           active,
		ActiveMembersPercentage: percentage,
	}, nil
}

// AverageInteractions reports the average interaction count per content,
// grouped by content type and interaction type.
func (a *Aggregator) AverageInteractions(
	ctx context.Context,
	businessID uuid.UUID,
	window Window,
) (map[models.ContentType]map[models.InteractionType]float64, error) {
	rows, err := queries.AverageInteractions(ctx, a.db, businessID, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	averages := make(map[models.ContentType]map[models.InteractionType]float64)
	for _, row := range rows {
		perType, ok := averages[row.ContentType]
		if !ok {
			perType = make(map[models.InteractionType]float64)
			averages[row.ContentType] = perType
		}
		perType[row.InteractionType] = round1(row.Average)
	}
	return averages, nil
}

func round1(value float64) float64 {
	return math.Round(value*10) / 10
}
