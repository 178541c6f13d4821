package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"pearhub/monitoring"
	"pearhub/storage/cache"
	"pearhub/storage/db/queries"
	"pearhub/storage/models"
	"pearhub/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// maxSubmitAttempts bounds retries after losing a uniqueness race.
const maxSubmitAttempts = 2

// Manager is the ledger facade: every interaction write goes through it as a
// single transaction over the interaction rows and the counter table, and it
// owns the redis counter cache sitting in front of the hot read path.
type Manager struct {
	db       *pgxpool.Pool
	counters cache.CountersCache
}

type ContentDetail struct {
	Content          models.Content
	Counters         models.CounterSnapshot
	UserInteractions map[models.InteractionType]bool
}

type FeedPage struct {
	Items      []ContentDetail
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}

func NewManager(db *pgxpool.Pool, redisConnection *redis.Client) *Manager {
	countersCacheExpiration := utils.IntFromString(
		os.Getenv("COUNTERS_CACHE_EXPIRATION_MINUTES"), 60,
	)

	return &Manager{
		db: db,
		counters: cache.NewCountersCache(
			redisConnection,
			time.Duration(countersCacheExpiration)*time.Minute,
		),
	}
}

// SubmitInteraction records an engagement event. The returned bool reports
// whether a new row was written; an idempotent replay returns the existing
// row with false. A lost uniqueness race is retried once before resolving.
func (m *Manager) SubmitInteraction(
	ctx context.Context,
	userID uuid.UUID,
	contentID uuid.UUID,
	kind models.InteractionType,
	payload string,
) (*models.Interaction, bool, error) {
	if !kind.Valid() {
		return nil, false, &ValidationError{Reason: fmt.Sprintf("unknown interaction type %q", kind)}
	}

	switch kind {
	case models.Comment:
		if payload == "" {
			return nil, false, &ValidationError{Reason: "comment payload must not be empty"}
		}
	case models.Share:
		if len(payload) > maxShareTokenLength {
			return nil, false, &ValidationError{Reason: "share token too long"}
		}
		if payload == "" {
			token, err := GenerateShareToken()
			if err != nil {
				return nil, false, err
			}
			payload = token
		}
	default:
		// Views, likes and clicks carry no payload.
		payload = ""
	}

	if err := m.contentExists(ctx, contentID); err != nil {
		return nil, false, err
	}

	var interaction *models.Interaction
	var created bool
	var err error
	for attempt := 0; attempt < maxSubmitAttempts; attempt++ {
		interaction, created, err = m.submitOnce(ctx, userID, contentID, kind, payload)
		if !errors.Is(err, errStorageConflict) {
			break
		}
		log.Infof(
			"Interaction submit lost a storage race: user=%s content=%s type=%s",
			userID, contentID, kind,
		)
	}
	if err = taxonomyForSubmit(err); err != nil {
		return nil, false, err
	}
	if created {
		monitoring.InteractionsTotal.WithLabelValues(string(kind)).Inc()
	}
	return interaction, created, nil
}

// taxonomyForSubmit converts an exhausted retry into a caller-facing error.
// The raw sentinel never leaves the Manager.
func taxonomyForSubmit(err error) error {
	if errors.Is(err, errStorageConflict) {
		return &ConflictError{Reason: "concurrent interaction submissions"}
	}
	return err
}

func (m *Manager) submitOnce(
	ctx context.Context,
	userID uuid.UUID,
	contentID uuid.UUID,
	kind models.InteractionType,
	payload string,
) (*models.Interaction, bool, error) {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("begin submit transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if !kind.Repeatable() {
		existing, found, err := queries.GetLiveInteraction(ctx, tx, userID, contentID, kind)
		if err != nil {
			return nil, false, fmt.Errorf("check live interaction: %w", err)
		}
		if found {
			if kind == models.Like {
				return nil, false, &ConflictError{Reason: "already liked"}
			}
			// Views, clicks and shares are facts that happen once; replaying
			// them returns the recorded row untouched.
			return &existing, false, nil
		}
	}

	interaction := models.Interaction{
		ID:        uuid.New(),
		Type:      kind,
		UserID:    userID,
		ContentID: contentID,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}

	inserted, err := queries.InsertInteraction(ctx, tx, interaction)
	if err != nil {
		return nil, false, fmt.Errorf("insert interaction: %w", err)
	}
	if !inserted {
		// A concurrent writer won the unique index between our check and the
		// insert; the caller retries and resolves against the winner's row.
		return nil, false, errStorageConflict
	}

	if err := queries.ApplyCounterDelta(ctx, tx, contentID, kind, 1); err != nil {
		return nil, false, fmt.Errorf("increment counter: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("commit submit transaction: %w", err)
	}

	m.counters.ApplyDelta(contentID.String(), kind, 1)
	return &interaction, true, nil
}

// RemoveInteraction deletes a live like or comment and decrements its
// counter. commentID selects a specific comment; uuid.Nil means the caller's
// most recent one.
func (m *Manager) RemoveInteraction(
	ctx context.Context,
	userID uuid.UUID,
	contentID uuid.UUID,
	kind models.InteractionType,
	commentID uuid.UUID,
) error {
	if !kind.Valid() {
		return &ValidationError{Reason: fmt.Sprintf("unknown interaction type %q", kind)}
	}
	if !kind.Removable() {
		return &InvalidOperationError{
			Reason: fmt.Sprintf("%s interactions cannot be removed", kind),
		}
	}

	if err := m.contentExists(ctx, contentID); err != nil {
		return err
	}

	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin remove transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var deleted bool
	switch kind {
	case models.Like:
		deleted, err = queries.DeleteLike(ctx, tx, userID, contentID)
	case models.Comment:
		deleted, err = queries.DeleteComment(ctx, tx, userID, contentID, commentID)
	}
	if err != nil {
		return fmt.Errorf("delete interaction: %w", err)
	}
	if !deleted {
		return &NotFoundError{Resource: string(kind)}
	}

	if err := queries.ApplyCounterDelta(ctx, tx, contentID, kind, -1); err != nil {
		return fmt.Errorf("decrement counter: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit remove transaction: %w", err)
	}

	m.counters.ApplyDelta(contentID.String(), kind, -1)
	return nil
}

// IssueOrGetShareToken returns the user's share token for the content,
// creating the share interaction on first call. alreadyShared reports a
// replay, so the client can recover a lost link without erroring.
func (m *Manager) IssueOrGetShareToken(
	ctx context.Context,
	userID uuid.UUID,
	contentID uuid.UUID,
) (token string, alreadyShared bool, err error) {
	interaction, created, err := m.SubmitInteraction(ctx, userID, contentID, models.Share, "")
	if err != nil {
		return "", false, err
	}
	return interaction.Payload, !created, nil
}

// ContentDetail assembles one content item with its counters and the
// caller's own interaction flags.
func (m *Manager) ContentDetail(
	ctx context.Context,
	userID uuid.UUID,
	contentID uuid.UUID,
) (*ContentDetail, error) {
	content, err := queries.GetContent(ctx, m.db, contentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Resource: "content"}
	}
	if err != nil {
		return nil, fmt.Errorf("get content: %w", err)
	}

	counters, cached := m.counters.GetCounters(contentID.String())
	if !cached {
		counters, err = queries.GetCounters(ctx, m.db, contentID)
		if err != nil {
			return nil, fmt.Errorf("get counters: %w", err)
		}
		m.counters.SetCounters(contentID.String(), counters)
	}
	counters.ContentID = contentID

	flags, err := queries.UserInteractionFlags(ctx, m.db, userID, contentID)
	if err != nil {
		return nil, fmt.Errorf("get interaction flags: %w", err)
	}

	return &ContentDetail{
		Content:          content,
		Counters:         counters,
		UserInteractions: flags,
	}, nil
}

// Feed lists a business's content for a member, newest first, with counters
// and the caller's interaction flags.
func (m *Manager) Feed(
	ctx context.Context,
	userID uuid.UUID,
	businessSlug string,
	page int,
	limit int,
) (*FeedPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 12
	}

	business, err := queries.GetBusinessBySlug(ctx, m.db, businessSlug)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Resource: "business"}
	}
	if err != nil {
		return nil, fmt.Errorf("get business: %w", err)
	}

	contents, err := queries.ListBusinessContent(ctx, m.db, business.ID, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	total, err := queries.CountBusinessContent(ctx, m.db, business.ID)
	if err != nil {
		return nil, fmt.Errorf("count content: %w", err)
	}

	contentIDs := make([]uuid.UUID, len(contents))
	for i, content := range contents {
		contentIDs[i] = content.ID
	}

	counters, err := queries.GetCountersForContents(ctx, m.db, contentIDs)
	if err != nil {
		return nil, fmt.Errorf("get counters: %w", err)
	}
	flags, err := queries.UserInteractionFlagsForContents(ctx, m.db, userID, contentIDs)
	if err != nil {
		return nil, fmt.Errorf("get interaction flags: %w", err)
	}

	items := make([]ContentDetail, len(contents))
	for i, content := range contents {
		items[i] = ContentDetail{
			Content:          content,
			Counters:         counters[content.ID],
			UserInteractions: flags[content.ID],
		}
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &FeedPage{
		Items:      items,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// ReconcileCounters recounts every tally from the live rows, repairing any
// drift, and drops repaired entries from the cache. Returns the number of
// contents touched.
func (m *Manager) ReconcileCounters(ctx context.Context) (int, error) {
	repaired, err := queries.RecountCounters(ctx, m.db)
	if err != nil {
		return 0, fmt.Errorf("recount counters: %w", err)
	}
	if len(repaired) > 0 {
		ids := make([]string, len(repaired))
		for i, id := range repaired {
			ids[i] = id.String()
		}
		m.counters.Delete(ids...)
		monitoring.CounterRepairs.Add(float64(len(repaired)))
	}
	return len(repaired), nil
}

func (m *Manager) contentExists(ctx context.Context, contentID uuid.UUID) error {
	_, err := queries.GetContent(ctx, m.db, contentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return &NotFoundError{Resource: "content"}
	}
	if err != nil {
		return fmt.Errorf("get content: %w", err)
	}
	return nil
}
