package storage_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"pearhub/storage"
	"pearhub/storage/db/queries"
	"pearhub/storage/models"
	"pearhub/storage/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager(t *testing.T) {
	env := testutils.Setup(t)
	manager := storage.NewManager(env.DB, env.Redis)
	ctx := context.Background()

	newContent := func(t *testing.T) uuid.UUID {
		businessID := env.CreateBusiness(t, "biz-"+uuid.NewString()[:8])
		return env.CreateContent(t, businessID, models.ContentTypeText, time.Now().UTC())
	}

	liveRows := func(t *testing.T, contentID uuid.UUID, kind models.InteractionType) int64 {
		var count int64
		err := env.DB.QueryRow(
			ctx,
			"SELECT count(*) FROM interactions WHERE content_id = $1 AND type = $2",
			contentID, kind,
		).Scan(&count)
		require.NoError(t, err)
		return count
	}

	t.Run("view is idempotent per user", func(t *testing.T) {
		contentID := newContent(t)
		userID := uuid.New()

		first, created, err := manager.SubmitInteraction(ctx, userID, contentID, models.View, "")
		require.NoError(t, err)
		assert.True(t, created)

		second, created, err := manager.SubmitInteraction(ctx, userID, contentID, models.View, "")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, second.ID)

		counters, err := queries.GetCounters(ctx, env.DB, contentID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), counters.Views)
		assert.Equal(t, liveRows(t, contentID, models.View), counters.Views)
	})

	t.Run("duplicate like conflicts and toggles via remove", func(t *testing.T) {
		contentID := newContent(t)
		userID := uuid.New()

		_, created, err := manager.SubmitInteraction(ctx, userID, contentID, models.Like, "")
		require.NoError(t, err)
		assert.True(t, created)

		_, _, err = manager.SubmitInteraction(ctx, userID, contentID, models.Like, "")
		var conflictErr *storage.ConflictError
		require.ErrorAs(t, err, &conflictErr)

		require.NoError(t, manager.RemoveInteraction(ctx, userID, contentID, models.Like, uuid.Nil))

		counters, err := queries.GetCounters(ctx, env.DB, contentID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), counters.Likes)

		err = manager.RemoveInteraction(ctx, userID, contentID, models.Like, uuid.Nil)
		var notFoundErr *storage.NotFoundError
		require.ErrorAs(t, err, &notFoundErr)

		_, created, err = manager.SubmitInteraction(ctx, userID, contentID, models.Like, "")
		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("comments repeat and remove individually", func(t *testing.T) {
		contentID := newContent(t)
		userID := uuid.New()

		first, _, err := manager.SubmitInteraction(ctx, userID, contentID, models.Comment, "first")
		require.NoError(t, err)
		_, _, err = manager.SubmitInteraction(ctx, userID, contentID, models.Comment, "second")
		require.NoError(t, err)
		last, _, err := manager.SubmitInteraction(ctx, userID, contentID, models.Comment, "third")
		require.NoError(t, err)

		counters, err := queries.GetCounters(ctx, env.DB, contentID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), counters.Comments)

		// A specific comment by id.
		require.NoError(t, manager.RemoveInteraction(ctx, userID, contentID, models.Comment, first.ID))
		// Most recent comment when no id is given.
		require.NoError(t, manager.RemoveInteraction(ctx, userID, contentID, models.Comment, uuid.Nil))

		counters, err = queries.GetCounters(ctx, env.DB, contentID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), counters.Comments)

		var remaining uuid.UUID
		err = env.DB.QueryRow(
			ctx,
			"SELECT id FROM interactions WHERE content_id = $1 AND type = 'COMMENT'",
			contentID,
		).Scan(&remaining)
		require.NoError(t, err)
		assert.Equal(t, "second", mustPayload(t, env, remaining))
		assert.NotEqual(t, last.ID, remaining)
	})

	t.Run("empty comment payload is rejected", func(t *testing.T) {
		contentID := newContent(t)

		_, _, err := manager.SubmitInteraction(ctx, uuid.New(), contentID, models.Comment, "")
		var validationErr *storage.ValidationError
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("share token is stable per user and content", func(t *testing.T) {
		contentID := newContent(t)
		userID := uuid.New()

		token, alreadyShared, err := manager.IssueOrGetShareToken(ctx, userID, contentID)
		require.NoError(t, err)
		assert.False(t, alreadyShared)
		assert.Len(t, token, 8)

		replay, alreadyShared, err := manager.IssueOrGetShareToken(ctx, userID, contentID)
		require.NoError(t, err)
		assert.True(t, alreadyShared)
		assert.Equal(t, token, replay)

		counters, err := queries.GetCounters(ctx, env.DB, contentID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), counters.Shares)
	})

	t.Run("share accepts a caller token once", func(t *testing.T) {
		contentID := newContent(t)
		userID := uuid.New()

		interaction, created, err := manager.SubmitInteraction(ctx, userID, contentID, models.Share, "my-ref-42")
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "my-ref-42", interaction.Payload)

		// The replay keeps the recorded token, whatever the caller sends now.
		replay, created, err := manager.SubmitInteraction(ctx, userID, contentID, models.Share, "other")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "my-ref-42", replay.Payload)
	})

	t.Run("views and shares cannot be removed", func(t *testing.T) {
		contentID := newContent(t)
		userID := uuid.New()

		_, _, err := manager.SubmitInteraction(ctx, userID, contentID, models.View, "")
		require.NoError(t, err)

		var invalidOpErr *storage.InvalidOperationError
		err = manager.RemoveInteraction(ctx, userID, contentID, models.View, uuid.Nil)
		require.ErrorAs(t, err, &invalidOpErr)
		err = manager.RemoveInteraction(ctx, userID, contentID, models.Share, uuid.Nil)
		require.ErrorAs(t, err, &invalidOpErr)
	})

	t.Run("unknown content and type are rejected", func(t *testing.T) {
		var notFoundErr *storage.NotFoundError
		_, _, err := manager.SubmitInteraction(ctx, uuid.New(), uuid.New(), models.View, "")
		require.ErrorAs(t, err, &notFoundErr)

		var validationErr *storage.ValidationError
		_, _, err = manager.SubmitInteraction(ctx, uuid.New(), newContent(t), "UPVOTE", "")
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("concurrent views count once per user", func(t *testing.T) {
		contentID := newContent(t)

		userIDs := make([]uuid.UUID, 50)
		for i := range userIDs {
			userIDs[i] = uuid.New()
		}

		var wg sync.WaitGroup
		for _, userID := range userIDs {
			// Every user races twice; the duplicate must never double count.
			for attempt := 0; attempt < 2; attempt++ {
				wg.Add(1)
				go func(userID uuid.UUID) {
					defer wg.Done()
					_, _, err := manager.SubmitInteraction(ctx, userID, contentID, models.View, "")
					assert.NoError(t, err)
				}(userID)
			}
		}
		wg.Wait()

		counters, err := queries.GetCounters(ctx, env.DB, contentID)
		require.NoError(t, err)
		assert.Equal(t, int64(50), counters.Views)
		assert.Equal(t, liveRows(t, contentID, models.View), counters.Views)
	})

	t.Run("content detail reports counters and own flags", func(t *testing.T) {
		contentID := newContent(t)
		userID := uuid.New()

		_, _, err := manager.SubmitInteraction(ctx, userID, contentID, models.Like, "")
		require.NoError(t, err)
		_, _, err = manager.SubmitInteraction(ctx, uuid.New(), contentID, models.View, "")
		require.NoError(t, err)

		detail, err := manager.ContentDetail(ctx, userID, contentID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), detail.Counters.Likes)
		assert.Equal(t, int64(1), detail.Counters.Views)
		assert.True(t, detail.UserInteractions[models.Like])
		assert.False(t, detail.UserInteractions[models.View])
	})

	t.Run("feed pages newest first", func(t *testing.T) {
		slug := "feed-" + uuid.NewString()[:8]
		businessID := env.CreateBusiness(t, slug)
		base := time.Now().UTC().Add(-time.Hour)
		for i := 0; i < 5; i++ {
			env.CreateContent(t, businessID, models.ContentTypeText, base.Add(time.Duration(i)*time.Minute))
		}

		feed, err := manager.Feed(ctx, uuid.New(), slug, 1, 2)
		require.NoError(t, err)
		assert.Len(t, feed.Items, 2)
		assert.Equal(t, int64(5), feed.Total)
		assert.Equal(t, 3, feed.TotalPages)
		assert.True(t, feed.Items[0].Content.CreatedAt.After(feed.Items[1].Content.CreatedAt))

		_, err = manager.Feed(ctx, uuid.New(), "no-such-business", 1, 2)
		var notFoundErr *storage.NotFoundError
		require.ErrorAs(t, err, &notFoundErr)
	})

	t.Run("reconcile repairs drifted counters", func(t *testing.T) {
		contentID := newContent(t)
		for i := 0; i < 3; i++ {
			_, _, err := manager.SubmitInteraction(ctx, uuid.New(), contentID, models.View, "")
			require.NoError(t, err)
		}

		_, err := env.DB.Exec(
			ctx,
			"UPDATE content_counters SET views = 999 WHERE content_id = $1",
			contentID,
		)
		require.NoError(t, err)

		repaired, err := manager.ReconcileCounters(ctx)
		require.NoError(t, err)
		assert.Greater(t, repaired, 0)

		counters, err := queries.GetCounters(ctx, env.DB, contentID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), counters.Views)
	})
}

func mustPayload(t *testing.T, env *testutils.Environment, interactionID uuid.UUID) string {
	t.Helper()

	var payload string
	err := env.DB.QueryRow(
		context.Background(),
		"SELECT payload FROM interactions WHERE id = $1",
		interactionID,
	).Scan(&payload)
	require.NoError(t, err)
	return payload
}
