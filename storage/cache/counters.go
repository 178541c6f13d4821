package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"pearhub/storage/models"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const countersKeyPrefix = "content_counters"

var counterFields = map[models.InteractionType]string{
	models.View:    "views",
	models.Like:    "likes",
	models.Comment: "comments",
	models.Share:   "shares",
	models.Click:   "clicks",
}

// CountersCache keeps the per-content tallies in redis for the hot feed path.
// Postgres stays authoritative; entries expire and are repopulated from the
// counter table on miss.
type CountersCache struct {
	redisClient *redis.Client
	expiration  time.Duration
}

func NewCountersCache(redisClient *redis.Client, expiration time.Duration) CountersCache {
	return CountersCache{
		redisClient: redisClient,
		expiration:  expiration,
	}
}

// ApplyDelta adjusts one field of an already-cached entry. Missing entries
// are left alone so a later read repopulates the full snapshot.
func (c *CountersCache) ApplyDelta(contentID string, kind models.InteractionType, delta int64) {
	ctx := context.Background()
	key := countersKey(contentID)

	exists, err := c.redisClient.Exists(ctx, key).Result()
	if err != nil || exists == 0 {
		return
	}
	c.redisClient.HIncrBy(ctx, key, counterFields[kind], delta)
	c.redisClient.Expire(ctx, key, c.expiration)
}

func (c *CountersCache) GetCounters(contentID string) (models.CounterSnapshot, bool) {
	ctx := context.Background()

	values, err := c.redisClient.HGetAll(ctx, countersKey(contentID)).Result()
	if err != nil || len(values) == 0 {
		return models.CounterSnapshot{}, false
	}

	snapshot := models.CounterSnapshot{}
	for kind, field := range counterFields {
		count, err := strconv.ParseInt(values[field], 10, 64)
		if err != nil {
			log.Errorf("Could not parse cached counter %s: %v", field, err)
			return models.CounterSnapshot{}, false
		}
		switch kind {
		case models.View:
			snapshot.Views = count
		case models.Like:
			snapshot.Likes = count
		case models.Comment:
			snapshot.Comments = count
		case models.Share:
			snapshot.Shares = count
		case models.Click:
			snapshot.Clicks = count
		}
	}
	return snapshot, true
}

func (c *CountersCache) SetCounters(contentID string, snapshot models.CounterSnapshot) {
	ctx := context.Background()
	key := countersKey(contentID)

	c.redisClient.HSet(ctx, key,
		"views", snapshot.Views,
		"likes", snapshot.Likes,
		"comments", snapshot.Comments,
		"shares", snapshot.Shares,
		"clicks", snapshot.Clicks,
	)
	c.redisClient.Expire(ctx, key, c.expiration)
}

func (c *CountersCache) Delete(contentIDs ...string) {
	if len(contentIDs) == 0 {
		return
	}
	ctx := context.Background()
	keys := make([]string, len(contentIDs))
	for i, id := range contentIDs {
		keys[i] = countersKey(id)
	}
	c.redisClient.Del(ctx, keys...)
}

func countersKey(contentID string) string {
	return fmt.Sprintf("%s:%s", countersKeyPrefix, contentID)
}
