// Package testutils spins up throwaway postgres and redis containers for
// integration tests and seeds them with fixture rows.
package testutils

import (
	"context"
	"testing"
	"time"

	"pearhub/storage/db/migrations"
	"pearhub/storage/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Environment bundles the containers and clients a storage-level test needs.
// Everything is terminated via t.Cleanup.
type Environment struct {
	DB    *pgxpool.Pool
	Redis *redis.Client
}

func Setup(t testing.TB) *Environment {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()
	env := &Environment{}

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("pearhub_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		tc.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		_ = pgContainer.Terminate(context.Background())
	})

	databaseURL, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get postgres connection string: %v", err)
	}
	if err := migrations.Run(databaseURL); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	env.DB, err = pgxpool.New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("failed to create postgres pool: %v", err)
	}
	t.Cleanup(env.DB.Close)

	redisContainer, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}
	t.Cleanup(func() {
		_ = redisContainer.Terminate(context.Background())
	})

	redisAddr, err := redisContainer.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("failed to get redis endpoint: %v", err)
	}
	env.Redis = redis.NewClient(&redis.Options{Addr: redisAddr})
	t.Cleanup(func() {
		_ = env.Redis.Close()
	})

	return env
}

// Reset truncates every table and flushes redis so tests can share one
// environment.
func (env *Environment) Reset(t testing.TB) {
	t.Helper()

	ctx := context.Background()
	_, err := env.DB.Exec(
		ctx,
		"TRUNCATE businesses, contents, interactions, content_counters, memberships CASCADE",
	)
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
	if err := env.Redis.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("failed to flush redis: %v", err)
	}
}

func (env *Environment) CreateBusiness(t testing.TB, slug string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := env.DB.Exec(
		context.Background(),
		"INSERT INTO businesses (id, slug, name) VALUES ($1, $2, $3)",
		id, slug, slug,
	)
	if err != nil {
		t.Fatalf("failed to create business: %v", err)
	}
	return id
}

func (env *Environment) CreateContent(
	t testing.TB,
	businessID uuid.UUID,
	contentType models.ContentType,
	createdAt time.Time,
) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := env.DB.Exec(
		context.Background(),
		`INSERT INTO contents (id, business_id, title, description, type, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, businessID, "content "+id.String()[:8], "", contentType, createdAt,
	)
	if err != nil {
		t.Fatalf("failed to create content: %v", err)
	}
	return id
}

func (env *Environment) CreateMembership(
	t testing.TB,
	userID uuid.UUID,
	businessID uuid.UUID,
	createdAt time.Time,
) {
	t.Helper()

	_, err := env.DB.Exec(
		context.Background(),
		"INSERT INTO memberships (user_id, business_id, created_at) VALUES ($1, $2, $3)",
		userID, businessID, createdAt,
	)
	if err != nil {
		t.Fatalf("failed to create membership: %v", err)
	}
}
