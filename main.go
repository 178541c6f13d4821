package main

import (
	"context"
	"fmt"
	"math"
	"os"

	"pearhub/analytics"
	"pearhub/clients"
	"pearhub/server"
	"pearhub/storage"
	"pearhub/storage/db/migrations"
	"pearhub/tasks"
	"pearhub/utils"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

func runBackgroundTasks(manager *storage.Manager) {
	// Counter reconciliation
	go utils.Recoverer(math.MaxInt, 1, func() {
		tasks.NewReconciler(manager).Run()
	})
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Infof("No .env file loaded: %v", err)
	}

	logLevel, err := log.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = log.InfoLevel
	}
	log.SetLevel(logLevel)

	databaseURL := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("DB_USERNAME"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
	)
	if err := migrations.Run(databaseURL); err != nil {
		panic(err)
	}

	ctx := context.Background()
	connectionPool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		panic(err)
	}

	redisConnection := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")),
		Password: "", // no password set
		DB:       0,  // use default DB
	})

	manager := storage.NewManager(connectionPool, redisConnection)
	aggregator := analytics.NewAggregator(connectionPool)
	identityClient := clients.NewIdentityClient(os.Getenv("AUTH_VERIFY_URL"))

	s := server.NewServer(manager, aggregator, identityClient)

	// Run background tasks
	runBackgroundTasks(manager)

	if err := s.Run(); err != nil {
		panic(err)
	}
}
