// Package server exposes the interaction ledger and its analytics over
// HTTP, plus the websocket ingest endpoint for passive engagement events.
package server

import (
	"context"
	"net/http"
	"os"

	"pearhub/analytics"
	"pearhub/monitoring/middleware"
	"pearhub/storage"
	"pearhub/storage/db/queries"
	"pearhub/storage/models"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
)

// Ledger is the write/read surface of the interaction store the handlers
// depend on. *storage.Manager is the production implementation.
type Ledger interface {
	SubmitInteraction(ctx context.Context, userID, contentID uuid.UUID, kind models.InteractionType, payload string) (*models.Interaction, bool, error)
	RemoveInteraction(ctx context.Context, userID, contentID uuid.UUID, kind models.InteractionType, commentID uuid.UUID) error
	ContentDetail(ctx context.Context, userID, contentID uuid.UUID) (*storage.ContentDetail, error)
	Feed(ctx context.Context, userID uuid.UUID, businessSlug string, page, limit int) (*storage.FeedPage, error)
}

// Analytics is the aggregation surface. *analytics.Aggregator is the
// production implementation.
type Analytics interface {
	Overview(ctx context.Context, businessID uuid.UUID, window analytics.Window) (models.CounterSnapshot, error)
	ContentTypeDistribution(ctx context.Context, businessID uuid.UUID) ([]queries.TypeCount, error)
	TopContent(ctx context.Context, businessID uuid.UUID, window analytics.Window, limit int) ([]queries.TopContentRow, error)
	ContentDetails(ctx context.Context, businessID, contentID uuid.UUID) (*analytics.ContentAnalytics, error)
	MembershipCount(ctx context.Context, businessID uuid.UUID, window analytics.Window) (int64, error)
	MembershipGrowth(ctx context.Context, businessID uuid.UUID, window analytics.Window) (analytics.Growth, error)
	PostsPublished(ctx context.Context, businessID uuid.UUID, window analytics.Window) ([]queries.DateCount, error)
	ActiveMembers(ctx context.Context, businessID uuid.UUID, window analytics.Window) (analytics.ActiveMembers, error)
	AverageInteractions(ctx context.Context, businessID uuid.UUID, window analytics.Window) (map[models.ContentType]map[models.InteractionType]float64, error)
}

type Server struct {
	ledger    Ledger
	analytics Analytics
	resolver  IdentityResolver
}

func NewServer(ledger Ledger, analyticsEngine Analytics, resolver IdentityResolver) *Server {
	return &Server{
		ledger:    ledger,
		analytics: analyticsEngine,
		resolver:  resolver,
	}
}

func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/health", s.getHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	router.HandleFunc("/interactions", s.authenticate(s.postInteraction)).Methods(http.MethodPost)
	router.HandleFunc("/interactions", s.authenticate(s.deleteInteraction)).Methods(http.MethodDelete)

	router.HandleFunc("/feed/post/{contentId}", s.authenticate(s.getContentDetail)).Methods(http.MethodGet)
	router.HandleFunc("/feed/{businessSlug}", s.authenticate(s.getFeed)).Methods(http.MethodGet)

	router.HandleFunc("/ingest", s.authenticate(s.getIngest)).Methods(http.MethodGet)

	router.HandleFunc("/analytics/overview", s.requireBusiness(s.getOverview)).Methods(http.MethodGet)
	router.HandleFunc("/analytics/content-type-distribution", s.requireBusiness(s.getContentTypeDistribution)).Methods(http.MethodGet)
	router.HandleFunc("/analytics/top-content", s.requireBusiness(s.getTopContent)).Methods(http.MethodGet)
	router.HandleFunc("/analytics/content/{contentId}/details", s.requireBusiness(s.getContentAnalytics)).Methods(http.MethodGet)
	router.HandleFunc("/analytics/memberships", s.requireBusiness(s.getMemberships)).Methods(http.MethodGet)
	router.HandleFunc("/analytics/posts-published", s.requireBusiness(s.getPostsPublished)).Methods(http.MethodGet)
	router.HandleFunc("/analytics/active-members", s.requireBusiness(s.getActiveMembers)).Methods(http.MethodGet)
	router.HandleFunc("/analytics/average-interactions", s.requireBusiness(s.getAverageInteractions)).Methods(http.MethodGet)

	corsHandler := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(router)

	return middleware.NewServerMiddleware(corsHandler)
}

func (s *Server) Run() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Infof("Server listening on port %s", port)
	return http.ListenAndServe(":"+port, s.Handler())
}

func (s *Server) getHealth(w http.ResponseWriter, _ *http.Request) {
	sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
