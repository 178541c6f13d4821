package server

import (
	"net/http"
	"time"

	"pearhub/storage"
	"pearhub/storage/models"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type countersResponse struct {
	Views    int64 `json:"views"`
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
	Shares   int64 `json:"shares"`
	Clicks   int64 `json:"clicks"`
	Total    int64 `json:"total"`
}

type feedItemResponse struct {
	ID               uuid.UUID                       `json:"id"`
	Title            string                          `json:"title"`
	Description      string                          `json:"description"`
	Type             models.ContentType              `json:"type"`
	CreatedAt        time.Time                       `json:"createdAt"`
	Interactions     countersResponse                `json:"interactions"`
	UserInteractions map[models.InteractionType]bool `json:"userInteractions"`
}

type feedResponse struct {
	Data       []feedItemResponse `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type paginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func newCountersResponse(counters models.CounterSnapshot) countersResponse {
	return countersResponse{
		Views:    counters.Views,
		Likes:    counters.Likes,
		Comments: counters.Comments,
		Shares:   counters.Shares,
		Clicks:   counters.Clicks,
		Total:    counters.Total(),
	}
}

func newFeedItemResponse(detail storage.ContentDetail) feedItemResponse {
	return feedItemResponse{
		ID:               detail.Content.ID,
		Title:            detail.Content.Title,
		Description:      detail.Content.Description,
		Type:             detail.Content.Type,
		CreatedAt:        detail.Content.CreatedAt,
		Interactions:     newCountersResponse(detail.Counters),
		UserInteractions: detail.UserInteractions,
	}
}

func (s *Server) getContentDetail(w http.ResponseWriter, r *http.Request) {
	contentID, err := uuid.Parse(mux.Vars(r)["contentId"])
	if err != nil {
		sendError(w, http.StatusBadRequest, "invalid content id")
		return
	}

	detail, err := s.ledger.ContentDetail(r.Context(), identityFrom(r).UserID, contentID)
	if err != nil {
		sendStorageError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, newFeedItemResponse(*detail))
}

func (s *Server) getFeed(w http.ResponseWriter, r *http.Request) {
	page, err := getQueryInt(r, "page", 1)
	if err != nil {
		sendError(w, http.StatusBadRequest, "invalid page")
		return
	}
	limit, err := getQueryInt(r, "limit", 0)
	if err != nil {
		sendError(w, http.StatusBadRequest, "invalid limit")
		return
	}

	feed, err := s.ledger.Feed(
		r.Context(),
		identityFrom(r).UserID,
		mux.Vars(r)["businessSlug"],
		page,
		limit,
	)
	if err != nil {
		sendStorageError(w, err)
		return
	}

	items := make([]feedItemResponse, len(feed.Items))
	for i, item := range feed.Items {
		items[i] = newFeedItemResponse(item)
	}
	sendJSON(w, http.StatusOK, feedResponse{
		Data: items,
		Pagination: paginationResponse{
			Page:       feed.Page,
			Limit:      feed.Limit,
			Total:      feed.Total,
			TotalPages: feed.TotalPages,
		},
	})
}
