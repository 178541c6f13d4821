package server

import (
	"net/http"
	"time"

	"pearhub/storage/models"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

func (s *Server) getOverview(w http.ResponseWriter, r *http.Request) {
	window, err := windowFromQuery(r)
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	totals, err := s.analytics.Overview(r.Context(), identityFrom(r).BusinessID, window)
	if err != nil {
		sendStorageError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, newCountersResponse(totals))
}

func (s *Server) getContentTypeDistribution(w http.ResponseWriter, r *http.Request) {
	distribution, err := s.analytics.ContentTypeDistribution(r.Context(), identityFrom(r).BusinessID)
	if err != nil {
		sendStorageError(w, err)
		return
	}

	response := make([]map[string]any, len(distribution))
	for i, entry := range distribution {
		response[i] = map[string]any{
			"type":  entry.Type,
			"count": entry.Count,
		}
	}
	sendJSON(w, http.StatusOK, response)
}

func (s *Server) getTopContent(w http.ResponseWriter, r *http.Request) {
	window, err := windowFromQuery(r)
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := getQueryInt(r, "limit", 0)
	if err != nil {
		sendError(w, http.StatusBadRequest, "invalid limit")
		return
	}

	ranking, err := s.analytics.TopContent(r.Context(), identityFrom(r).BusinessID, window, limit)
	if err != nil {
		sendStorageError(w, err)
		return
	}

	response := make([]map[string]any, len(ranking))
	for i, row := range ranking {
		response[i] = map[string]any{
			"contentId":        row.ContentID,
			"title":            row.Title,
			"interactionCount": row.InteractionCount,
		}
	}
	sendJSON(w, http.StatusOK, response)
}

func (s *Server) getContentAnalytics(w http.ResponseWriter, r *http.Request) {
	contentID, err := uuid.Parse(mux.Vars(r)["contentId"])
	if err != nil {
		sendError(w, http.StatusBadRequest, "invalid content id")
		return
	}

	details, err := s.analytics.ContentDetails(r.Context(), identityFrom(r).BusinessID, contentID)
	if err != nil {
		sendStorageError(w, err)
		return
	}

	breakdown := make(map[models.InteractionType]int64, len(models.InteractionTypes))
	for _, kind := range models.InteractionTypes {
		breakdown[kind] = details.Interactions.Get(kind)
	}

	sendJSON(w, http.StatusOK, map[string]any{
		"id":           details.Content.ID,
		"title":        details.Content.Title,
		"description":  details.Content.Description,
		"type":         details.Content.Type,
		"createdAt":    details.Content.CreatedAt,
		"interactions": breakdown,
	})
}

func (s *Server) getMemberships(w http.ResponseWriter, r *http.Request) {
	window, err := windowFromQuery(r)
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	businessID := identityFrom(r).BusinessID
	if window.IsZero() {
		count, err := s.analytics.MembershipCount(r.Context(), businessID, window)
		if err != nil {
			sendStorageError(w, err)
			return
		}
		sendJSON(w, http.StatusOK, map[string]any{"count": count})
		return
	}

	growth, err := s.analytics.MembershipGrowth(r.Context(), businessID, window)
	if err != nil {
		sendStorageError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, map[string]any{
		"count":         growth.Count,
		"growthPercent": growth.GrowthPercent,
	})
}

func (s *Server) getPostsPublished(w http.ResponseWriter, r *http.Request) {
	window, err := windowFromQuery(r)
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	buckets, err := s.analytics.PostsPublished(r.Context(), identityFrom(r).BusinessID, window)
	if err != nil {
		sendStorageError(w, err)
		return
	}

	response := make([]map[string]any, len(buckets))
	for i, bucket := range buckets {
		response[i] = map[string]any{
			"date":  bucket.Date.Format(time.DateOnly),
			"count": bucket.Count,
		}
	}
	sendJSON(w, http.StatusOK, response)
}

func (s *Server) getActiveMembers(w http.ResponseWriter, r *http.Request) {
	window, err := windowFromQuery(r)
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	members, err := s.analytics.ActiveMembers(r.Context(), identityFrom(r).BusinessID, window)
	if err != nil {
		sendStorageError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, map[string]any{
		"totalMembers":            members.TotalMembers,
		"activeMembers":           members.ActiveMembers,
		"activeMembersPercentage": members.ActiveMembersPercentage,
	})
}

func (s *Server) getAverageInteractions(w http.ResponseWriter, r *http.Request) {
	window, err := windowFromQuery(r)
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	averages, err := s.analytics.AverageInteractions(r.Context(), identityFrom(r).BusinessID, window)
	if err != nil {
		sendStorageError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, averages)
}
