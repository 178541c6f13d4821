package server

import (
	"encoding/json"
	"net/http"
	"time"

	"pearhub/storage/models"

	"github.com/google/uuid"
)

type interactionRequest struct {
	Type      string `json:"type"`
	ContentID string `json:"contentId"`
	Payload   string `json:"payload,omitempty"`
}

type interactionResponse struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	UserID    uuid.UUID `json:"userId"`
	ContentID uuid.UUID `json:"contentId"`
	Payload   string    `json:"payload,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Created   bool      `json:"created"`
}

func (s *Server) postInteraction(w http.ResponseWriter, r *http.Request) {
	var request interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	contentID, err := uuid.Parse(request.ContentID)
	if err != nil {
		sendError(w, http.StatusBadRequest, "invalid content id")
		return
	}

	identity := identityFrom(r)
	interaction, created, err := s.ledger.SubmitInteraction(
		r.Context(),
		identity.UserID,
		contentID,
		models.InteractionType(request.Type),
		request.Payload,
	)
	if err != nil {
		sendStorageError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, interactionResponse{
		ID:        interaction.ID,
		Type:      string(interaction.Type),
		UserID:    interaction.UserID,
		ContentID: interaction.ContentID,
		Payload:   interaction.Payload,
		CreatedAt: interaction.CreatedAt,
		Created:   created,
	})
}

// deleteInteraction takes its arguments as query parameters; DELETE requests
// carry no body.
func (s *Server) deleteInteraction(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	contentID, err := uuid.Parse(query.Get("contentId"))
	if err != nil {
		sendError(w, http.StatusBadRequest, "invalid content id")
		return
	}

	// Optional: without an interaction id the most recent comment goes.
	interactionID := uuid.Nil
	if raw := query.Get("interactionId"); raw != "" {
		interactionID, err = uuid.Parse(raw)
		if err != nil {
			sendError(w, http.StatusBadRequest, "invalid interaction id")
			return
		}
	}

	identity := identityFrom(r)
	err = s.ledger.RemoveInteraction(
		r.Context(),
		identity.UserID,
		contentID,
		models.InteractionType(query.Get("type")),
		interactionID,
	)
	if err != nil {
		sendStorageError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
