package server

import (
	"net/http"

	"pearhub/monitoring"
	"pearhub/storage/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

type ingestEvent struct {
	Type      string `json:"type"`
	ContentID string `json:"contentId"`
}

type ingestAck struct {
	ContentID string `json:"contentId"`
	Recorded  bool   `json:"recorded"`
	Error     string `json:"error,omitempty"`
}

// getIngest upgrades the connection and records a stream of passive
// engagement events for the authenticated user. Only views and clicks are
// accepted here; everything else must go through POST /interactions.
func (s *Server) getIngest(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("Error upgrading ingest connection: %v", err)
		return
	}
	defer conn.Close()

	identity := identityFrom(r)
	for {
		var event ingestEvent
		if err := conn.ReadJSON(&event); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Infof("Ingest connection closed: %v", err)
			}
			return
		}

		ack := s.recordIngestEvent(r, identity, event)
		if err := conn.WriteJSON(ack); err != nil {
			log.Errorf("Error writing ingest ack: %v", err)
			return
		}
	}
}

func (s *Server) recordIngestEvent(r *http.Request, identity *Identity, event ingestEvent) ingestAck {
	kind := models.InteractionType(event.Type)
	if kind != models.View && kind != models.Click {
		monitoring.IngestEvents.WithLabelValues(event.Type, "rejected").Inc()
		return ingestAck{ContentID: event.ContentID, Error: "only VIEW and CLICK events are accepted"}
	}

	contentID, err := uuid.Parse(event.ContentID)
	if err != nil {
		monitoring.IngestEvents.WithLabelValues(event.Type, "rejected").Inc()
		return ingestAck{ContentID: event.ContentID, Error: "invalid content id"}
	}

	_, created, err := s.ledger.SubmitInteraction(r.Context(), identity.UserID, contentID, kind, "")
	if err != nil {
		monitoring.IngestEvents.WithLabelValues(event.Type, "error").Inc()
		return ingestAck{ContentID: event.ContentID, Error: err.Error()}
	}

	outcome := "recorded"
	if !created {
		outcome = "duplicate"
	}
	monitoring.IngestEvents.WithLabelValues(event.Type, outcome).Inc()
	return ingestAck{ContentID: event.ContentID, Recorded: created}
}
