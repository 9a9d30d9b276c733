package handler

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/studycam/api/internal/model"
	"github.com/studycam/api/internal/service"
)

// maxWebhookBody caps provider payload size
const maxWebhookBody = 1 << 20

// webhookPayload mirrors the provider's webhook envelope. Only the fields
// the reconciler cares about are decoded; everything else is ignored.
type webhookPayload struct {
	Event string `json:"event"`
	Room  struct {
		Name string `json:"name"`
	} `json:"room"`
	Participant struct {
		Identity string `json:"identity"`
	} `json:"participant"`
}

// WebhookHandler ingests provider lifecycle events
type WebhookHandler struct {
	sessions     *service.SessionService
	sharedSecret string
	logger       *slog.Logger
}

// NewWebhookHandler creates a new webhook handler. An empty sharedSecret
// disables authentication (development only).
func NewWebhookHandler(sessions *service.SessionService, sharedSecret string, logger *slog.Logger) *WebhookHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookHandler{sessions: sessions, sharedSecret: sharedSecret, logger: logger}
}

// Receive handles POST /v1/livekit/webhook - provider event ingestion.
// Delivery is at-least-once and unordered; accepted-and-ignored payloads
// still answer 200 so the provider stops retrying.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		WriteError(w, model.NewUnauthorizedError("invalid webhook credentials"))
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		WriteError(w, model.NewBadRequestError("unreadable request body"))
		return
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		WriteError(w, model.NewBadRequestError("malformed event payload"))
		return
	}

	event := &model.ProviderEvent{
		Event:       payload.Event,
		RoomName:    payload.Room.Name,
		Participant: payload.Participant.Identity,
	}

	if err := h.sessions.HandleProviderEvent(r.Context(), event); err != nil {
		h.logger.Error("webhook event processing failed",
			"event", payload.Event, "room_name", payload.Room.Name, "error", err)
		WriteError(w, model.NewInternalError(""))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *WebhookHandler) authorized(r *http.Request) bool {
	if h.sharedSecret == "" {
		return true
	}
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.sharedSecret)) == 1
}
