package handler

import (
	"net/http"

	"github.com/studycam/api/internal/middleware"
	"github.com/studycam/api/internal/model"
	"github.com/studycam/api/internal/service"
)

// SessionHandler handles room admin actions against live provider sessions
type SessionHandler struct {
	sessions *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Kick handles POST /v1/rooms/{roomId}/admin/kick - remove a participant
func (h *SessionHandler) Kick(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	roomID := r.PathValue("roomId")
	if roomID == "" {
		WriteError(w, model.NewBadRequestError("room ID required"))
		return
	}

	var req model.KickRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if req.UserID == "" {
		WriteError(w, model.NewValidationError([]model.FieldError{
			{Field: "user_id", Message: "target user ID is required"},
		}))
		return
	}

	if err := h.sessions.Kick(ctx, roomID, userID, req.UserID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// PublishPermission handles POST /v1/rooms/{roomId}/admin/publish-permission
// - toggle a participant's publish grant
func (h *SessionHandler) PublishPermission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	roomID := r.PathValue("roomId")
	if roomID == "" {
		WriteError(w, model.NewBadRequestError("room ID required"))
		return
	}

	var req model.PublishPermissionRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if req.UserID == "" {
		WriteError(w, model.NewValidationError([]model.FieldError{
			{Field: "user_id", Message: "target user ID is required"},
		}))
		return
	}

	if err := h.sessions.SetPublishPermission(ctx, roomID, userID, req.UserID, req.CanPublish); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}
