package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/studycam/api/internal/middleware"
	"github.com/studycam/api/internal/model"
	"github.com/studycam/api/internal/service"
)

// RoomHandler handles room HTTP requests
type RoomHandler struct {
	rooms     *service.RoomService
	admission *service.AdmissionService
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(rooms *service.RoomService, admission *service.AdmissionService) *RoomHandler {
	return &RoomHandler{rooms: rooms, admission: admission}
}

// Create handles POST /v1/rooms - create a new room
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.CreateRoomRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if req.OwnerID == nil {
		req.OwnerID = &userID
	}

	room, err := h.rooms.CreateRoom(ctx, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, room, nil)
}

// List handles GET /v1/rooms - list rooms with active counts
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "offset", 0)

	rooms, err := h.rooms.ListRooms(ctx, limit, offset)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, rooms, nil)
}

// Get handles GET /v1/rooms/{roomId} - get room details with active count
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	roomID := r.PathValue("roomId")
	if roomID == "" {
		WriteError(w, model.NewBadRequestError("room ID required"))
		return
	}

	room, err := h.rooms.GetRoom(ctx, roomID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, room, nil)
}

// Join handles POST /v1/rooms/{roomId}/join - join a room
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
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

	// The body is optional for public rooms
	var req model.JoinRoomRequest
	if r.ContentLength > 0 {
		if err := DecodeJSON(r, &req); err != nil {
			WriteError(w, model.NewBadRequestError("invalid request body"))
			return
		}
	}

	resp, err := h.admission.Join(ctx, roomID, userID, req.Password)
	if err != nil {
		h.handleJoinError(w, r, roomID, err)
		return
	}

	WriteData(w, http.StatusOK, resp, nil)
}

// Leave handles POST /v1/rooms/{roomId}/leave - leave a room
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
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

	if err := h.admission.Leave(ctx, roomID, userID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// handleJoinError enriches the room-full rejection with the room's capacity
// figures; every other failure goes through the shared mapper.
func (h *RoomHandler) handleJoinError(w http.ResponseWriter, r *http.Request, roomID string, err error) {
	if errors.Is(err, service.ErrRoomFull) {
		if room, getErr := h.rooms.GetRoom(r.Context(), roomID); getErr == nil {
			WriteError(w, model.NewRoomFullError(room.Room.Capacity, room.ActiveCount))
			return
		}
	}
	WriteError(w, MapServiceError(err))
}

// queryInt parses an integer query parameter, falling back on absence or
// garbage
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
