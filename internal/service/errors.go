package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Room Errors =====
var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomNameRequired = errors.New("room name is required")
	ErrRoomNameTooLong  = errors.New("room name exceeds maximum length")
	ErrRoomNameExists   = errors.New("a room with this name already exists")
	ErrInvalidCapacity  = errors.New("capacity must be positive")
	ErrCapacityTooLarge = errors.New("capacity exceeds maximum")
)

// ===== Admission Errors =====
var (
	ErrRoomFull      = errors.New("room is full")
	ErrWrongPassword = errors.New("wrong room password")
	ErrNotMember     = errors.New("not an active member of this room")
)

// ===== Authorization Errors =====
var (
	ErrNotHost = errors.New("only the room host may perform this action")
)

// ===== Provider Errors =====
var (
	ErrProviderError       = errors.New("media provider error")
	ErrProviderUnavailable = errors.New("media provider not configured")
)

// ===== Webhook Errors =====
var (
	ErrInvalidWebhookAuth = errors.New("invalid webhook authorization")
)
