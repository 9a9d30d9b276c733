package handler

import (
	"errors"

	"github.com/studycam/api/internal/model"
	"github.com/studycam/api/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	switch {
	// ===== Authorization Errors → 403 =====
	case errors.Is(err, service.ErrWrongPassword):
		return model.NewWrongPasswordError()
	case errors.Is(err, service.ErrNotHost):
		return model.NewForbiddenError("only the room host may perform this action")
	case errors.Is(err, service.ErrRoomFull):
		return model.NewForbiddenError("room is full")

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrRoomNotFound):
		return model.NewNotFoundError("room")
	case errors.Is(err, service.ErrNotMember):
		return model.NewNotFoundError("member")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrRoomNameExists):
		return model.NewConflictError(err.Error())

	// ===== Validation Errors → 422 =====
	case errors.Is(err, service.ErrRoomNameRequired),
		errors.Is(err, service.ErrRoomNameTooLong):
		return model.NewValidationError([]model.FieldError{{Field: "name", Message: err.Error()}})
	case errors.Is(err, service.ErrInvalidCapacity),
		errors.Is(err, service.ErrCapacityTooLarge):
		return model.NewValidationError([]model.FieldError{{Field: "capacity", Message: err.Error()}})

	// ===== Webhook Auth → 401 =====
	case errors.Is(err, service.ErrInvalidWebhookAuth):
		return model.NewUnauthorizedError(err.Error())

	// ===== Provider Errors → 502 =====
	case errors.Is(err, service.ErrProviderError),
		errors.Is(err, service.ErrProviderUnavailable):
		return model.NewBadGatewayError("")

	// ===== Default → 500 =====
	default:
		return model.NewInternalError("")
	}
}
