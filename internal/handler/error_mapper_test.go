package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/studycam/api/internal/model"
	"github.com/studycam/api/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapServiceError_Nil_ReturnsNil(t *testing.T) {
	t.Parallel()
	assert.Nil(t, MapServiceError(nil))
}

func TestMapServiceError_KnownSentinels(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   model.ErrorCode
	}{
		{"wrong password", service.ErrWrongPassword, http.StatusForbidden, model.ErrCodeWrongPassword},
		{"not host", service.ErrNotHost, http.StatusForbidden, model.ErrCodeForbidden},
		{"room full", service.ErrRoomFull, http.StatusForbidden, model.ErrCodeForbidden},
		{"room not found", service.ErrRoomNotFound, http.StatusNotFound, model.ErrCodeNotFound},
		{"not member", service.ErrNotMember, http.StatusNotFound, model.ErrCodeNotFound},
		{"name exists", service.ErrRoomNameExists, http.StatusConflict, model.ErrCodeConflict},
		{"name required", service.ErrRoomNameRequired, http.StatusUnprocessableEntity, model.ErrCodeValidation},
		{"name too long", service.ErrRoomNameTooLong, http.StatusUnprocessableEntity, model.ErrCodeValidation},
		{"invalid capacity", service.ErrInvalidCapacity, http.StatusUnprocessableEntity, model.ErrCodeValidation},
		{"capacity too large", service.ErrCapacityTooLarge, http.StatusUnprocessableEntity, model.ErrCodeValidation},
		{"webhook auth", service.ErrInvalidWebhookAuth, http.StatusUnauthorized, model.ErrCodeUnauthorized},
		{"provider error", service.ErrProviderError, http.StatusBadGateway, model.ErrCodeProvider},
		{"provider unavailable", service.ErrProviderUnavailable, http.StatusBadGateway, model.ErrCodeProvider},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			problem := MapServiceError(tc.err)

			require.NotNil(t, problem)
			assert.Equal(t, tc.wantStatus, problem.Status)
			assert.Equal(t, tc.wantCode, problem.Code)
		})
	}
}

func TestMapServiceError_WrappedSentinel_StillMatches(t *testing.T) {
	t.Parallel()

	wrapped := errors.Join(errors.New("querying room"), service.ErrRoomNotFound)
	problem := MapServiceError(wrapped)

	require.NotNil(t, problem)
	assert.Equal(t, http.StatusNotFound, problem.Status)
}

func TestMapServiceError_UnknownError_Returns500(t *testing.T) {
	t.Parallel()

	problem := MapServiceError(errors.New("connection reset"))

	require.NotNil(t, problem)
	assert.Equal(t, http.StatusInternalServerError, problem.Status)
	assert.Equal(t, model.ErrCodeInternal, problem.Code)
}

func TestMapServiceError_ValidationErrors_CarryFieldErrors(t *testing.T) {
	t.Parallel()

	problem := MapServiceError(service.ErrInvalidCapacity)

	require.NotNil(t, problem)
	require.Len(t, problem.Errors, 1)
	assert.Equal(t, "capacity", problem.Errors[0].Field)
}
