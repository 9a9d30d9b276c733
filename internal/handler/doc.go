// Package handler provides HTTP request handlers for the StudyCam API.
//
// The handler package contains all HTTP endpoint implementations organized by
// concern: the room registry, session admission and admin actions, provider
// webhook ingestion, and health checks. Each handler struct encapsulates the
// services it needs to serve requests.
//
// # Handler Pattern
//
// All handlers follow a consistent pattern:
//
//   - Constructor function (NewXxxHandler) accepts service dependencies
//   - Methods handle specific HTTP endpoints
//   - Response helpers from response.go standardize output format
//   - Errors are mapped to RFC 9457 Problem Details responses
//
// # Response Format
//
// Handlers use standardized response functions:
//
//   - WriteData: Single resource wrapped in a data envelope
//   - WriteJSON: Raw JSON response
//   - WriteNoContent: Empty 204 response
//   - WriteError: RFC 9457 Problem Details error response
//
// # Authentication
//
// Mutating endpoints require a verified bearer identity. The auth middleware
// extracts the user ID and makes it available via middleware.GetUserID. The
// provider webhook endpoint authenticates with a shared secret instead.
//
// # Example Usage
//
//	handler := NewRoomHandler(roomService, admissionService)
//	mux.HandleFunc("GET /v1/rooms", handler.List)
//	mux.Handle("POST /v1/rooms", auth(http.HandlerFunc(handler.Create)))
package handler
