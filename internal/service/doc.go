// Package service implements the business logic layer for the StudyCam API.
//
// The service package contains all domain logic, validation rules, and
// orchestration of repository and provider operations. Services are the
// primary abstraction between HTTP handlers and data access.
//
// # Service Pattern
//
// All services follow a consistent pattern:
//
//   - Constructor function (NewXxxService) accepts a config struct with dependencies
//   - Methods implement business operations with proper validation
//   - Errors are returned as sentinel errors or wrapped errors for context
//   - Context is passed through for cancellation and request-scoped values
//
// # Repository Interfaces
//
// Services define their own repository and provider interfaces, allowing:
//
//   - Easy mocking for unit tests
//   - Decoupling from specific database and provider implementations
//   - Clear contracts for data access requirements
//
// # Error Handling
//
// Services return domain-specific errors defined as package-level variables:
//
//	var (
//	    ErrRoomNotFound = errors.New("room not found")
//	    ErrRoomFull     = errors.New("room is at capacity")
//	)
//
// # Example Usage
//
//	service := NewAdmissionService(AdmissionServiceConfig{
//	    RoomRepo:   roomRepository,
//	    MemberRepo: memberRepository,
//	    Provider:   livekitClient,
//	})
//	resp, err := service.Join(ctx, roomID, userID, password)
package service
