// Package model defines domain entities and data structures for the StudyCam API.
//
// The model package contains all struct definitions for domain objects,
// request/response types, and error definitions. Models are used across all
// layers of the application.
//
// # Domain Entities
//
// Core domain entities include:
//
//   - Room: Capacity-bounded session container mapped onto a provider room
//   - Member: Membership ledger record linking a user to a room with a role
//   - ProviderEvent: Normalized provider webhook payload
//
// # JSON Serialization
//
// All models use json struct tags for API serialization:
//
//	type Room struct {
//	    ID       string `json:"id"`
//	    Name     string `json:"name"`
//	    Capacity int    `json:"capacity"`
//	}
//
// # Validation Constants
//
// The package defines validation constants:
//
//	const (
//	    DefaultRoomCapacity = 6
//	    MaxRoomCapacity     = 50
//	    MaxRoomNameLength   = 100
//	)
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go:
//
//	type ProblemDetails struct {
//	    Type    string `json:"type"`
//	    Title   string `json:"title"`
//	    Status  int    `json:"status"`
//	    Detail  string `json:"detail"`
//	}
package model
