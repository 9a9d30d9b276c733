// Package middleware provides HTTP middleware for the StudyCam API.
//
// The middleware package contains reusable middleware components for
// authentication, rate limiting, and request processing.
//
// # Available Middleware
//
// Core middleware components:
//
//   - Auth: Bearer identity token verification and user extraction
//   - RateLimit: Request rate limiting per client IP
//   - RequestID: Unique request identifier generation
//   - Logger: Structured request logging
//   - Recovery: Panic recovery with a JSON error response
//   - CORS: Cross-origin request headers
//   - Compress: Gzip response compression
//
// # Authentication
//
// The auth middleware verifies bearer tokens through an IdentityVerifier:
//
//	authed := middleware.Auth(verifier)
//	mux.Handle("POST /v1/rooms", authed(handler))
//
// After authentication, handlers can access the caller's identity:
//
//	userID := middleware.GetUserID(r.Context())
//
// # Composition
//
// Middleware is composed with Chain, applied in declaration order:
//
//	handler := middleware.Chain(mux,
//	    middleware.RequestID,
//	    middleware.Logger,
//	    middleware.Recovery,
//	)
//
// # Context Values
//
// Middleware sets context values accessible via helper functions:
//
//   - GetUserID(ctx): Returns authenticated user ID
//   - GetRequestID(ctx): Returns unique request identifier
package middleware
