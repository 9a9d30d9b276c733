// Package config manages application configuration for the StudyCam API.
//
// The config package loads and validates configuration from environment variables.
// All configuration is centralized here to provide a single source of truth.
//
// # Configuration Loading
//
// Configuration is loaded from environment variables:
//
//	cfg := config.Load()
//
// # Configuration Groups
//
// Configuration is organized into logical groups:
//
//   - ServerConfig: HTTP server settings (port, timeouts)
//   - DatabaseConfig: SurrealDB connection settings
//   - AuthConfig: Identity token verification settings
//   - LiveKitConfig: Media provider endpoint and credentials
//   - WebhookConfig: Provider webhook verification settings
//   - JobsConfig: Background job settings
//
// # Environment Variables
//
// Key environment variables:
//
//	SERVER_PORT        - HTTP server port (default: 8080)
//	AUTH_TOKEN_SECRET  - Identity token signing secret (required in production)
//	AUTH_TOKEN_ISSUER  - Expected identity token issuer
//	AUTH_TOKEN_TTL     - Identity token lifetime
//	DB_HOST            - SurrealDB host
//	DB_USER            - Database username
//	DB_PASSWORD        - Database password
//	DB_NAMESPACE       - Database namespace
//	DB_DATABASE        - Database name
//	LIVEKIT_HOST       - Media provider base URL
//	LIVEKIT_API_KEY    - Media provider API key
//	LIVEKIT_API_SECRET - Media provider API secret
//	LIVEKIT_TOKEN_TTL  - Join credential lifetime
//
// # Default Values
//
// Sensible defaults are provided for development:
//
//	func getEnv(key, defaultValue string) string {
//	    if value := os.Getenv(key); value != "" {
//	        return value
//	    }
//	    return defaultValue
//	}
package config
