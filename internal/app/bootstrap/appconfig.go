// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers
// framework-level settings (ports, TLS, logging); AppConfig is where
// everything specific to this application lives.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Authentication strategy selection: "basic", "session", or "token".
	// Exactly one strategy is active per deployment.
	AuthStrategy string

	// Cookie configuration (basic and session strategies)
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name (default: campsites-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Server-side session configuration (session strategy)
	SessionTTL time.Duration // Lifetime of a server-side session record

	// Token configuration (token strategy)
	TokenSecret string        // HMAC signing secret for bearer tokens
	TokenTTL    time.Duration // Token lifetime stamped into the expiry claim

	// Shared bootstrap credential pair for the basic strategy. Lets an
	// operator act as admin before any user documents exist.
	BasicBootstrapUser string
	BasicBootstrapPass string
}
