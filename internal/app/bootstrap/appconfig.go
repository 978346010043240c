// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level and format, and request timeouts. AppConfig
// is where everything specific to this application lives.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Bearer token configuration
	TokenSecret string        // HMAC signing secret (required, no default)
	TokenTTL    time.Duration // Token lifetime (default 24h)

	// Image upload configuration
	UploadDir       string // Local directory for stored photos (e.g., "./uploads")
	UploadURLPrefix string // Public URL prefix the photos are served under (e.g., "/uploads")

	// CORS configuration for the browser frontend
	CORSAllowedOrigin string // Origin allowed to call the API (e.g., "http://localhost:3000")

	// Default admin bootstrap (created on startup when no admins exist)
	DefaultAdminEmail    string
	DefaultAdminPassword string
}
