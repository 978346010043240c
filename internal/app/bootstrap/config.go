// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/rfields/staffdir/internal/app/system/auth"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the service.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, token_ttl, etc.
//   - Environment variables: STAFFDIR_MONGO_URI, STAFFDIR_TOKEN_TTL, etc.
//   - Command-line flags: --mongo_uri, --token_ttl, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "staffdir", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Bearer tokens
	{Name: "token_secret", Default: "", Desc: "HMAC secret for signing bearer tokens (required)"},
	{Name: "token_ttl", Default: "24h", Desc: "Bearer token lifetime (e.g., 24h, 30m)"},

	// Image uploads
	{Name: "upload_dir", Default: "./uploads", Desc: "Local directory for uploaded employee photos"},
	{Name: "upload_url_prefix", Default: "/uploads", Desc: "URL prefix the photos are served under"},

	// CORS
	{Name: "cors_allowed_origin", Default: "http://localhost:3000", Desc: "Origin allowed to call the API"},

	// Default admin bootstrap
	{Name: "default_admin_email", Default: "admin@admin.com", Desc: "Email for the admin created when none exist"},
	{Name: "default_admin_password", Default: "", Desc: "Password for the admin created when none exist (dev falls back to a stock password)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, STAFFDIR_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "STAFFDIR", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		TokenSecret: appValues.String("token_secret"),
		TokenTTL:    appValues.Duration("token_ttl", auth.DefaultTTL),

		UploadDir:       appValues.String("upload_dir"),
		UploadURLPrefix: appValues.String("upload_url_prefix"),

		CORSAllowedOrigin: appValues.String("cors_allowed_origin"),

		DefaultAdminEmail:    appValues.String("default_admin_email"),
		DefaultAdminPassword: appValues.String("default_admin_password"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI format and the token secret are checked here so a
// misconfigured deployment fails before any connection attempt.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.TokenSecret == "" {
		return fmt.Errorf("token_secret must be set (STAFFDIR_TOKEN_SECRET)")
	}

	if appCfg.TokenTTL <= 0 {
		return fmt.Errorf("token_ttl must be positive, got %s", appCfg.TokenTTL)
	}

	if appCfg.UploadDir == "" {
		return fmt.Errorf("upload_dir must not be empty")
	}

	// Stock credentials are fine for development but worth a loud warning
	// anywhere else.
	if coreCfg.Env == "prod" && appCfg.DefaultAdminPassword == devAdminPassword {
		logger.Warn("default admin password is the dev stock password in production; set STAFFDIR_DEFAULT_ADMIN_PASSWORD")
	}

	return nil
}
