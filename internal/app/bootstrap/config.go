// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the campsites service.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, auth_strategy, etc.
//   - Environment variables: CAMPSITES_MONGO_URI, CAMPSITES_AUTH_STRATEGY, etc.
//   - Command-line flags: --mongo_uri, --auth_strategy, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "campsites", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "auth_strategy", Default: "token", Desc: "Authentication strategy: 'basic', 'session', or 'token'"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Cookie signing key (must be strong in production)"},
	{Name: "session_name", Default: "campsites-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_ttl", Default: "24h", Desc: "Server-side session lifetime (session strategy)"},

	{Name: "token_secret", Default: "dev-only-token-secret-change-me", Desc: "HMAC secret for bearer tokens (must be strong in production)"},
	{Name: "token_ttl", Default: "1h", Desc: "Bearer token lifetime"},

	{Name: "basic_bootstrap_user", Default: "", Desc: "Bootstrap admin username for the basic strategy (blank disables)"},
	{Name: "basic_bootstrap_pass", Default: "", Desc: "Bootstrap admin password for the basic strategy"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, CAMPSITES_* for app), and
// command-line flags, merged with precedence: flags > env > files >
// defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CAMPSITES", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		AuthStrategy: appValues.String("auth_strategy"),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionTTL:    appValues.Duration("session_ttl", 24*time.Hour),

		TokenSecret: appValues.String("token_secret"),
		TokenTTL:    appValues.Duration("token_ttl", time.Hour),

		BasicBootstrapUser: appValues.String("basic_bootstrap_user"),
		BasicBootstrapPass: appValues.String("basic_bootstrap_pass"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// Catches configuration errors early, before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	switch appCfg.AuthStrategy {
	case "basic", "session", "token":
	default:
		return fmt.Errorf("unknown auth_strategy %q (want 'basic', 'session', or 'token')", appCfg.AuthStrategy)
	}

	if appCfg.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive, got %s", appCfg.SessionTTL)
	}
	if appCfg.TokenTTL <= 0 {
		return fmt.Errorf("token_ttl must be positive, got %s", appCfg.TokenTTL)
	}

	// The dev defaults must never reach production.
	if coreCfg.Env == "prod" {
		if appCfg.AuthStrategy == "token" && appCfg.TokenSecret == "dev-only-token-secret-change-me" {
			return fmt.Errorf("token_secret must be set in production")
		}
		if appCfg.AuthStrategy != "token" && appCfg.SessionKey == "dev-only-change-me-please-0123456789ABCDEF" {
			return fmt.Errorf("session_key must be set in production")
		}
	}

	if (appCfg.BasicBootstrapUser == "") != (appCfg.BasicBootstrapPass == "") {
		return fmt.Errorf("basic_bootstrap_user and basic_bootstrap_pass must be set together")
	}

	return nil
}
