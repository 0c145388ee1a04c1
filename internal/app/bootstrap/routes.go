// internal/app/bootstrap/routes.go
package bootstrap

import (
	"fmt"
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	campsitesfeature "github.com/outpost-labs/campsites/internal/app/features/campsites"
	errorsfeature "github.com/outpost-labs/campsites/internal/app/features/errors"
	favoritesfeature "github.com/outpost-labs/campsites/internal/app/features/favorites"
	healthfeature "github.com/outpost-labs/campsites/internal/app/features/health"
	partnersfeature "github.com/outpost-labs/campsites/internal/app/features/partners"
	promotionsfeature "github.com/outpost-labs/campsites/internal/app/features/promotions"
	usersfeature "github.com/outpost-labs/campsites/internal/app/features/users"
	sessionstore "github.com/outpost-labs/campsites/internal/app/store/sessions"
	userstore "github.com/outpost-labs/campsites/internal/app/store/users"
	"github.com/outpost-labs/campsites/internal/app/system/auth"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE
// app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. The configured auth strategy is
// built here and applied as global middleware: every request passes
// through LoadIdentity exactly once, and per-route gates only check the
// identity it attached.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	resolver := userstore.NewResolver(deps.MongoDatabase)

	strategy, err := buildStrategy(coreCfg, appCfg, deps, resolver, logger)
	if err != nil {
		logger.Error("auth strategy init failed", zap.Error(err))
		return nil, err
	}
	authn := auth.NewAuthenticator(strategy, logger)

	// Create error logger for handlers. Internal detail reaches clients
	// only outside production.
	errLog := errorsfeature.NewErrorLogger(logger, coreCfg.Env != "prod")

	r := chi.NewRouter()

	// Global auth middleware: resolves the presented credential (if any)
	// into an Identity available to all handlers via auth.CurrentUser(r).
	r.Use(authn.LoadIdentity)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Account lifecycle
	usersHandler := usersfeature.NewHandler(deps.MongoDatabase, authn, errLog, logger)
	usersfeature.Routes(r, usersHandler, authn)

	// Campsites with nested comments
	campsitesHandler := campsitesfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	campsitesfeature.Routes(r, campsitesHandler, authn)

	// Per-user favorites
	favoritesHandler := favoritesfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	favoritesfeature.Routes(r, favoritesHandler, authn)

	// Promotions and partners
	promotionsHandler := promotionsfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	promotionsfeature.Routes(r, promotionsHandler, authn)

	partnersHandler := partnersfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	partnersfeature.Routes(r, partnersHandler, authn)

	return r, nil
}

// buildStrategy constructs the one strategy this deployment runs.
func buildStrategy(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, resolver *userstore.Resolver, logger *zap.Logger) (auth.Strategy, error) {
	switch appCfg.AuthStrategy {
	case "basic":
		sm, err := newSessionManager(coreCfg, appCfg, logger)
		if err != nil {
			return nil, err
		}
		return auth.NewBasicStrategy(sm, resolver, resolver,
			appCfg.BasicBootstrapUser, appCfg.BasicBootstrapPass, logger), nil

	case "session":
		sm, err := newSessionManager(coreCfg, appCfg, logger)
		if err != nil {
			return nil, err
		}
		backend := sessionstore.NewBackend(sessionstore.New(deps.MongoDatabase, appCfg.SessionTTL))
		return auth.NewSessionStrategy(sm, backend, resolver, logger), nil

	case "token":
		return auth.NewTokenStrategy([]byte(appCfg.TokenSecret), appCfg.TokenTTL, resolver, logger), nil

	default:
		return nil, fmt.Errorf("unknown auth_strategy %q", appCfg.AuthStrategy)
	}
}

func newSessionManager(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (*auth.SessionManager, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	return auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
}
