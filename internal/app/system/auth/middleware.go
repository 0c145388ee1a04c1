package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// Authenticator wires a Strategy into the request pipeline.
type Authenticator struct {
	strategy Strategy
	log      *zap.Logger
}

func NewAuthenticator(strategy Strategy, logger *zap.Logger) *Authenticator {
	return &Authenticator{strategy: strategy, log: logger}
}

// Strategy exposes the configured strategy to the login/logout handlers.
func (a *Authenticator) Strategy() Strategy { return a.strategy }

// LoadIdentity is the global pipeline stage. A request with no credential
// continues anonymously (read endpoints are ungated); a request that
// presents a credential which fails verification is rejected here with
// 401 before any handler runs.
func (a *Authenticator) LoadIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cred, ok := a.strategy.Extract(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		id, err := a.strategy.Verify(r.Context(), cred)
		if err != nil {
			if errors.Is(err, ErrNotAuthenticated) {
				a.log.Debug("credential rejected",
					zap.String("strategy", a.strategy.Name()),
					zap.String("reason", err.Error()))
				a.unauthorized(w)
				return
			}
			a.log.Error("credential verification failed", zap.Error(err))
			writeJSONError(w, http.StatusInternalServerError, "authentication backend unavailable")
			return
		}

		next.ServeHTTP(w, withIdentity(r, id))
	})
}

// RequireUser ensures an identity is present in context (set by
// LoadIdentity). Rejections carry the strategy's challenge header.
func (a *Authenticator) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			a.unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin ensures the identity carries the admin flag. Applied to
// state-changing operations on top-level collections; never to reads.
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := CurrentUser(r)
		if !ok {
			a.unauthorized(w)
			return
		}
		if !id.Admin {
			writeJSONError(w, http.StatusForbidden, "administrator access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *Authenticator) unauthorized(w http.ResponseWriter) {
	a.strategy.Challenge(w)
	writeJSONError(w, http.StatusUnauthorized, "you are not authenticated")
}

// writeJSONError mirrors the error body the errors feature renders.
// Kept local so the middleware does not depend on a feature package.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  status,
		"message": msg,
	})
}
