package auth

import (
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// Session value keys shared by the cookie-backed strategies.
const (
	isAuthKey    = "is_authenticated"
	userIDKey    = "user_id"
	sessionIDKey = "session_id"
)

// SessionManager wraps the signed-cookie store used by the basic and
// session strategies. The token strategy does not touch cookies.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewSessionManager builds a cookie store with the given signing key.
// In production (secure=true) cookies are Secure with SameSite=Lax.
func NewSessionManager(sessionKey, name, domain string, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide >=32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// Get decodes the session cookie. A tampered cookie decodes to a fresh
// empty session rather than an error the caller has to classify.
func (m *SessionManager) Get(r *http.Request) *sessions.Session {
	sess, err := m.store.Get(r, m.name)
	if err != nil {
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			m.log.Debug("session cookie failed to decode; treating as anonymous")
		} else {
			m.log.Warn("session cookie decode", zap.Error(err))
		}
	}
	return sess
}

// value reads a string value from the decoded session.
func value(s *sessions.Session, key string) (string, bool) {
	v, ok := s.Values[key].(string)
	return v, ok && v != ""
}

// clear expires the cookie immediately, keeping the original store
// options so the deletion cookie matches what the browser holds.
func (m *SessionManager) clear(w http.ResponseWriter, r *http.Request) error {
	sess := m.Get(r)
	if opts := m.store.Options; opts != nil {
		o := *opts
		sess.Options = &o
	}
	sess.Options.MaxAge = -1
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	return sess.Save(r, w)
}
