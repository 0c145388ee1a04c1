package auth

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// SessionStrategy authenticates with an opaque server-side session id
// carried in a signed cookie. The sessions collection is the single
// source of truth; an absent or expired record rejects the request even
// if the cookie itself still decodes.
type SessionStrategy struct {
	sessions *SessionManager
	backend  SessionBackend
	resolver UserResolver
	log      *zap.Logger
}

func NewSessionStrategy(sm *SessionManager, backend SessionBackend, resolver UserResolver, logger *zap.Logger) *SessionStrategy {
	return &SessionStrategy{sessions: sm, backend: backend, resolver: resolver, log: logger}
}

func (s *SessionStrategy) Name() string { return "session" }

func (s *SessionStrategy) Extract(r *http.Request) (string, bool) {
	sess := s.sessions.Get(r)
	return value(sess, sessionIDKey)
}

func (s *SessionStrategy) Verify(ctx context.Context, credential string) (*Identity, error) {
	userID, err := s.backend.LookupSession(ctx, credential)
	if err != nil {
		return nil, err
	}
	return s.resolver.Resolve(ctx, userID)
}

// Issue creates a server-side session and stores its id in the cookie.
func (s *SessionStrategy) Issue(ctx context.Context, w http.ResponseWriter, r *http.Request, id *Identity) (IssueResult, error) {
	sid, err := s.backend.CreateSession(ctx, id.ID)
	if err != nil {
		return IssueResult{}, err
	}

	sess := s.sessions.Get(r)
	sess.Values[sessionIDKey] = sid
	if err := sess.Save(r, w); err != nil {
		return IssueResult{}, err
	}
	return IssueResult{}, nil
}

// Clear deletes the server-side record and expires the cookie.
func (s *SessionStrategy) Clear(ctx context.Context, w http.ResponseWriter, r *http.Request) (bool, error) {
	sess := s.sessions.Get(r)
	sid, ok := value(sess, sessionIDKey)
	if !ok {
		return false, nil
	}

	if err := s.backend.DeleteSession(ctx, sid); err != nil {
		// The cookie still gets cleared; the TTL index reaps the record.
		s.log.Warn("session delete failed during logout", zap.Error(err))
	}
	return true, s.sessions.clear(w, r)
}

// Challenge is a no-op: the session scheme has no negotiation header.
func (s *SessionStrategy) Challenge(w http.ResponseWriter) {}
