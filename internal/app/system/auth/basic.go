package auth

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Credential prefixes used between Extract and Verify of the basic
// strategy. A request is authenticated either by the signed cookie set at
// login or by the Basic header itself; the cookie, when present, is the
// source and the header is not consulted.
const (
	basicCookieCred = "cookie:"
	basicHeaderCred = "header:"
)

// BasicStrategy authenticates with the HTTP Basic scheme.
//
// Verification order inside Verify: the configured bootstrap pair (if
// any), then the per-user bcrypt credential. On login, Issue marks the
// signed session cookie trusted so clients that keep cookies stop sending
// the pair on every request.
type BasicStrategy struct {
	sessions *SessionManager
	verifier PasswordVerifier
	resolver UserResolver
	log      *zap.Logger

	// Bootstrap shared pair. Empty user disables bootstrap mode.
	bootstrapUser string
	bootstrapPass string
}

// NewBasicStrategy builds the basic strategy. bootstrapUser/bootstrapPass
// may be empty to require per-user credentials.
func NewBasicStrategy(sm *SessionManager, verifier PasswordVerifier, resolver UserResolver, bootstrapUser, bootstrapPass string, logger *zap.Logger) *BasicStrategy {
	return &BasicStrategy{
		sessions:      sm,
		verifier:      verifier,
		resolver:      resolver,
		log:           logger,
		bootstrapUser: bootstrapUser,
		bootstrapPass: bootstrapPass,
	}
}

func (s *BasicStrategy) Name() string { return "basic" }

func (s *BasicStrategy) Extract(r *http.Request) (string, bool) {
	sess := s.sessions.Get(r)
	if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
		if uid, ok := value(sess, userIDKey); ok {
			return basicCookieCred + uid, true
		}
	}

	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Basic ") {
		return basicHeaderCred + strings.TrimPrefix(header, "Basic "), true
	}
	return "", false
}

func (s *BasicStrategy) Verify(ctx context.Context, credential string) (*Identity, error) {
	switch {
	case strings.HasPrefix(credential, basicCookieCred):
		hex := strings.TrimPrefix(credential, basicCookieCred)
		oid, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			// Signed cookie carrying a malformed id; fail closed.
			return nil, ErrInvalidCredentials
		}
		return s.resolver.Resolve(ctx, oid)

	case strings.HasPrefix(credential, basicHeaderCred):
		user, pass, err := decodeBasic(strings.TrimPrefix(credential, basicHeaderCred))
		if err != nil {
			return nil, ErrInvalidCredentials
		}
		if s.bootstrapUser != "" && constantEq(user, s.bootstrapUser) && constantEq(pass, s.bootstrapPass) {
			return &Identity{Username: s.bootstrapUser, Admin: true}, nil
		}
		return s.verifier.VerifyPassword(ctx, user, pass)

	default:
		return nil, ErrInvalidCredentials
	}
}

// Issue marks the session cookie trusted for the identity.
func (s *BasicStrategy) Issue(ctx context.Context, w http.ResponseWriter, r *http.Request, id *Identity) (IssueResult, error) {
	sess := s.sessions.Get(r)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = id.ID.Hex()
	if err := sess.Save(r, w); err != nil {
		return IssueResult{}, err
	}
	return IssueResult{}, nil
}

func (s *BasicStrategy) Clear(ctx context.Context, w http.ResponseWriter, r *http.Request) (bool, error) {
	sess := s.sessions.Get(r)
	isAuth, _ := sess.Values[isAuthKey].(bool)
	if !isAuth {
		return false, nil
	}
	return true, s.sessions.clear(w, r)
}

func (s *BasicStrategy) Challenge(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Basic")
}

func decodeBasic(payload string) (user, pass string, err error) {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", "", err
	}
	user, pass, ok := strings.Cut(string(raw), ":")
	if !ok {
		return "", "", fmt.Errorf("malformed basic credential")
	}
	return user, pass, nil
}

func constantEq(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
