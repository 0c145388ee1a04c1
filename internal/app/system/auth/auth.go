// Package auth implements the authentication gateway.
//
// One Strategy (basic, session, or token) is selected by deployment
// configuration and drives the whole pipeline: Extract pulls the
// credential from its single well-defined source, Verify turns it into a
// trusted Identity, Issue produces the credential the client replays after
// login. Handlers never parse credentials themselves; they read the
// Identity that the middleware attached to the request context.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Failure kinds. Everything that should surface as a 401 wraps
// ErrNotAuthenticated; anything else out of Verify is a transient store
// error and surfaces as a 500.
var (
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrInvalidCredentials covers unknown username and wrong password.
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrNotAuthenticated)
	// ErrInvalidToken covers malformed, expired, and bad-signature tokens.
	// The three cases are deliberately indistinguishable to the caller.
	ErrInvalidToken = fmt.Errorf("%w: invalid token", ErrNotAuthenticated)
	// ErrSessionNotFound covers absent and expired server-side sessions.
	ErrSessionNotFound = fmt.Errorf("%w: session not found", ErrNotAuthenticated)
	// ErrUnknownUser is returned when a verified credential references a
	// user that no longer exists. An authentication failure, never a 500.
	ErrUnknownUser = fmt.Errorf("%w: unknown user", ErrNotAuthenticated)
)

// Identity is the resolved, trusted representation of who is calling.
type Identity struct {
	ID       primitive.ObjectID
	Username string
	Admin    bool
}

// IssueResult is what a Strategy hands back from Issue. Cookie strategies
// write Set-Cookie headers and leave Token empty; the token strategy fills
// Token for the login response body.
type IssueResult struct {
	Token string
}

// Strategy is one pluggable authentication scheme.
type Strategy interface {
	// Name reports the configured strategy ("basic", "session", "token").
	Name() string

	// Extract pulls the raw credential from the request. ok=false means no
	// credential was presented at all (anonymous request).
	Extract(r *http.Request) (credential string, ok bool)

	// Verify validates the extracted credential and resolves the identity.
	// Authentication failures wrap ErrNotAuthenticated.
	Verify(ctx context.Context, credential string) (*Identity, error)

	// Issue produces the replayable credential after a successful login.
	Issue(ctx context.Context, w http.ResponseWriter, r *http.Request, id *Identity) (IssueResult, error)

	// Clear tears down any client- or server-side credential state on
	// logout. had reports whether there was any state to clear.
	Clear(ctx context.Context, w http.ResponseWriter, r *http.Request) (had bool, err error)

	// Challenge writes the scheme-negotiation header, if the scheme has
	// one, onto a 401 response.
	Challenge(w http.ResponseWriter)
}

// UserResolver loads the persisted user behind a verified subject id.
// Implemented by the users store. A missing user must surface as
// ErrUnknownUser.
type UserResolver interface {
	Resolve(ctx context.Context, id primitive.ObjectID) (*Identity, error)
}

// PasswordVerifier validates a username/password pair.
// Implemented by the users store. Mismatches must surface as
// ErrInvalidCredentials.
type PasswordVerifier interface {
	VerifyPassword(ctx context.Context, username, password string) (*Identity, error)
}

// SessionBackend is the server-side session table used by the session
// strategy. Implemented by the sessions store. Lookup must return
// ErrSessionNotFound for absent or expired sessions.
type SessionBackend interface {
	CreateSession(ctx context.Context, userID primitive.ObjectID) (sessionID string, err error)
	LookupSession(ctx context.Context, sessionID string) (primitive.ObjectID, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

type ctxKey string

const identityKey ctxKey = "identity"

// CurrentUser returns the identity attached to the request context.
func CurrentUser(r *http.Request) (*Identity, bool) {
	id, ok := r.Context().Value(identityKey).(*Identity)
	return id, ok
}

func withIdentity(r *http.Request, id *Identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), identityKey, id))
}

// WithTestUser attaches an identity directly to the request context,
// bypassing credential verification. Test helper only.
func WithTestUser(r *http.Request, id *Identity) *http.Request {
	return withIdentity(r, id)
}
