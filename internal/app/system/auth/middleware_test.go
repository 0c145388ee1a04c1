package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/outpost-labs/campsites/internal/app/system/auth"
)

func newTokenAuthenticator(t *testing.T, ids ...*auth.Identity) *auth.Authenticator {
	t.Helper()
	strategy := auth.NewTokenStrategy([]byte("test-secret"), time.Hour, newStubResolver(ids...), zap.NewNop())
	return auth.NewAuthenticator(strategy, zap.NewNop())
}

func TestLoadIdentity_AnonymousPassesThrough(t *testing.T) {
	authn := newTokenAuthenticator(t)

	var sawIdentity bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawIdentity = auth.CurrentUser(r)
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	authn.LoadIdentity(next).ServeHTTP(rec, httptest.NewRequest("GET", "/campsites", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("anonymous read: got %d, want 200", rec.Code)
	}
	if sawIdentity {
		t.Error("anonymous request must not carry an identity")
	}
}

func TestLoadIdentity_BadCredentialRejected(t *testing.T) {
	authn := newTokenAuthenticator(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run for a rejected credential")
	})

	req := httptest.NewRequest("GET", "/campsites", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	authn.LoadIdentity(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad credential: got %d, want 401", rec.Code)
	}
	if got := rec.Header().Get("WWW-Authenticate"); got != "Bearer" {
		t.Errorf("WWW-Authenticate: got %q, want %q", got, "Bearer")
	}
}

func TestLoadIdentity_ValidCredentialAttachesIdentity(t *testing.T) {
	want := &auth.Identity{ID: primitive.NewObjectID(), Username: "alice"}
	authn := newTokenAuthenticator(t, want)

	res, err := authn.Strategy().Issue(context.Background(), httptest.NewRecorder(), httptest.NewRequest("POST", "/", nil), want)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	var got *auth.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	})

	req := httptest.NewRequest("GET", "/favorites", nil)
	req.Header.Set("Authorization", "Bearer "+res.Token)
	authn.LoadIdentity(next).ServeHTTP(httptest.NewRecorder(), req)

	if got == nil || got.ID != want.ID {
		t.Errorf("identity in context: got %+v, want %+v", got, want)
	}
}

func TestRequireUser_RejectsAnonymous(t *testing.T) {
	authn := newTokenAuthenticator(t)

	rec := httptest.NewRecorder()
	handler := authn.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run without an identity")
	}))
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/favorites", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous write: got %d, want 401", rec.Code)
	}
}

func TestRequireAdmin_RejectsNonAdmin(t *testing.T) {
	authn := newTokenAuthenticator(t)

	req := auth.WithTestUser(httptest.NewRequest("POST", "/campsites", nil),
		&auth.Identity{ID: primitive.NewObjectID(), Username: "alice"})

	rec := httptest.NewRecorder()
	handler := authn.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run for a non-admin")
	}))
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("non-admin write: got %d, want 403", rec.Code)
	}
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	authn := newTokenAuthenticator(t)

	req := auth.WithTestUser(httptest.NewRequest("POST", "/campsites", nil),
		&auth.Identity{ID: primitive.NewObjectID(), Username: "root", Admin: true})

	ran := false
	rec := httptest.NewRecorder()
	handler := authn.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ran = true
	}))
	handler.ServeHTTP(rec, req)

	if !ran {
		t.Error("admin request must reach the handler")
	}
}
