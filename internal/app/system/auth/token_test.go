package auth_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/outpost-labs/campsites/internal/app/system/auth"
)

// stubResolver resolves a fixed set of identities, standing in for the
// users store.
type stubResolver struct {
	ids map[primitive.ObjectID]*auth.Identity
}

func (s *stubResolver) Resolve(_ context.Context, id primitive.ObjectID) (*auth.Identity, error) {
	if identity, ok := s.ids[id]; ok {
		return identity, nil
	}
	return nil, auth.ErrUnknownUser
}

func newStubResolver(ids ...*auth.Identity) *stubResolver {
	m := make(map[primitive.ObjectID]*auth.Identity, len(ids))
	for _, id := range ids {
		m[id.ID] = id
	}
	return &stubResolver{ids: m}
}

func TestTokenStrategy_RoundTrip(t *testing.T) {
	want := &auth.Identity{ID: primitive.NewObjectID(), Username: "alice"}
	s := auth.NewTokenStrategy([]byte("test-secret"), time.Hour, newStubResolver(want), zap.NewNop())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/users/login", nil)
	res, err := s.Issue(context.Background(), rec, req, want)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if res.Token == "" {
		t.Fatal("Issue returned an empty token")
	}

	got, err := s.Verify(context.Background(), res.Token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got.ID != want.ID || got.Username != want.Username {
		t.Errorf("Verify identity: got %+v, want %+v", got, want)
	}
}

func TestTokenStrategy_TamperedToken(t *testing.T) {
	id := &auth.Identity{ID: primitive.NewObjectID(), Username: "alice"}
	s := auth.NewTokenStrategy([]byte("test-secret"), time.Hour, newStubResolver(id), zap.NewNop())

	res, err := s.Issue(context.Background(), httptest.NewRecorder(), httptest.NewRequest("POST", "/", nil), id)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tampered := res.Token[:len(res.Token)-2] + "xx"
	if _, err := s.Verify(context.Background(), tampered); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("tampered token: got %v, want ErrInvalidToken", err)
	}
}

func TestTokenStrategy_WrongSecret(t *testing.T) {
	id := &auth.Identity{ID: primitive.NewObjectID(), Username: "alice"}
	issuer := auth.NewTokenStrategy([]byte("secret-one"), time.Hour, newStubResolver(id), zap.NewNop())
	verifier := auth.NewTokenStrategy([]byte("secret-two"), time.Hour, newStubResolver(id), zap.NewNop())

	res, err := issuer.Issue(context.Background(), httptest.NewRecorder(), httptest.NewRequest("POST", "/", nil), id)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := verifier.Verify(context.Background(), res.Token); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("wrong secret: got %v, want ErrInvalidToken", err)
	}
}

func TestTokenStrategy_ExpiredToken(t *testing.T) {
	id := &auth.Identity{ID: primitive.NewObjectID(), Username: "alice"}
	s := auth.NewTokenStrategy([]byte("test-secret"), -time.Minute, newStubResolver(id), zap.NewNop())

	res, err := s.Issue(context.Background(), httptest.NewRecorder(), httptest.NewRequest("POST", "/", nil), id)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := s.Verify(context.Background(), res.Token); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("expired token: got %v, want ErrInvalidToken", err)
	}
}

func TestTokenStrategy_DeletedUser(t *testing.T) {
	id := &auth.Identity{ID: primitive.NewObjectID(), Username: "alice"}
	s := auth.NewTokenStrategy([]byte("test-secret"), time.Hour, newStubResolver(), zap.NewNop())

	res, err := s.Issue(context.Background(), httptest.NewRecorder(), httptest.NewRequest("POST", "/", nil), id)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Valid signature but the subject no longer exists: still a 401
	// class failure, never a 500.
	_, err = s.Verify(context.Background(), res.Token)
	if !errors.Is(err, auth.ErrNotAuthenticated) {
		t.Errorf("deleted user: got %v, want an ErrNotAuthenticated wrap", err)
	}
}

func TestTokenStrategy_Extract(t *testing.T) {
	s := auth.NewTokenStrategy([]byte("test-secret"), time.Hour, newStubResolver(), zap.NewNop())

	req := httptest.NewRequest("GET", "/campsites", nil)
	if _, ok := s.Extract(req); ok {
		t.Error("Extract without Authorization header should report no credential")
	}

	req.Header.Set("Authorization", "Basic Zm9vOmJhcg==")
	if _, ok := s.Extract(req); ok {
		t.Error("Extract must ignore non-Bearer Authorization headers")
	}

	req.Header.Set("Authorization", "Bearer sometoken")
	cred, ok := s.Extract(req)
	if !ok || cred != "sometoken" {
		t.Errorf("Extract: got (%q, %v), want (\"sometoken\", true)", cred, ok)
	}
}

func TestTokenStrategy_ClearIsStateless(t *testing.T) {
	s := auth.NewTokenStrategy([]byte("test-secret"), time.Hour, newStubResolver(), zap.NewNop())

	had, err := s.Clear(context.Background(), httptest.NewRecorder(), httptest.NewRequest("GET", "/users/logout", nil))
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if had {
		t.Error("token strategy has no server-side state to clear")
	}
}
