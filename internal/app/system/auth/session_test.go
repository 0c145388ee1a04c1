package auth_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/outpost-labs/campsites/internal/app/system/auth"
)

// memBackend is an in-memory auth.SessionBackend.
type memBackend struct {
	sessions map[string]primitive.ObjectID
}

func newMemBackend() *memBackend {
	return &memBackend{sessions: map[string]primitive.ObjectID{}}
}

func (m *memBackend) CreateSession(_ context.Context, userID primitive.ObjectID) (string, error) {
	sid := uuid.NewString()
	m.sessions[sid] = userID
	return sid, nil
}

func (m *memBackend) LookupSession(_ context.Context, sessionID string) (primitive.ObjectID, error) {
	userID, ok := m.sessions[sessionID]
	if !ok {
		return primitive.NilObjectID, auth.ErrSessionNotFound
	}
	return userID, nil
}

func (m *memBackend) DeleteSession(_ context.Context, sessionID string) error {
	delete(m.sessions, sessionID)
	return nil
}

func TestSessionStrategy_RoundTrip(t *testing.T) {
	want := &auth.Identity{ID: primitive.NewObjectID(), Username: "alice"}
	backend := newMemBackend()
	s := auth.NewSessionStrategy(newTestSessionManager(t), backend, newStubResolver(want), zap.NewNop())

	rec := httptest.NewRecorder()
	loginReq := httptest.NewRequest("POST", "/users/login", nil)
	if _, err := s.Issue(context.Background(), rec, loginReq, want); err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if len(backend.sessions) != 1 {
		t.Fatalf("server-side sessions: got %d, want 1", len(backend.sessions))
	}

	next := httptest.NewRequest("GET", "/favorites", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	cred, ok := s.Extract(next)
	if !ok {
		t.Fatal("Extract found no session id in the cookie")
	}
	got, err := s.Verify(context.Background(), cred)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got.ID != want.ID {
		t.Errorf("identity: got %s, want %s", got.ID.Hex(), want.ID.Hex())
	}
}

func TestSessionStrategy_RevokedSessionRejected(t *testing.T) {
	want := &auth.Identity{ID: primitive.NewObjectID(), Username: "alice"}
	backend := newMemBackend()
	s := auth.NewSessionStrategy(newTestSessionManager(t), backend, newStubResolver(want), zap.NewNop())

	rec := httptest.NewRecorder()
	if _, err := s.Issue(context.Background(), rec, httptest.NewRequest("POST", "/", nil), want); err != nil {
		t.Fatalf("Issue: %v", err)
	}

	next := httptest.NewRequest("GET", "/favorites", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	cred, _ := s.Extract(next)

	// Server-side deletion invalidates the credential even though the
	// cookie still decodes.
	for sid := range backend.sessions {
		delete(backend.sessions, sid)
	}
	if _, err := s.Verify(context.Background(), cred); !errors.Is(err, auth.ErrSessionNotFound) {
		t.Errorf("revoked session: got %v, want ErrSessionNotFound", err)
	}
}

func TestSessionStrategy_ClearDeletesServerSide(t *testing.T) {
	want := &auth.Identity{ID: primitive.NewObjectID(), Username: "alice"}
	backend := newMemBackend()
	s := auth.NewSessionStrategy(newTestSessionManager(t), backend, newStubResolver(want), zap.NewNop())

	rec := httptest.NewRecorder()
	if _, err := s.Issue(context.Background(), rec, httptest.NewRequest("POST", "/", nil), want); err != nil {
		t.Fatalf("Issue: %v", err)
	}

	logout := httptest.NewRequest("GET", "/users/logout", nil)
	for _, c := range rec.Result().Cookies() {
		logout.AddCookie(c)
	}
	had, err := s.Clear(context.Background(), httptest.NewRecorder(), logout)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if !had {
		t.Error("Clear with a live session must report had=true")
	}
	if len(backend.sessions) != 0 {
		t.Errorf("server-side sessions after logout: got %d, want 0", len(backend.sessions))
	}
}

func TestSessionStrategy_ClearWithoutSession(t *testing.T) {
	s := auth.NewSessionStrategy(newTestSessionManager(t), newMemBackend(), newStubResolver(), zap.NewNop())

	had, err := s.Clear(context.Background(), httptest.NewRecorder(), httptest.NewRequest("GET", "/users/logout", nil))
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if had {
		t.Error("Clear without a session must report had=false")
	}
}
