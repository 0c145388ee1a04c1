package sessionstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when a session is absent or expired.
var ErrNotFound = errors.New("session not found")

// Session is one server-side login session for the session strategy.
// The id is an opaque uuid handed to the client in a signed cookie.
// Expired records are reaped by the TTL index on expires_at; Lookup
// additionally checks expiry so a just-expired session is rejected before
// the reaper runs.
type Session struct {
	ID        string             `bson:"_id"`
	UserID    primitive.ObjectID `bson:"user_id"`
	CreatedAt time.Time          `bson:"created_at"`
	ExpiresAt time.Time          `bson:"expires_at"`
}

// Store manages login sessions.
type Store struct {
	c   *mongo.Collection
	ttl time.Duration
}

// New creates a sessions Store. ttl bounds every session's lifetime.
func New(db *mongo.Database, ttl time.Duration) *Store {
	return &Store{c: db.Collection("sessions"), ttl: ttl}
}

// Create starts a new session for a user and returns it.
func (s *Store) Create(ctx context.Context, userID primitive.ObjectID) (Session, error) {
	now := time.Now().UTC()
	sess := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if _, err := s.c.InsertOne(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Lookup resolves a session id to its user. Absent and expired sessions
// both come back as ErrNotFound.
func (s *Store) Lookup(ctx context.Context, sessionID string) (Session, error) {
	var sess Session
	if err := s.c.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&sess); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	if time.Now().UTC().After(sess.ExpiresAt) {
		return Session{}, ErrNotFound
	}
	return sess, nil
}

// Delete removes a session on logout. Deleting an absent session is a
// no-op.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": sessionID})
	return err
}

// DeleteForUser removes every session a user holds, for credential
// rotation.
func (s *Store) DeleteForUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
