package sessionstore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/outpost-labs/campsites/internal/app/system/auth"
)

// Backend adapts the sessions Store to auth.SessionBackend, translating
// store sentinels into the auth package's failure kinds.
type Backend struct {
	s *Store
}

// NewBackend wraps a Store for use by the session strategy.
func NewBackend(s *Store) *Backend {
	return &Backend{s: s}
}

func (b *Backend) CreateSession(ctx context.Context, userID primitive.ObjectID) (string, error) {
	sess, err := b.s.Create(ctx, userID)
	if err != nil {
		return "", err
	}
	return sess.ID, nil
}

func (b *Backend) LookupSession(ctx context.Context, sessionID string) (primitive.ObjectID, error) {
	sess, err := b.s.Lookup(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return primitive.NilObjectID, auth.ErrSessionNotFound
		}
		return primitive.NilObjectID, err
	}
	return sess.UserID, nil
}

func (b *Backend) DeleteSession(ctx context.Context, sessionID string) error {
	return b.s.Delete(ctx, sessionID)
}
