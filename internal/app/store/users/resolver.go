package userstore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/outpost-labs/campsites/internal/app/system/auth"
	"github.com/outpost-labs/campsites/internal/domain/models"
)

// Resolver adapts the users store to the auth package's UserResolver and
// PasswordVerifier interfaces so every strategy resolves identities from
// fresh user records on each request.
type Resolver struct {
	s *Store
}

// NewResolver creates a Resolver backed by the given database.
func NewResolver(db *mongo.Database) *Resolver {
	return &Resolver{s: New(db)}
}

// Resolve loads the user behind a verified subject id. A deleted user is
// an authentication failure, not a 500.
func (r *Resolver) Resolve(ctx context.Context, id primitive.ObjectID) (*auth.Identity, error) {
	u, err := r.s.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, auth.ErrUnknownUser
		}
		return nil, err
	}
	return identityFor(u), nil
}

// VerifyPassword validates a username/password pair for the basic strategy.
func (r *Resolver) VerifyPassword(ctx context.Context, username, password string) (*auth.Identity, error) {
	u, err := r.s.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, err
	}
	return identityFor(u), nil
}

func identityFor(u *models.User) *auth.Identity {
	return &auth.Identity{ID: u.ID, Username: u.Username, Admin: u.Admin}
}
