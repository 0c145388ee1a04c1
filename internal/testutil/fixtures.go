package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/outpost-labs/campsites/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given credentials.
func (f *Fixtures) CreateUser(ctx context.Context, username, password string, admin bool) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("failed to hash test password: %v", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		UsernameCI:   text.Fold(username),
		PasswordHash: string(hash),
		Admin:        admin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateAdmin creates a test admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, username, password string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, username, password, true)
}

// CreateCampsite creates a test campsite with no comments.
func (f *Fixtures) CreateCampsite(ctx context.Context, name string) models.Campsite {
	f.t.Helper()

	now := time.Now().UTC()
	cs := models.Campsite{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		Description: "Test campsite description",
		Image:       "test.png",
		Elevation:   1200,
		Cost:        6500,
		Comments:    []models.Comment{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("campsites").InsertOne(ctx, cs); err != nil {
		f.t.Fatalf("failed to create test campsite: %v", err)
	}
	return cs
}

// CreateCampsiteWithComment creates a campsite holding one comment
// authored by the given user.
func (f *Fixtures) CreateCampsiteWithComment(ctx context.Context, name string, author primitive.ObjectID) (models.Campsite, models.Comment) {
	f.t.Helper()

	now := time.Now().UTC()
	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		Rating:    4,
		Text:      "Great spot by the river.",
		Author:    author,
		CreatedAt: now,
		UpdatedAt: now,
	}
	cs := models.Campsite{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		Description: "Test campsite description",
		Image:       "test.png",
		Elevation:   1200,
		Cost:        6500,
		Comments:    []models.Comment{comment},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("campsites").InsertOne(ctx, cs); err != nil {
		f.t.Fatalf("failed to create test campsite: %v", err)
	}
	return cs, comment
}

// CreateFavorite creates a favorites document for a user with the given
// campsite references.
func (f *Fixtures) CreateFavorite(ctx context.Context, userID primitive.ObjectID, campsiteIDs ...primitive.ObjectID) models.Favorite {
	f.t.Helper()

	if campsiteIDs == nil {
		campsiteIDs = []primitive.ObjectID{}
	}
	now := time.Now().UTC()
	fav := models.Favorite{
		ID:        primitive.NewObjectID(),
		User:      userID,
		Campsites: campsiteIDs,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("favorites").InsertOne(ctx, fav); err != nil {
		f.t.Fatalf("failed to create test favorite: %v", err)
	}
	return fav
}
