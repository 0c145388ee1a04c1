package favoritestore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/outpost-labs/campsites/internal/domain/models"
)

// ErrNotFound is returned when the user has no favorites document.
var ErrNotFound = errors.New("favorites not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("favorites")}
}

// Get loads the user's favorites document. Returns ErrNotFound when the
// user has never favorited anything.
func (s *Store) Get(ctx context.Context, userID primitive.ObjectID) (*models.Favorite, error) {
	var fav models.Favorite
	if err := s.c.FindOne(ctx, bson.M{"user": userID}).Decode(&fav); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &fav, nil
}

// AddMany adds a batch of campsite references to the user's set,
// creating the document lazily if it does not exist. $addToSet keeps the
// operation idempotent: references already present are not duplicated.
func (s *Store) AddMany(ctx context.Context, userID primitive.ObjectID, campsiteIDs []primitive.ObjectID) (*models.Favorite, error) {
	now := time.Now().UTC()

	var fav models.Favorite
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"user": userID},
		bson.M{
			"$addToSet":    bson.M{"campsites": bson.M{"$each": campsiteIDs}},
			"$set":         bson.M{"updated_at": now},
			"$setOnInsert": bson.M{"user": userID, "created_at": now},
		},
		options.FindOneAndUpdate().
			SetUpsert(true).
			SetReturnDocument(options.After),
	).Decode(&fav)
	if err != nil {
		// Two concurrent first-adds can race on the unique user index;
		// the loser retries onto the winner's document.
		if wafflemongo.IsDup(err) {
			return s.AddMany(ctx, userID, campsiteIDs)
		}
		return nil, err
	}
	return &fav, nil
}

// AddOne adds a single campsite reference. added=false means the
// reference was already present; the stored document is returned
// unchanged and no write happens.
func (s *Store) AddOne(ctx context.Context, userID, campsiteID primitive.ObjectID) (*models.Favorite, bool, error) {
	fav, err := s.Get(ctx, userID)
	if err == nil {
		for _, id := range fav.Campsites {
			if id == campsiteID {
				return fav, false, nil
			}
		}
	} else if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	updated, err := s.AddMany(ctx, userID, []primitive.ObjectID{campsiteID})
	if err != nil {
		return nil, false, err
	}
	return updated, true, nil
}

// RemoveOne pulls a campsite reference from the user's set.
// removed=false with a nil document means the user has no favorites at
// all; removed=false with a document means the reference was not in the
// set. Neither case is an error.
func (s *Store) RemoveOne(ctx context.Context, userID, campsiteID primitive.ObjectID) (*models.Favorite, bool, error) {
	var fav models.Favorite
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"user": userID},
		bson.M{
			"$pull": bson.M{"campsites": campsiteID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.Before),
	).Decode(&fav)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, nil
		}
		return nil, false, err
	}

	removed := false
	remaining := make([]primitive.ObjectID, 0, len(fav.Campsites))
	for _, id := range fav.Campsites {
		if id == campsiteID {
			removed = true
			continue
		}
		remaining = append(remaining, id)
	}
	fav.Campsites = remaining
	return &fav, removed, nil
}

// Clear deletes the user's whole favorites document. Returns ErrNotFound
// when there was nothing to delete; callers report that as a no-op, not
// an error.
func (s *Store) Clear(ctx context.Context, userID primitive.ObjectID) (*models.Favorite, error) {
	var fav models.Favorite
	err := s.c.FindOneAndDelete(ctx, bson.M{"user": userID}).Decode(&fav)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &fav, nil
}
