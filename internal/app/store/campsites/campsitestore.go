package campsitestore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/outpost-labs/campsites/internal/domain/models"
)

var (
	// ErrNotFound is returned when the referenced campsite does not exist.
	ErrNotFound = errors.New("campsite not found")
	// ErrCommentNotFound is returned when the campsite exists but the
	// referenced comment does not.
	ErrCommentNotFound = errors.New("comment not found")
	// ErrDuplicateName is returned when a campsite name is already taken.
	ErrDuplicateName = errors.New("a campsite with this name already exists")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("campsites")}
}

// List returns all campsites, comments included.
func (s *Store) List(ctx context.Context) ([]models.Campsite, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var campsites []models.Campsite
	if err := cur.All(ctx, &campsites); err != nil {
		return nil, err
	}
	return campsites, nil
}

// GetByID loads a campsite by ObjectID. Returns ErrNotFound if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Campsite, error) {
	var cs models.Campsite
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&cs); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cs, nil
}

// GetByIDs loads the campsites for a set of references, for populating a
// favorites document. Missing references are silently skipped.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Campsite, error) {
	if len(ids) == 0 {
		return []models.Campsite{}, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var campsites []models.Campsite
	if err := cur.All(ctx, &campsites); err != nil {
		return nil, err
	}
	return campsites, nil
}

// Create inserts a new campsite after normalizing fields.
func (s *Store) Create(ctx context.Context, cs models.Campsite) (models.Campsite, error) {
	now := time.Now().UTC()
	cs.ID = primitive.NewObjectID()
	cs.NameCI = text.Fold(cs.Name)
	if cs.Comments == nil {
		cs.Comments = []models.Comment{}
	}
	cs.CreatedAt = now
	cs.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, cs); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Campsite{}, ErrDuplicateName
		}
		return models.Campsite{}, err
	}
	return cs, nil
}

// Update holds the campsite fields a PUT may change. Comments are never
// touched through this path.
type Update struct {
	Name        string
	Description string
	Image       string
	Elevation   float64
	Cost        int64
	Featured    bool
}

// UpdateByID overwrites a campsite's own fields and returns the new
// document. Returns ErrNotFound if the campsite does not exist.
func (s *Store) UpdateByID(ctx context.Context, id primitive.ObjectID, upd Update) (*models.Campsite, error) {
	set := bson.M{
		"name":        upd.Name,
		"name_ci":     text.Fold(upd.Name),
		"description": upd.Description,
		"image":       upd.Image,
		"elevation":   upd.Elevation,
		"cost":        upd.Cost,
		"featured":    upd.Featured,
		"updated_at":  time.Now().UTC(),
	}

	var cs models.Campsite
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&cs)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		if wafflemongo.IsDup(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return &cs, nil
}

// DeleteByID removes a campsite and returns the deleted document.
// Returns ErrNotFound if nothing matched.
func (s *Store) DeleteByID(ctx context.Context, id primitive.ObjectID) (*models.Campsite, error) {
	var cs models.Campsite
	if err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&cs); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cs, nil
}

// DeleteAll removes every campsite and reports how many were deleted.
func (s *Store) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// AddComment appends a comment to a campsite. The author must already be
// set from the authenticated identity; this is the only write path for
// the author field. Returns the updated campsite.
func (s *Store) AddComment(ctx context.Context, campsiteID primitive.ObjectID, c models.Comment) (*models.Campsite, error) {
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.CreatedAt = now
	c.UpdatedAt = now

	var cs models.Campsite
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": campsiteID},
		bson.M{
			"$push": bson.M{"comments": c},
			"$set":  bson.M{"updated_at": now},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&cs)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cs, nil
}

// GetComment returns one comment of a campsite. The campsite's absence is
// reported before the comment's so handlers keep the 404 ordering.
func (s *Store) GetComment(ctx context.Context, campsiteID, commentID primitive.ObjectID) (*models.Comment, error) {
	cs, err := s.GetByID(ctx, campsiteID)
	if err != nil {
		return nil, err
	}
	for i := range cs.Comments {
		if cs.Comments[i].ID == commentID {
			return &cs.Comments[i], nil
		}
	}
	return nil, ErrCommentNotFound
}

// CommentUpdate holds the mutable comment fields. Nil means leave as is.
type CommentUpdate struct {
	Rating *int
	Text   *string
}

// UpdateComment mutates a comment's rating/text. The filter matches the
// comment id AND the author, so the ownership check is re-verified
// atomically against the stored document; a concurrent delete or author
// mismatch yields zero matches. Returns the updated campsite, or
// mongo-level zero-match as matched=false for the handler to re-diagnose.
func (s *Store) UpdateComment(ctx context.Context, campsiteID, commentID, author primitive.ObjectID, upd CommentUpdate) (*models.Campsite, bool, error) {
	now := time.Now().UTC()
	set := bson.M{
		"comments.$.updated_at": now,
		"updated_at":            now,
	}
	if upd.Rating != nil {
		set["comments.$.rating"] = *upd.Rating
	}
	if upd.Text != nil {
		set["comments.$.text"] = *upd.Text
	}

	filter := bson.M{
		"_id":      campsiteID,
		"comments": bson.M{"$elemMatch": bson.M{"_id": commentID, "author": author}},
	}

	var cs models.Campsite
	err := s.c.FindOneAndUpdate(ctx, filter, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&cs)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &cs, true, nil
}

// RemoveComment deletes a comment, re-verifying authorship in the pull
// filter the same way UpdateComment does.
func (s *Store) RemoveComment(ctx context.Context, campsiteID, commentID, author primitive.ObjectID) (*models.Campsite, bool, error) {
	var cs models.Campsite
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{
			"_id":      campsiteID,
			"comments": bson.M{"$elemMatch": bson.M{"_id": commentID, "author": author}},
		},
		bson.M{
			"$pull": bson.M{"comments": bson.M{"_id": commentID}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&cs)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &cs, true, nil
}

// ClearComments empties a campsite's comment sequence (admin bulk delete).
func (s *Store) ClearComments(ctx context.Context, campsiteID primitive.ObjectID) (*models.Campsite, error) {
	var cs models.Campsite
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": campsiteID},
		bson.M{"$set": bson.M{"comments": []models.Comment{}, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&cs)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cs, nil
}
