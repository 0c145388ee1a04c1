package partnerstore

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
	// ErrNotFound is returned when the referenced partner does not exist.
	ErrNotFound = errors.New("partner not found")
	// ErrDuplicateName is returned when a partner name is already taken.
	ErrDuplicateName = errors.New("a partner with this name already exists")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("partners")}
}

func (s *Store) List(ctx context.Context) ([]models.Partner, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var partners []models.Partner
	if err := cur.All(ctx, &partners); err != nil {
		return nil, err
	}
	return partners, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Partner, error) {
	var p models.Partner
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) Create(ctx context.Context, p models.Partner) (models.Partner, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.NameCI = text.Fold(p.Name)
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Partner{}, ErrDuplicateName
		}
		return models.Partner{}, err
	}
	return p, nil
}

// Update holds the partner fields a PUT may change.
type Update struct {
	Name        string
	Image       string
	Featured    bool
	Description string
}

func (s *Store) UpdateByID(ctx context.Context, id primitive.ObjectID, upd Update) (*models.Partner, error) {
	set := bson.M{
		"name":        upd.Name,
		"name_ci":     text.Fold(upd.Name),
		"image":       upd.Image,
		"featured":    upd.Featured,
		"description": upd.Description,
		"updated_at":  time.Now().UTC(),
	}

	var p models.Partner
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		if wafflemongo.IsDup(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) DeleteByID(ctx context.Context, id primitive.ObjectID) (*models.Partner, error) {
	var p models.Partner
	if err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
