package promotionstore

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
	// ErrNotFound is returned when the referenced promotion does not exist.
	ErrNotFound = errors.New("promotion not found")
	// ErrDuplicateName is returned when a promotion name is already taken.
	ErrDuplicateName = errors.New("a promotion with this name already exists")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("promotions")}
}

func (s *Store) List(ctx context.Context) ([]models.Promotion, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var promotions []models.Promotion
	if err := cur.All(ctx, &promotions); err != nil {
		return nil, err
	}
	return promotions, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Promotion, error) {
	var p models.Promotion
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) Create(ctx context.Context, p models.Promotion) (models.Promotion, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.NameCI = text.Fold(p.Name)
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Promotion{}, ErrDuplicateName
		}
		return models.Promotion{}, err
	}
	return p, nil
}

// Update holds the promotion fields a PUT may change.
type Update struct {
	Name        string
	Image       string
	Featured    bool
	Cost        int64
	Description string
}

func (s *Store) UpdateByID(ctx context.Context, id primitive.ObjectID, upd Update) (*models.Promotion, error) {
	set := bson.M{
		"name":        upd.Name,
		"name_ci":     text.Fold(upd.Name),
		"image":       upd.Image,
		"featured":    upd.Featured,
		"cost":        upd.Cost,
		"description": upd.Description,
		"updated_at":  time.Now().UTC(),
	}

	var p models.Promotion
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

func (s *Store) DeleteByID(ctx context.Context, id primitive.ObjectID) (*models.Promotion, error) {
	var p models.Promotion
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
