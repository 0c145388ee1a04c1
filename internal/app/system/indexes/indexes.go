// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureCampsites(ctx, db); err != nil {
		problems = append(problems, "campsites: "+err.Error())
	}
	if err := ensureFavorites(ctx, db); err != nil {
		problems = append(problems, "favorites: "+err.Error())
	}
	if err := ensurePromotions(ctx, db); err != nil {
		problems = append(problems, "promotions: "+err.Error())
	}
	if err := ensurePartners(ctx, db); err != nil {
		problems = append(problems, "partners: "+err.Error())
	}
	if err := ensureSessions(ctx, db); err != nil {
		problems = append(problems, "sessions: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username_ci", Value: 1}},
			Options: options.Index().SetName("uniq_username_ci").SetUnique(true),
		},
	})
	return err
}

func ensureCampsites(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("campsites").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("uniq_name_ci").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "comments._id", Value: 1}},
			Options: options.Index().SetName("comments_id"),
		},
	})
	return err
}

// ensureFavorites backs the one-document-per-user invariant. Concurrent
// first-adds race on the upsert; the unique index makes the loser retry
// instead of creating a second document.
func ensureFavorites(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("favorites").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user", Value: 1}},
			Options: options.Index().SetName("uniq_user").SetUnique(true),
		},
	})
	return err
}

func ensurePromotions(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("promotions").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("uniq_name_ci").SetUnique(true),
		},
	})
	return err
}

func ensurePartners(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("partners").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("uniq_name_ci").SetUnique(true),
		},
	})
	return err
}

// ensureSessions lets Mongo reap expired sessions; Lookup still checks
// expires_at itself since the TTL monitor only runs periodically.
func ensureSessions(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("sessions").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetName("ttl_expires_at").SetExpireAfterSeconds(0),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("user_id"),
		},
	})
	return err
}
