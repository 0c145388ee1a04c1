// internal/domain/models/favorite.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Favorite holds one user's set of favorited campsites.
//
// There is at most one Favorite document per user (unique index on user).
// Campsites has set semantics: additions go through $addToSet and removals
// through $pull, so the slice never holds duplicates.
type Favorite struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID   `bson:"user" json:"user"`
	Campsites []primitive.ObjectID `bson:"campsites" json:"campsites"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
