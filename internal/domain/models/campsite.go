// internal/domain/models/campsite.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is a sub-document embedded in a Campsite.
//
// Author is a reference to the users collection. It is set exactly once,
// from the authenticated identity that created the comment, and no update
// path writes it again.
type Comment struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Rating int                `bson:"rating" json:"rating"` // 1..5
	Text   string             `bson:"text" json:"text"`
	Author primitive.ObjectID `bson:"author" json:"author"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Campsite is a top-level resource owning an ordered sequence of comments.
// Name is unique across all campsites (enforced by index on name_ci).
// Cost is stored in cents.
type Campsite struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Description string             `bson:"description" json:"description"`
	Image       string             `bson:"image" json:"image"`
	Elevation   float64            `bson:"elevation" json:"elevation"`
	Cost        int64              `bson:"cost" json:"cost"`
	Featured    bool               `bson:"featured" json:"featured"`
	Comments    []Comment          `bson:"comments" json:"comments"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
