// internal/domain/models/promotion.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Promotion is a top-level resource with admin-gated mutation.
// Name is unique. Cost is stored in cents.
type Promotion struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Image       string             `bson:"image" json:"image"`
	Featured    bool               `bson:"featured" json:"featured"`
	Cost        int64              `bson:"cost" json:"cost"`
	Description string             `bson:"description" json:"description"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
