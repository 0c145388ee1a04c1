// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/outpost-labs/campsites/internal/app/system/auth"
	"github.com/outpost-labs/campsites/internal/domain/models"
)

// UserCtx returns the current identity's ObjectID, username, admin flag,
// and a found flag. ok=true guarantees a valid, authenticated user.
func UserCtx(r *http.Request) (userID primitive.ObjectID, username string, admin bool, ok bool) {
	id, ok := auth.CurrentUser(r)
	if !ok {
		return primitive.NilObjectID, "", false, false
	}
	return id.ID, id.Username, id.Admin, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	_, _, admin, ok := UserCtx(r)
	return ok && admin
}

// IsLoggedIn reports whether there is an identity in the request context.
func IsLoggedIn(r *http.Request) bool {
	_, ok := auth.CurrentUser(r)
	return ok
}

// OwnsComment reports whether the identity is the comment's author.
//
// Used identically for comment update and delete so the existence check
// (404) always happens before the ownership check (403). Callers must
// evaluate it against a freshly loaded comment, not a cached copy.
func OwnsComment(id *auth.Identity, c *models.Comment) bool {
	if id == nil {
		return false
	}
	return c.Author == id.ID && id.ID != primitive.NilObjectID
}
