package authz_test

import (
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/outpost-labs/campsites/internal/app/system/auth"
	"github.com/outpost-labs/campsites/internal/app/system/authz"
	"github.com/outpost-labs/campsites/internal/domain/models"
)

func TestOwnsComment(t *testing.T) {
	owner := primitive.NewObjectID()
	comment := &models.Comment{ID: primitive.NewObjectID(), Author: owner}

	cases := []struct {
		name string
		id   *auth.Identity
		want bool
	}{
		{"author", &auth.Identity{ID: owner, Username: "alice"}, true},
		{"other user", &auth.Identity{ID: primitive.NewObjectID(), Username: "bob"}, false},
		{"admin non-author", &auth.Identity{ID: primitive.NewObjectID(), Username: "root", Admin: true}, false},
		{"nil identity", nil, false},
		{"bootstrap identity without stored user", &auth.Identity{Username: "root", Admin: true}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := authz.OwnsComment(tc.id, comment); got != tc.want {
				t.Errorf("OwnsComment: got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestUserCtx(t *testing.T) {
	req := httptest.NewRequest("GET", "/favorites", nil)
	if _, _, _, ok := authz.UserCtx(req); ok {
		t.Error("UserCtx on an anonymous request must report ok=false")
	}

	id := &auth.Identity{ID: primitive.NewObjectID(), Username: "alice", Admin: true}
	req = auth.WithTestUser(req, id)

	userID, username, admin, ok := authz.UserCtx(req)
	if !ok {
		t.Fatal("UserCtx: expected an identity")
	}
	if userID != id.ID || username != "alice" || !admin {
		t.Errorf("UserCtx: got (%s, %q, %v)", userID.Hex(), username, admin)
	}

	if !authz.IsAdmin(req) {
		t.Error("IsAdmin should be true for an admin identity")
	}
	if !authz.IsLoggedIn(req) {
		t.Error("IsLoggedIn should be true when an identity is present")
	}
}
