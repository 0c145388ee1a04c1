package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/outpost-labs/campsites/internal/app/system/auth"
)

// TestUser represents identity data for testing HTTP handlers.
type TestUser struct {
	ID       primitive.ObjectID
	Username string
	Admin    bool
}

// RegularUser returns a TestUser without the admin flag.
func RegularUser() TestUser {
	return TestUser{
		ID:       primitive.NewObjectID(),
		Username: "testuser",
	}
}

// AdminUser returns a TestUser with the admin flag.
func AdminUser() TestUser {
	return TestUser{
		ID:       primitive.NewObjectID(),
		Username: "testadmin",
		Admin:    true,
	}
}

// WithUser adds an identity to the request context for testing
// authenticated handlers. This bypasses credential verification and
// injects the identity directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.Identity{
		ID:       user.ID,
		Username: user.Username,
		Admin:    user.Admin,
	})
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest creates an HTTP request carrying a JSON body.
func NewJSONRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewAuthenticatedRequest creates an HTTP request with an identity in
// context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	return WithUser(httptest.NewRequest(method, target, nil), user)
}
