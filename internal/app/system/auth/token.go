package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// TokenStrategy authenticates with a signed, stateless bearer token.
//
// Tokens carry the user id as the subject claim plus issued-at/expiry and
// are signed HS256 with a process-wide secret. The secret must be
// identical across instances. Revocation is only possible by secret
// rotation or expiry; logout cannot invalidate an issued token.
type TokenStrategy struct {
	secret   []byte
	ttl      time.Duration
	resolver UserResolver
	log      *zap.Logger
}

func NewTokenStrategy(secret []byte, ttl time.Duration, resolver UserResolver, logger *zap.Logger) *TokenStrategy {
	return &TokenStrategy{secret: secret, ttl: ttl, resolver: resolver, log: logger}
}

func (s *TokenStrategy) Name() string { return "token" }

func (s *TokenStrategy) Extract(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(header, "Bearer "), true
}

// Verify checks signature and expiry, then resolves the embedded user id.
// Malformed, expired, and bad-signature tokens all come back as
// ErrInvalidToken; callers cannot tell which check failed.
func (s *TokenStrategy) Verify(ctx context.Context, credential string) (*Identity, error) {
	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(credential, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}

	oid, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return s.resolver.Resolve(ctx, oid)
}

// Issue signs a token for the identity. Nothing is persisted.
func (s *TokenStrategy) Issue(ctx context.Context, w http.ResponseWriter, r *http.Request, id *Identity) (IssueResult, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   id.ID.Hex(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return IssueResult{}, err
	}
	return IssueResult{Token: signed}, nil
}

// Clear has nothing to tear down: tokens are stateless and cannot be
// revoked individually. Logout under this strategy is a client-side
// concern (drop the token).
func (s *TokenStrategy) Clear(ctx context.Context, w http.ResponseWriter, r *http.Request) (bool, error) {
	return false, nil
}

// Challenge sets the bearer negotiation header.
func (s *TokenStrategy) Challenge(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
}
