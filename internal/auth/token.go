package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/segyhp/lab-loan-engine/internal/domain"
	apperrors "github.com/segyhp/lab-loan-engine/pkg/errors"
)

const issuer = "lab-loan-engine"

type claims struct {
	Role  domain.Role `json:"role"`
	LabID string      `json:"lab_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 bearer tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for user and its expiry.
func (t *TokenIssuer) Issue(user *domain.User) (string, time.Time, error) {
	now := t.now()
	expires := now.Add(t.ttl)

	c := claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	if user.LabID != nil {
		c.LabID = user.LabID.String()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	return signed, expires, nil
}

// Verify parses token and returns the identity it carries. Any failure is
// reported as Unauthorized.
func (t *TokenIssuer) Verify(token string) (Identity, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c,
		func(*jwt.Token) (interface{}, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return Identity{}, apperrors.WrapUnauthorized("invalid or expired token")
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil || !c.Role.Valid() {
		return Identity{}, apperrors.WrapUnauthorized("malformed token claims")
	}

	id := Identity{UserID: userID, Role: c.Role}
	if c.LabID != "" {
		labID, err := uuid.Parse(c.LabID)
		if err != nil {
			return Identity{}, apperrors.WrapUnauthorized("malformed token claims")
		}
		id.LabID = &labID
	}
	return id, nil
}
