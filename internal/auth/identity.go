package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/segyhp/lab-loan-engine/internal/domain"
)

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID uuid.UUID
	Role   domain.Role
	LabID  *uuid.UUID
}

func (i Identity) IsAdmin() bool { return i.Role.IsAdmin() }

// Owns reports whether the caller is the given user.
func (i Identity) Owns(userID uuid.UUID) bool { return i.UserID == userID }

// System is the identity background jobs act as.
var System = Identity{Role: domain.RoleAdmin}

type ctxKey struct{}

// WithIdentity stores id in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity stored by WithIdentity.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
