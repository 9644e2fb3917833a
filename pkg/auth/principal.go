package auth

import (
	"context"

	apperrors "parkspot/pkg/errors"
)

const (
	RoleUser  = "User"
	RoleGuard = "Guard"
	RoleAdmin = "Admin"
)

// Principal is the authenticated caller as resolved by the identity
// provider upstream. Guards carry the single spot they are assigned to.
type Principal struct {
	ID     string
	Role   string
	SpotID string
}

func (p Principal) IsGuard() bool {
	return p.Role == RoleGuard
}

type contextKey string

const principalKey contextKey = "principal"

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// FromContext returns the request principal. Handlers behind the identity
// middleware can rely on it being present.
func FromContext(ctx context.Context) (Principal, error) {
	p, ok := ctx.Value(principalKey).(Principal)
	if !ok || p.ID == "" {
		return Principal{}, apperrors.Forbidden("No authenticated principal")
	}
	return p, nil
}

// RequireRole returns the principal only when it holds one of the given
// roles.
func RequireRole(ctx context.Context, roles ...string) (Principal, error) {
	p, err := FromContext(ctx)
	if err != nil {
		return Principal{}, err
	}
	for _, role := range roles {
		if p.Role == role {
			return p, nil
		}
	}
	return Principal{}, apperrors.Forbidden("Operation not permitted for role " + p.Role)
}
