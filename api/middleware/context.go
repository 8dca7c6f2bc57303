package middleware

import (
	"context"
	"strconv"

	"github.com/angelmondragon/scootershop-backend/pkg/auth/session"
)

type contextKey string

const ctxPrincipal contextKey = "principal"

// WithPrincipal stores the resolved session on the context.
func WithPrincipal(ctx context.Context, principal *session.Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxPrincipal, principal)
}

// PrincipalFromContext returns the resolved session, or nil for guests.
func PrincipalFromContext(ctx context.Context) *session.Principal {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxPrincipal).(*session.Principal); ok {
		return v
	}
	return nil
}

func UserIDFromContext(ctx context.Context) string {
	if p := PrincipalFromContext(ctx); p != nil {
		return strconv.FormatUint(p.UserID, 10)
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if p := PrincipalFromContext(ctx); p != nil {
		return string(p.Role)
	}
	return ""
}
