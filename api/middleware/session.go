package middleware

import (
	"net/http"
	"strconv"

	"github.com/angelmondragon/scootershop-backend/api/validators"
	"github.com/angelmondragon/scootershop-backend/pkg/auth/session"
	"github.com/angelmondragon/scootershop-backend/pkg/logger"
)

// Session resolves an optional bearer token into a principal. Requests without a valid
// session continue as guests; gating is left to RequireRole.
func Session(resolver session.Resolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := validators.BearerToken(r)
			if token == "" || resolver == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			principal, err := resolver.Resolve(ctx, token)
			if err != nil {
				if logg != nil {
					logg.Error(ctx, "session.resolve_failed", err)
				}
				next.ServeHTTP(w, r)
				return
			}
			if principal == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx = WithPrincipal(ctx, principal)
			if logg != nil {
				ctx = logg.WithUserID(ctx, strconv.FormatUint(principal.UserID, 10))
				ctx = logg.WithRole(ctx, string(principal.Role))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
