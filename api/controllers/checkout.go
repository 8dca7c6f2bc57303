package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/scootershop-backend/api/responses"
	"github.com/angelmondragon/scootershop-backend/api/validators"
	"github.com/angelmondragon/scootershop-backend/internal/checkout"
	pkgerrors "github.com/angelmondragon/scootershop-backend/pkg/errors"
	"github.com/angelmondragon/scootershop-backend/pkg/logger"
)

// Checkout places an order. The session token comes from the body and falls back to
// the Authorization header; an unknown token still checks out as a guest.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var body checkout.Request
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token := strings.TrimSpace(body.Token)
		if token == "" {
			token = validators.BearerToken(r)
		}

		result, err := svc.Execute(r.Context(), checkout.Input{
			Items: body.CartItems(),
			Total: body.Total,
			Token: token,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
