package controllers

import (
	"net/http"

	"github.com/angelmondragon/scootershop-backend/api/responses"
	"github.com/angelmondragon/scootershop-backend/api/validators"
	"github.com/angelmondragon/scootershop-backend/internal/siteconfig"
	pkgerrors "github.com/angelmondragon/scootershop-backend/pkg/errors"
	"github.com/angelmondragon/scootershop-backend/pkg/logger"
)

func BannerGet(svc siteconfig.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "site config service unavailable"))
			return
		}
		banner, err := svc.GetBanner(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, banner)
	}
}

// BannerSet requires a multipart form carrying an "image" file.
func BannerSet(svc siteconfig.Service, maxUploadBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "site config service unavailable"))
			return
		}
		if !validators.IsMultipart(r) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNoImage, "no image provided"))
			return
		}
		if err := validators.ParseMultipart(w, r, maxUploadBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		upload, closer, err := validators.FormUpload(r, "image")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if closer != nil {
			defer closer.Close()
		}

		banner, err := svc.SetBanner(r.Context(), upload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, banner)
	}
}
