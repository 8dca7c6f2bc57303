package controllers

import (
	"io"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/scootershop-backend/api/responses"
	"github.com/angelmondragon/scootershop-backend/api/validators"
	productsvc "github.com/angelmondragon/scootershop-backend/internal/products"
	pkgerrors "github.com/angelmondragon/scootershop-backend/pkg/errors"
	"github.com/angelmondragon/scootershop-backend/pkg/logger"
	"github.com/angelmondragon/scootershop-backend/pkg/types"
)

const productRemovedMessage = "Produto removido!"

func ProductsList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		list, err := svc.ListProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ProductsCreate accepts either a JSON body or a multipart form with an optional image file.
func ProductsCreate(svc productsvc.Service, maxUploadBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var (
			input productsvc.CreateProductInput
			err   error
		)
		if validators.IsMultipart(r) {
			var closer io.Closer
			input, closer, err = productFromForm(w, r, maxUploadBytes)
			if closer != nil {
				defer closer.Close()
			}
		} else {
			input, err = productFromJSON(r)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func ProductsDelete(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, types.MessageResponse{Message: productRemovedMessage})
	}
}

func productFromJSON(r *http.Request) (productsvc.CreateProductInput, error) {
	var body productsvc.CreateProductRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		return productsvc.CreateProductInput{}, err
	}
	return productsvc.CreateProductInput{
		Name:        validators.SanitizeString(body.Name, 200),
		Price:       *body.Price,
		Description: validators.SanitizeString(body.Description, 2000),
		ImagePath:   strings.TrimSpace(body.Image),
	}, nil
}

func productFromForm(w http.ResponseWriter, r *http.Request, maxUploadBytes int64) (productsvc.CreateProductInput, io.Closer, error) {
	if err := validators.ParseMultipart(w, r, maxUploadBytes); err != nil {
		return productsvc.CreateProductInput{}, nil, err
	}

	rawPrice := strings.TrimSpace(r.FormValue("price"))
	if rawPrice == "" {
		return productsvc.CreateProductInput{}, nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"price": "is required"})
	}
	price, err := decimal.NewFromString(rawPrice)
	if err != nil {
		return productsvc.CreateProductInput{}, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed").
			WithDetails(map[string]string{"price": "must be a decimal number"})
	}

	upload, closer, err := validators.FormUpload(r, "image")
	if err != nil {
		return productsvc.CreateProductInput{}, nil, err
	}

	return productsvc.CreateProductInput{
		Name:        validators.SanitizeString(r.FormValue("name"), 200),
		Price:       price,
		Description: validators.SanitizeString(r.FormValue("description"), 2000),
		ImagePath:   strings.TrimSpace(r.FormValue("image")),
		Upload:      upload,
	}, closer, nil
}
