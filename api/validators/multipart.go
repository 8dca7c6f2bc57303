package validators

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/angelmondragon/scootershop-backend/internal/uploads"
	pkgerrors "github.com/angelmondragon/scootershop-backend/pkg/errors"
)

const multipartMemory = 8 << 20

// IsMultipart reports whether the request carries a multipart/form-data body.
func IsMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && strings.EqualFold(mediaType, "multipart/form-data")
}

// ParseMultipart parses the form, capping the body at maxBytes plus form overhead.
func ParseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartMemory)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "upload too large")
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}
	return nil
}

// FormUpload returns the named file of a parsed multipart form, or nil when absent.
// The caller closes the returned closer once the upload has been consumed.
func FormUpload(r *http.Request, field string) (*uploads.Upload, io.Closer, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid upload")
	}
	return &uploads.Upload{Filename: header.Filename, Reader: file}, file, nil
}
