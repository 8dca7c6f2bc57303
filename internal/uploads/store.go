// Package uploads persists product and banner images on local disk.
package uploads

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/angelmondragon/scootershop-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/scootershop-backend/pkg/errors"
)

// PublicPrefix is the URL path uploaded files are served under.
const PublicPrefix = "/uploads/"

var allowedTypes = map[string]imaging.Format{
	"image/jpeg": imaging.JPEG,
	"image/png":  imaging.PNG,
	"image/gif":  imaging.GIF,
	"image/webp": -1,
}

// Upload is an incoming file as read from a multipart form.
type Upload struct {
	Filename string
	Reader   io.Reader
}

// Saver is the surface services depend on.
type Saver interface {
	Save(ctx context.Context, upload Upload) (string, error)
	Delete(publicPath string) error
}

// Store writes images into a directory served at PublicPrefix.
type Store struct {
	dir      string
	maxBytes int64
	maxDim   int
}

// NewStore ensures the upload directory exists.
func NewStore(cfg config.UploadsConfig) (*Store, error) {
	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		return nil, fmt.Errorf("uploads dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Store{dir: dir, maxBytes: cfg.MaxBytes, maxDim: cfg.MaxDimension}, nil
}

// Dir returns the directory files are written to.
func (s *Store) Dir() string { return s.dir }

// Save sniffs, optionally downsizes, and writes the image as <uuid><ext>. It returns
// the public path, e.g. /uploads/1b4e...png.
func (s *Store) Save(ctx context.Context, upload Upload) (string, error) {
	if upload.Reader == nil {
		return "", pkgerrors.New(pkgerrors.CodeNoImage, "no image provided")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	limit := s.maxBytes
	if limit <= 0 {
		limit = 5 << 20
	}
	data, err := io.ReadAll(io.LimitReader(upload.Reader, limit+1))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read upload")
	}
	if len(data) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeNoImage, "no image provided")
	}
	if int64(len(data)) > limit {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "image too large").WithDetails(map[string]any{
			"max_bytes": limit,
		})
	}

	mtype := mimetype.Detect(data)
	format, ok := allowedTypes[baseType(mtype.String())]
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unsupported image type").WithDetails(map[string]any{
			"content_type": mtype.String(),
		})
	}

	if format == imaging.JPEG || format == imaging.PNG {
		data, err = s.downscale(data, format)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode image")
		}
	}

	name := uuid.NewString() + mtype.Extension()
	if err := writeFileAtomic(filepath.Join(s.dir, name), data); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeStorage, err, "write upload")
	}
	return PublicPrefix + name, nil
}

// Delete removes a previously saved file. Paths outside the store are ignored.
func (s *Store) Delete(publicPath string) error {
	if !strings.HasPrefix(publicPath, PublicPrefix) {
		return nil
	}
	name := filepath.Base(strings.TrimPrefix(publicPath, PublicPrefix))
	if name == "." || name == "/" || name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) downscale(data []byte, format imaging.Format) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	if s.maxDim <= 0 || !exceeds(img.Bounds(), s.maxDim) {
		return data, nil
	}
	resized := imaging.Fit(img, s.maxDim, s.maxDim, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(85)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exceeds(bounds image.Rectangle, max int) bool {
	return bounds.Dx() > max || bounds.Dy() > max
}

func baseType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.TrimSpace(contentType)
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// StoredFile is an image currently on disk.
type StoredFile struct {
	PublicPath string
	ModTime    time.Time
}

// List returns the saved images, skipping in-flight temp files.
func (s *Store) List() ([]StoredFile, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	out := make([]StoredFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		out = append(out, StoredFile{PublicPath: PublicPrefix + entry.Name(), ModTime: info.ModTime()})
	}
	return out, nil
}
