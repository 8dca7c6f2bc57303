package uploads

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/scootershop-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/scootershop-backend/pkg/errors"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 13), B: uint8(x * y), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestStore(t *testing.T, maxBytes int64, maxDim int) *Store {
	t.Helper()
	store, err := NewStore(config.UploadsConfig{Dir: filepath.Join(t.TempDir(), "uploads"), MaxBytes: maxBytes, MaxDimension: maxDim})
	require.NoError(t, err)
	return store
}

func TestSaveWritesFileUnderPublicPrefix(t *testing.T) {
	store := newTestStore(t, 1<<20, 100)

	path, err := store.Save(context.Background(), Upload{Filename: "foto.png", Reader: bytes.NewReader(pngBytes(t, 10, 10))})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(path, PublicPrefix))
	require.True(t, strings.HasSuffix(path, ".png"))

	_, err = os.Stat(filepath.Join(store.Dir(), strings.TrimPrefix(path, PublicPrefix)))
	require.NoError(t, err)

	require.NoError(t, store.Delete(path))
	require.NoError(t, store.Delete(path))
	require.NoError(t, store.Delete("https://elsewhere/x.png"))
}

func TestSaveDownscalesLargeImages(t *testing.T) {
	store := newTestStore(t, 1<<20, 50)

	path, err := store.Save(context.Background(), Upload{Reader: bytes.NewReader(pngBytes(t, 200, 100))})
	require.NoError(t, err)

	img, err := imaging.Open(filepath.Join(store.Dir(), strings.TrimPrefix(path, PublicPrefix)))
	require.NoError(t, err)
	require.Equal(t, 50, img.Bounds().Dx())
	require.Equal(t, 25, img.Bounds().Dy())
}

func TestSaveRejectsBadInput(t *testing.T) {
	store := newTestStore(t, 64, 0)
	ctx := context.Background()

	_, err := store.Save(ctx, Upload{})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNoImage))

	_, err = store.Save(ctx, Upload{Reader: bytes.NewReader(nil)})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNoImage))

	_, err = store.Save(ctx, Upload{Reader: strings.NewReader("just some text, not an image")})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	_, err = store.Save(ctx, Upload{Reader: bytes.NewReader(pngBytes(t, 100, 100))})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}
