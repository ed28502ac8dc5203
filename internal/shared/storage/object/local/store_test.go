package local

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"outfit-backend/internal/shared/storage/object"
)

// 1x1 transparent PNG.
var pngPixel = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func TestSaveOpenRoundTrip(t *testing.T) {
	store := New(t.TempDir(), "http://localhost:8080/")
	ctx := context.Background()

	obj, err := store.Save(ctx, "key:abc", "look-1", bytes.NewReader(pngPixel))
	require.NoError(t, err)
	require.Equal(t, "image/png", obj.MimeType)
	require.Equal(t, int64(len(pngPixel)), obj.Size)
	require.True(t, strings.HasSuffix(obj.Key, "_look-1.png"), obj.Key)
	require.NotContains(t, obj.Key, "key:abc")

	rc, err := store.Open(ctx, obj.Key)
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, pngPixel, got)

	url, err := store.URL(ctx, obj.Key)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080/api/v1/images/"+obj.Key, url)
}

func TestSaveSeparatesOwners(t *testing.T) {
	store := New(t.TempDir(), "")
	ctx := context.Background()

	a, err := store.Save(ctx, "owner-a", "look", bytes.NewReader(pngPixel))
	require.NoError(t, err)
	b, err := store.Save(ctx, "owner-b", "look", bytes.NewReader(pngPixel))
	require.NoError(t, err)
	require.NotEqual(t, strings.Split(a.Key, "/")[0], strings.Split(b.Key, "/")[0])
}

func TestRejectsTraversal(t *testing.T) {
	store := New(t.TempDir(), "")
	ctx := context.Background()

	_, err := store.Open(ctx, "../secret")
	require.True(t, errors.Is(err, object.ErrInvalidKey))
	_, err = store.URL(ctx, "")
	require.True(t, errors.Is(err, object.ErrInvalidKey))
	_, err = store.Save(ctx, "owner", "../x", bytes.NewReader(pngPixel))
	require.Error(t, err)
}

func TestSaveHonoursCancelledContext(t *testing.T) {
	store := New(t.TempDir(), "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Save(ctx, "owner", "look", bytes.NewReader(pngPixel))
	require.ErrorIs(t, err, context.Canceled)
}
