package object

import (
	"context"
	"errors"
	"io"
)

// ErrInvalidKey reports a storage key that escapes the store root.
var ErrInvalidKey = errors.New("invalid storage key")

// Object describes a stored blob.
type Object struct {
	Key      string
	Size     int64
	MimeType string
}

// ImageStore saves generated images and hands out URLs a browser can load.
type ImageStore interface {
	// Save stores r under the owner's namespace. The detected file extension is
	// appended to baseName.
	Save(ctx context.Context, owner, baseName string, r io.Reader) (Object, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	URL(ctx context.Context, key string) (string, error)
}
