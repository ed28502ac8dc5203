package local

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"outfit-backend/internal/shared/storage/object"
	"outfit-backend/internal/shared/util"
)

// ServePath is the route prefix under which Store URLs are served.
const ServePath = "/api/v1/images/"

// Store implements ImageStore using the local filesystem.
type Store struct {
	baseDir string
	baseURL string
}

// New creates a local store rooted at baseDir whose URLs start at publicBaseURL.
func New(baseDir, publicBaseURL string) *Store {
	return &Store{baseDir: baseDir, baseURL: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/")}
}

// Save writes the reader to disk under the owner's namespace with a random prefix.
func (s *Store) Save(ctx context.Context, owner, baseName string, r io.Reader) (object.Object, error) {
	sanitized, err := util.SanitizeFileName(baseName)
	if err != nil {
		return object.Object{}, fmt.Errorf("sanitize file name: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return object.Object{}, err
	}

	var sniff [512]byte
	n, readErr := io.ReadFull(r, sniff[:])
	if readErr != nil && readErr != io.EOF && readErr != io.ErrUnexpectedEOF {
		return object.Object{}, fmt.Errorf("read sniff: %w", readErr)
	}
	mt := mimetype.Detect(sniff[:n])

	ownerKey := util.HashKey(owner)[:16]
	fileName := fmt.Sprintf("%s_%s%s", uuid.NewString(), sanitized, mt.Extension())
	dirPath := filepath.Join(s.baseDir, ownerKey)
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return object.Object{}, fmt.Errorf("mkdir: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(dirPath, fileName), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return object.Object{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, io.MultiReader(bytes.NewReader(sniff[:n]), r))
	if err != nil {
		return object.Object{}, fmt.Errorf("write body: %w", err)
	}

	return object.Object{
		Key:      path.Join(ownerKey, fileName),
		Size:     size,
		MimeType: mt.String(),
	}, nil
}

// Open opens a stored object for reading.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fullPath, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	return os.Open(fullPath)
}

// URL returns the public address of key, served by the images route.
func (s *Store) URL(ctx context.Context, key string) (string, error) {
	if _, err := s.resolve(key); err != nil {
		return "", err
	}
	return s.baseURL + ServePath + strings.TrimLeft(key, "/"), nil
}

func (s *Store) resolve(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimLeft(key, "/")))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", object.ErrInvalidKey
	}
	return filepath.Join(s.baseDir, clean), nil
}

var _ object.ImageStore = (*Store)(nil)
