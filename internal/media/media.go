// Package media is the device media library: a permission-gated source of
// local image references.
package media

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/hmchef/internal/errors"
)

// URLPrefix is the path under which picked images are served.
const URLPrefix = "/media/"

// Picker requests media library access and lets the user choose an image.
type Picker interface {
	// RequestPermission asks for media library access.
	RequestPermission(ctx context.Context) (bool, error)

	// Pick returns a local asset reference. ok is false when the user cancelled.
	Pick(ctx context.Context) (ref string, ok bool, err error)
}

// extensions maps accepted image content types to file extensions.
var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Library is the session's media directory.
type Library struct {
	dir      string
	granted  bool
	maxBytes int64
}

// NewLibrary creates a session media directory under the OS temp dir.
// granted controls whether permission requests succeed.
func NewLibrary(granted bool, maxBytes int64) (*Library, error) {
	dir, err := os.MkdirTemp("", "hmchef-media-")
	if err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return &Library{dir: dir, granted: granted, maxBytes: maxBytes}, nil
}

// Dir returns the directory images are written to.
func (l *Library) Dir() string {
	return l.dir
}

// Granted reports whether media library access is allowed.
func (l *Library) Granted() bool {
	return l.granted
}

// Close removes every picked image.
func (l *Library) Close() error {
	return os.RemoveAll(l.dir)
}

// Open opens a picked image by its file name.
func (l *Library) Open(name string) (*os.File, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return nil, errors.NewNotFound(name)
	}
	f, err := os.Open(filepath.Join(l.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound(name)
		}
		return nil, errors.NewInternal(err)
	}
	return f, nil
}

// Save copies an image into the library and returns its reference.
func (l *Library) Save(r io.Reader) (string, error) {
	limit := l.maxBytes
	if limit <= 0 {
		limit = 5 << 20
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", errors.NewInternal(err)
	}
	if int64(len(data)) > limit {
		return "", errors.NewPayloadTooLarge(limit)
	}

	contentType := http.DetectContentType(data)
	ext, ok := extensions[contentType]
	if !ok {
		return "", errors.NewUnsupportedMedia(contentType)
	}

	name := newName() + ext
	if err := os.WriteFile(filepath.Join(l.dir, name), data, 0600); err != nil {
		return "", errors.NewInternal(err)
	}
	return URLPrefix + name, nil
}

func newName() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return strings.ToLower(ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String())
}
