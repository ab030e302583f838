package media

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hpungsan/hmchef/internal/errors"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newTestLibrary(t *testing.T, granted bool, maxBytes int64) *Library {
	t.Helper()
	lib, err := NewLibrary(granted, maxBytes)
	if err != nil {
		t.Fatalf("NewLibrary() error = %v", err)
	}
	t.Cleanup(func() { lib.Close() })
	return lib
}

func TestSave_StoresImage(t *testing.T) {
	lib := newTestLibrary(t, true, 1024)

	ref, err := lib.Save(bytes.NewReader(pngHeader))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !strings.HasPrefix(ref, URLPrefix) || !strings.HasSuffix(ref, ".png") {
		t.Fatalf("ref = %q, want /media/<id>.png", ref)
	}

	name := strings.TrimPrefix(ref, URLPrefix)
	f, err := lib.Open(name)
	if err != nil {
		t.Fatalf("Open(%q) error = %v", name, err)
	}
	defer f.Close()
	data, _ := io.ReadAll(f)
	if !bytes.Equal(data, pngHeader) {
		t.Error("stored bytes differ from upload")
	}
}

func TestSave_RejectsNonImage(t *testing.T) {
	lib := newTestLibrary(t, true, 1024)

	_, err := lib.Save(strings.NewReader("just some text"))
	if !errors.Is(err, errors.ErrUnsupportedMedia) {
		t.Fatalf("Save() error = %v, want UNSUPPORTED_MEDIA", err)
	}
}

func TestSave_RejectsOversize(t *testing.T) {
	lib := newTestLibrary(t, true, 8)

	_, err := lib.Save(bytes.NewReader(pngHeader))
	if !errors.Is(err, errors.ErrPayloadTooLarge) {
		t.Fatalf("Save() error = %v, want PAYLOAD_TOO_LARGE", err)
	}
}

func TestOpen_RejectsTraversal(t *testing.T) {
	lib := newTestLibrary(t, true, 1024)

	outside := filepath.Join(filepath.Dir(lib.Dir()), "secret.png")
	if err := os.WriteFile(outside, pngHeader, 0600); err == nil {
		defer os.Remove(outside)
	}

	for _, name := range []string{"", "../secret.png", ".hidden", "a/b.png"} {
		if _, err := lib.Open(name); !errors.Is(err, errors.ErrNotFound) {
			t.Errorf("Open(%q) error = %v, want NOT_FOUND", name, err)
		}
	}
}

func TestClose_RemovesDirectory(t *testing.T) {
	lib, err := NewLibrary(true, 1024)
	if err != nil {
		t.Fatalf("NewLibrary() error = %v", err)
	}
	if _, err := lib.Save(bytes.NewReader(pngHeader)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := lib.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := os.Stat(lib.Dir()); !os.IsNotExist(err) {
		t.Errorf("media dir still present after Close: %v", err)
	}
}

func TestUploadPicker(t *testing.T) {
	ctx := context.Background()

	t.Run("permission follows library", func(t *testing.T) {
		granted, _ := UploadPicker{Library: newTestLibrary(t, true, 1024)}.RequestPermission(ctx)
		denied, _ := UploadPicker{Library: newTestLibrary(t, false, 1024)}.RequestPermission(ctx)
		none, _ := UploadPicker{}.RequestPermission(ctx)
		if !granted || denied || none {
			t.Errorf("granted=%v denied=%v none=%v", granted, denied, none)
		}
	})

	t.Run("no file is cancellation", func(t *testing.T) {
		ref, ok, err := UploadPicker{Library: newTestLibrary(t, true, 1024)}.Pick(ctx)
		if err != nil || ok || ref != "" {
			t.Errorf("Pick() = %q, %v, %v; want cancellation", ref, ok, err)
		}
	})

	t.Run("file is saved", func(t *testing.T) {
		p := UploadPicker{Library: newTestLibrary(t, true, 1024), File: bytes.NewReader(pngHeader)}
		ref, ok, err := p.Pick(ctx)
		if err != nil || !ok || ref == "" {
			t.Errorf("Pick() = %q, %v, %v", ref, ok, err)
		}
	})
}
