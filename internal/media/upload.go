package media

import (
	"context"
	"io"
)

// UploadPicker picks the single image a client uploaded with its request.
// A nil File means the user dismissed the picker.
type UploadPicker struct {
	Library *Library
	File    io.Reader
}

// RequestPermission reports the library's permission state.
func (p UploadPicker) RequestPermission(_ context.Context) (bool, error) {
	if p.Library == nil {
		return false, nil
	}
	return p.Library.Granted(), nil
}

// Pick stores the uploaded image in the library.
func (p UploadPicker) Pick(ctx context.Context) (string, bool, error) {
	if p.File == nil {
		return "", false, nil
	}
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	ref, err := p.Library.Save(p.File)
	if err != nil {
		return "", false, err
	}
	return ref, true, nil
}
