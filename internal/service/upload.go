package service

import (
	"fmt"
	"io"
	"strings"

	app_errors "roadmate/backend/internal/errors"
)

// Upload is a file received from a client, already bounded by the transport.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

func (u Upload) validateImage(maxBytes int64) error {
	if !strings.HasPrefix(u.ContentType, "image/") {
		return fmt.Errorf("%w: %s is not an image", app_errors.ErrValidation, u.Filename)
	}
	if u.Size > maxBytes {
		return fmt.Errorf("%w: %s exceeds %d MB", app_errors.ErrValidation, u.Filename, maxBytes>>20)
	}
	return nil
}
