package api

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	app_errors "roadmate/backend/internal/errors"
	"roadmate/backend/internal/service"
)

const multipartMemory = 8 << 20

// parseForm accepts multipart and urlencoded bodies up to maxBytes.
func parseForm(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: request body exceeds %d MB", app_errors.ErrValidation, maxBytes>>20)
		}
		return fmt.Errorf("%w: invalid form: %v", app_errors.ErrValidation, err)
	}
	return nil
}

// openUploads opens the files posted under field. The caller must call the
// returned cleanup.
func openUploads(r *http.Request, field string) ([]service.Upload, func(), error) {
	var headers []*multipart.FileHeader
	if r.MultipartForm != nil {
		headers = r.MultipartForm.File[field]
	}

	var files []multipart.File
	cleanup := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}

	uploads := make([]service.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("could not open upload %s: %w", fh.Filename, err)
		}
		files = append(files, f)
		uploads = append(uploads, service.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		})
	}
	return uploads, cleanup, nil
}

// formValue reports whether field was posted at all, so that absent fields
// can be told apart from empty ones.
func formValue(r *http.Request, field string) (*string, bool) {
	values, ok := r.Form[field]
	if !ok || len(values) == 0 {
		return nil, false
	}
	v := values[0]
	return &v, true
}
