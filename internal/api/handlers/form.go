package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/markdave123-py/Cluster/internal/apierr"
)

// multipartMemory is how much of a multipart body is kept in memory before spilling to disk.
const multipartMemory = 32 << 20

// parseForm accepts both multipart and urlencoded bodies.
func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		return formError(err)
	}
	return nil
}

func formError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apierr.New(http.StatusRequestEntityTooLarge, "Uploaded file is too large", err)
	}
	return apierr.New(http.StatusBadRequest, "Invalid form data", err)
}

// formFile reads the named upload. It returns nil when the field is absent.
func formFile(r *http.Request, field string) (*multipart.FileHeader, []byte, error) {
	if r.MultipartForm == nil {
		return nil, nil, nil
	}
	f, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, formError(err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, nil, formError(err)
	}
	return header, data, nil
}
