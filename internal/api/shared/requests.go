package shared

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

const (
	// DefaultMaxUploadBytes caps the size of a multipart request body.
	DefaultMaxUploadBytes int64 = 64 << 20

	// maxMemoryBytes is how much of a multipart body is held in memory
	// before parts spill to temporary files.
	maxMemoryBytes int64 = 32 << 20
)

var (
	// ErrInvalidForm is returned for bodies that are not valid multipart forms.
	ErrInvalidForm = errors.New("invalid multipart form")

	// ErrRequestTooLarge is returned when the body exceeds the upload limit.
	ErrRequestTooLarge = errors.New("request body too large")
)

// FormFile is one uploaded file read fully into memory.
type FormFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ParseMultipartForm limits the request body to maxBytes and parses it as a
// multipart form.
func ParseMultipartForm(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxMemoryBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: limit is %d bytes", ErrRequestTooLarge, tooLarge.Limit)
		}
		return fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	return nil
}

// FormValueOr returns the trimmed form value for key, or fallback when the
// field is missing or blank.
func FormValueOr(r *http.Request, key, fallback string) string {
	if v := strings.TrimSpace(r.FormValue(key)); v != "" {
		return v
	}
	return fallback
}

// FormValues returns every value submitted for key.
func FormValues(r *http.Request, key string) []string {
	if r.MultipartForm != nil {
		if values, ok := r.MultipartForm.Value[key]; ok {
			return values
		}
	}
	return r.Form[key]
}

// ReadFormFiles reads every file submitted under field, in order.
func ReadFormFiles(r *http.Request, field string) ([]FormFile, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	headers := r.MultipartForm.File[field]
	files := make([]FormFile, 0, len(headers))
	for _, fh := range headers {
		content, err := readFormFile(fh)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %q: %v", ErrInvalidForm, fh.Filename, err)
		}
		files = append(files, FormFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Content:     content,
		})
	}
	return files, nil
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}
