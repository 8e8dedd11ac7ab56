package validation

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
)

// multipartOverhead leaves room for the text fields sent next to the file.
const multipartOverhead = 1 << 20

// ValidateAndParseMultipart caps the body at maxFileSize plus form overhead
// and parses it. When the cap is hit the server stops reading, which a
// browser may surface as a connection reset.
func ValidateAndParseMultipart(r *http.Request, w http.ResponseWriter, maxFileSize int64) error {
	limit := CalculateMaxRequestSize(maxFileSize, multipartOverhead)
	if r.ContentLength > limit {
		return fmt.Errorf("%w: limit is %.1f MB", ErrPayloadTooLarge, FormatSizeMB(limit))
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(limit); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("%w: limit is %.1f MB", ErrPayloadTooLarge, FormatSizeMB(limit))
		}
		return fmt.Errorf("failed to parse multipart form: %w", err)
	}
	return nil
}

// FormFile returns the header of an optional file field, or nil when absent.
func FormFile(r *http.Request, field string) *multipart.FileHeader {
	if r.MultipartForm == nil || r.MultipartForm.File == nil {
		return nil
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return nil
	}
	return files[0]
}

// CalculateMaxRequestSize returns the maximum request size including overhead buffer.
func CalculateMaxRequestSize(maxAttachmentSize int64, bufferSize int64) int64 {
	return maxAttachmentSize + bufferSize
}

// FormatSizeMB converts bytes to megabytes for user-friendly error messages.
func FormatSizeMB(bytes int64) float64 {
	return float64(bytes) / (1024 * 1024)
}
