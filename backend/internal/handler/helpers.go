package handler

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/aljannat-dev/aljannat/shared/domain"
	"github.com/aljannat-dev/aljannat/shared/errors"
	"github.com/aljannat-dev/aljannat/shared/validation"
	"github.com/go-chi/chi/v5"
)

var errInvalidImageType = errors.Validation("Only PNG, JPEG, JPG, GIF and WEBP files are allowed")

// parseImageForm parses a multipart form and validates the optional "image"
// field. The caller closes the returned image with validation.CloseImage.
func (h *Handler) parseImageForm(w http.ResponseWriter, r *http.Request) (*domain.PendingImage, error) {
	maxSize := h.cfg.Public.MaxImageSize
	if err := validation.ValidateAndParseMultipart(r, w, maxSize); err != nil {
		if stderrors.Is(err, validation.ErrPayloadTooLarge) {
			return nil, imageTooLarge(maxSize)
		}
		return nil, errors.Validation("Body must be multipart/form-data")
	}

	fileHeader := validation.FormFile(r, "image")
	if fileHeader == nil {
		return nil, nil
	}

	img, err := validation.ValidateImage(fileHeader, h.cfg.Public.AllowedImageMimeTypes, maxSize)
	switch {
	case err == nil:
		return img, nil
	case stderrors.Is(err, validation.ErrImageTooLarge):
		return nil, imageTooLarge(maxSize)
	case stderrors.Is(err, validation.ErrInvalidMimeType):
		return nil, errInvalidImageType
	default:
		return nil, err
	}
}

func imageTooLarge(maxSize int64) error {
	return &errors.ErrorWithStatusCode{
		Message:    fmt.Sprintf("Image must be at most %.0f MB", validation.FormatSizeMB(maxSize)),
		StatusCode: http.StatusRequestEntityTooLarge,
		Kind:       errors.KindValidation,
	}
}

// parseIdParam reads a positive integer URL parameter.
func parseIdParam(r *http.Request, name string) (int64, error) {
	val, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || val <= 0 {
		return 0, errors.Validation(fmt.Sprintf("Invalid %s: must be a positive integer", name))
	}
	return val, nil
}

// formValue returns a trimmed form field and whether it was sent at all.
func formValue(r *http.Request, field string) (string, bool) {
	if r.MultipartForm == nil {
		return "", false
	}
	values, ok := r.MultipartForm.Value[field]
	if !ok || len(values) == 0 {
		return "", false
	}
	return strings.TrimSpace(values[0]), true
}

// formValues returns every value sent for field, e.g. repeated "points".
func formValues(r *http.Request, field string) ([]string, bool) {
	if r.MultipartForm == nil {
		return nil, false
	}
	values, ok := r.MultipartForm.Value[field]
	if !ok {
		values, ok = r.MultipartForm.Value[field+"[]"]
	}
	return values, ok
}

func parsePrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Validation("Price must be a number")
	}
	return price, nil
}
