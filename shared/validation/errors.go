package validation

import "errors"

// ErrPayloadTooLarge is returned when the request body exceeds size limits
var ErrPayloadTooLarge = errors.New("payload too large")

// ErrInvalidMimeType is returned when an uploaded file has a disallowed MIME type
var ErrInvalidMimeType = errors.New("invalid MIME type")

// ErrImageTooLarge is returned when a single image exceeds the per-file limit
var ErrImageTooLarge = errors.New("image too large")

// ErrMissingFile is returned when a required file field is absent
var ErrMissingFile = errors.New("missing file")
