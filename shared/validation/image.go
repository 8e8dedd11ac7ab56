package validation

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/aljannat-dev/aljannat/shared/domain"
	_ "golang.org/x/image/webp"
)

// ValidateImage checks an uploaded file against the MIME allow-list and size
// limit, then confirms it actually decodes as an image. The returned
// PendingImage owns the opened file; callers close it via CloseImage.
func ValidateImage(fileHeader *multipart.FileHeader, allowedMimes []string, maxSize int64) (*domain.PendingImage, error) {
	if fileHeader == nil {
		return nil, ErrMissingFile
	}
	if maxSize > 0 && fileHeader.Size > maxSize {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrImageTooLarge, fileHeader.Filename, fileHeader.Size)
	}

	mimeType, err := DetectMimeType(fileHeader)
	if err != nil {
		return nil, err
	}
	if !BuildAllowedMimeMap(allowedMimes)[mimeType] {
		return nil, fmt.Errorf("%w: %s (file: %s)", ErrInvalidMimeType, mimeType, fileHeader.Filename)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}

	width, height, err := ExtractImageDimensions(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: %s does not decode as an image", ErrInvalidMimeType, fileHeader.Filename)
	}

	return &domain.PendingImage{
		Data:        file,
		Filename:    fileHeader.Filename,
		SizeBytes:   fileHeader.Size,
		MimeType:    mimeType,
		ImageWidth:  &width,
		ImageHeight: &height,
	}, nil
}

// CloseImage releases the file behind a PendingImage, if any.
func CloseImage(img *domain.PendingImage) {
	if img == nil {
		return
	}
	if c, ok := img.Data.(io.Closer); ok {
		c.Close()
	}
}

func BuildAllowedMimeMap(mimes []string) map[string]bool {
	allowed := make(map[string]bool, len(mimes))
	for _, m := range mimes {
		allowed[strings.ToLower(m)] = true
	}
	return allowed
}

func DetectMimeType(fileHeader *multipart.FileHeader) (string, error) {
	mimeType := fileHeader.Header.Get("Content-Type")

	// If no Content-Type or it's generic, detect from extension
	if mimeType == "" || mimeType == "application/octet-stream" {
		if detected := mime.TypeByExtension(strings.ToLower(filepath.Ext(fileHeader.Filename))); detected != "" {
			mimeType = detected
		}
	}
	if mimeType == "" || mimeType == "application/octet-stream" {
		return "", fmt.Errorf("%w: could not detect MIME type for file: %s", ErrInvalidMimeType, fileHeader.Filename)
	}

	// drop parameters such as "; charset=binary"
	if base, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = base
	}
	return strings.ToLower(mimeType), nil
}

// ExtractImageDimensions decodes the image header and rewinds the file.
func ExtractImageDimensions(file io.ReadSeeker) (int, int, error) {
	cfg, _, err := image.DecodeConfig(file)
	if _, seekErr := file.Seek(0, io.SeekStart); seekErr != nil && err == nil {
		err = seekErr
	}
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// ExtensionFor returns the file extension to store an image under.
func ExtensionFor(img *domain.PendingImage) string {
	if ext := strings.ToLower(filepath.Ext(img.Filename)); ext != "" {
		return ext
	}
	switch img.MimeType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
