package service

import (
	"context"

	"github.com/aljannat-dev/aljannat/shared/domain"
	"github.com/aljannat-dev/aljannat/shared/logger"
	"github.com/aljannat-dev/aljannat/shared/validation"
)

// ObjectStorage keeps uploaded catalog images.
type ObjectStorage interface {
	// Upload stores obj and returns its public URL and the key to destroy it with.
	Upload(ctx context.Context, obj domain.Object) (domain.StoredObject, error)
	// Destroy removes the object. A missing object is not an error.
	Destroy(ctx context.Context, key string) error
}

// uploadImage stores img if one was attached. A nil result means no image.
func uploadImage(ctx context.Context, objects ObjectStorage, img *domain.PendingImage) (*domain.StoredObject, error) {
	if img == nil {
		return nil, nil
	}
	stored, err := objects.Upload(ctx, domain.Object{
		Data:        img.Data,
		Size:        img.SizeBytes,
		ContentType: img.MimeType,
		Ext:         validation.ExtensionFor(img),
	})
	if err != nil {
		return nil, dependencyFailure("upload image", err)
	}
	return &stored, nil
}

// destroyObject releases key and only logs failures: the record it belonged
// to is already gone or was never written.
func destroyObject(ctx context.Context, objects ObjectStorage, key string) {
	if key == "" {
		return
	}
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()
	if err := objects.Destroy(cctx, key); err != nil {
		logger.Log.Error("failed to destroy object", "key", key, "error", err)
	}
}
