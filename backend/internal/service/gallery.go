package service

import (
	"context"

	"github.com/aljannat-dev/aljannat/shared/domain"
	"github.com/aljannat-dev/aljannat/shared/errors"
)

var (
	errImageAndCategoryRequired = errors.Validation("Image file and category are required")
	errUnknownImageCategory     = errors.Validation("Invalid image category")
)

type GalleryService interface {
	List(ctx context.Context) ([]domain.GalleryImage, error)
	ByCategory(ctx context.Context, category domain.ImageCategory) ([]domain.GalleryImage, error)
	Random(ctx context.Context) ([]domain.GalleryImage, error)
	Create(ctx context.Context, category domain.ImageCategory, img *domain.PendingImage) (domain.GalleryImage, error)
	Delete(ctx context.Context, id domain.ImageId) error
}

type Gallery struct {
	storage     GalleryStorage
	objects     ObjectStorage
	randomLimit int
}

type GalleryStorage interface {
	GalleryImages(ctx context.Context) ([]domain.GalleryImage, error)
	GalleryImagesByCategory(ctx context.Context, category domain.ImageCategory) ([]domain.GalleryImage, error)
	RandomGalleryImages(ctx context.Context, limit int) ([]domain.GalleryImage, error)
	SaveGalleryImage(ctx context.Context, img domain.GalleryImage) (domain.GalleryImage, error)
	DeleteGalleryImage(ctx context.Context, id domain.ImageId) (domain.GalleryImage, error)
}

func NewGallery(storage GalleryStorage, objects ObjectStorage, randomLimit int) GalleryService {
	return &Gallery{storage: storage, objects: objects, randomLimit: randomLimit}
}

func (g *Gallery) List(ctx context.Context) ([]domain.GalleryImage, error) {
	return g.storage.GalleryImages(ctx)
}

func (g *Gallery) ByCategory(ctx context.Context, category domain.ImageCategory) ([]domain.GalleryImage, error) {
	if !category.Valid() {
		return nil, errUnknownImageCategory
	}
	return g.storage.GalleryImagesByCategory(ctx, category)
}

func (g *Gallery) Random(ctx context.Context) ([]domain.GalleryImage, error) {
	return g.storage.RandomGalleryImages(ctx, g.randomLimit)
}

func (g *Gallery) Create(ctx context.Context, category domain.ImageCategory, img *domain.PendingImage) (domain.GalleryImage, error) {
	if img == nil || category == "" {
		return domain.GalleryImage{}, errImageAndCategoryRequired
	}
	if !category.Valid() {
		return domain.GalleryImage{}, errUnknownImageCategory
	}

	stored, err := uploadImage(ctx, g.objects, img)
	if err != nil {
		return domain.GalleryImage{}, err
	}

	saved, err := g.storage.SaveGalleryImage(ctx, domain.GalleryImage{
		Link:     stored.URL,
		Key:      stored.Key,
		Category: category,
	})
	if err != nil {
		destroyObject(ctx, g.objects, stored.Key)
		return domain.GalleryImage{}, err
	}
	return saved, nil
}

func (g *Gallery) Delete(ctx context.Context, id domain.ImageId) error {
	deleted, err := g.storage.DeleteGalleryImage(ctx, id)
	if err != nil {
		return err
	}
	destroyObject(ctx, g.objects, deleted.Key)
	return nil
}
