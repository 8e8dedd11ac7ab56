package service

import (
	"context"
	"strings"

	"github.com/aljannat-dev/aljannat/shared/domain"
	"github.com/aljannat-dev/aljannat/shared/errors"
)

type CategoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, name string, img *domain.PendingImage) (domain.Category, error)
	Delete(ctx context.Context, id domain.CategoryId) error
}

type Category struct {
	storage CategoryStorage
	objects ObjectStorage
}

type CategoryStorage interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	SaveCategory(ctx context.Context, c domain.Category) (domain.Category, error)
	// DeleteCategory refuses to delete a category that still has dishes.
	DeleteCategory(ctx context.Context, id domain.CategoryId) (domain.Category, error)
}

func NewCategory(storage CategoryStorage, objects ObjectStorage) CategoryService {
	return &Category{storage: storage, objects: objects}
}

func (c *Category) List(ctx context.Context) ([]domain.Category, error) {
	return c.storage.Categories(ctx)
}

func (c *Category) Create(ctx context.Context, name string, img *domain.PendingImage) (domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Category{}, errors.Validation("Category name is required")
	}

	stored, err := uploadImage(ctx, c.objects, img)
	if err != nil {
		return domain.Category{}, err
	}

	category := domain.Category{Name: name}
	if stored != nil {
		category.ImageURL, category.ImageKey = stored.URL, stored.Key
	}
	saved, err := c.storage.SaveCategory(ctx, category)
	if err != nil {
		destroyObject(ctx, c.objects, category.ImageKey)
		return domain.Category{}, err
	}
	return saved, nil
}

func (c *Category) Delete(ctx context.Context, id domain.CategoryId) error {
	deleted, err := c.storage.DeleteCategory(ctx, id)
	if err != nil {
		return err
	}
	destroyObject(ctx, c.objects, deleted.ImageKey)
	return nil
}
