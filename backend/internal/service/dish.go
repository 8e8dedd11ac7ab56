package service

import (
	"context"
	"strings"

	"github.com/aljannat-dev/aljannat/shared/domain"
	"github.com/aljannat-dev/aljannat/shared/errors"
)

var (
	errDishFieldsRequired = errors.Validation("Name, price, description and category are required")
	errNegativePrice      = errors.Validation("Price must not be negative")
)

type DishService interface {
	List(ctx context.Context) ([]domain.Dish, error)
	Create(ctx context.Context, dish domain.Dish, img *domain.PendingImage) (domain.Dish, error)
	Update(ctx context.Context, id domain.DishId, upd domain.DishUpdate, img *domain.PendingImage) (domain.Dish, error)
	Delete(ctx context.Context, id domain.DishId) error
}

type Dish struct {
	storage  DishStorage
	objects  ObjectStorage
	renderer Renderer
}

type DishStorage interface {
	Dishes(ctx context.Context) ([]domain.Dish, error)
	Dish(ctx context.Context, id domain.DishId) (domain.Dish, error)
	SaveDish(ctx context.Context, d domain.Dish) (domain.Dish, error)
	UpdateDish(ctx context.Context, d domain.Dish) (domain.Dish, error)
	DeleteDish(ctx context.Context, id domain.DishId) (domain.Dish, error)
}

// Renderer turns user-supplied markdown into safe HTML.
type Renderer interface {
	Render(text string) string
}

func NewDish(storage DishStorage, objects ObjectStorage, renderer Renderer) DishService {
	return &Dish{storage: storage, objects: objects, renderer: renderer}
}

func (s *Dish) List(ctx context.Context) ([]domain.Dish, error) {
	dishes, err := s.storage.Dishes(ctx)
	if err != nil {
		return nil, err
	}
	for i := range dishes {
		s.render(&dishes[i])
	}
	return dishes, nil
}

func (s *Dish) Create(ctx context.Context, dish domain.Dish, img *domain.PendingImage) (domain.Dish, error) {
	dish.Name = strings.TrimSpace(dish.Name)
	dish.Description = strings.TrimSpace(dish.Description)
	if dish.Name == "" || dish.Description == "" || dish.CategoryId <= 0 {
		return domain.Dish{}, errDishFieldsRequired
	}
	if dish.Price < 0 {
		return domain.Dish{}, errNegativePrice
	}

	stored, err := uploadImage(ctx, s.objects, img)
	if err != nil {
		return domain.Dish{}, err
	}
	if stored != nil {
		dish.ImageURL, dish.ImageKey = stored.URL, stored.Key
	}

	saved, err := s.storage.SaveDish(ctx, dish)
	if err != nil {
		destroyObject(ctx, s.objects, dish.ImageKey)
		return domain.Dish{}, err
	}
	s.render(&saved)
	return saved, nil
}

// Update applies upd on top of the stored dish. A new image replaces the old
// one, which is destroyed only after the row points at the new object.
func (s *Dish) Update(ctx context.Context, id domain.DishId, upd domain.DishUpdate, img *domain.PendingImage) (domain.Dish, error) {
	dish, err := s.storage.Dish(ctx, id)
	if err != nil {
		return domain.Dish{}, err
	}

	if upd.Name != nil {
		dish.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Description != nil {
		dish.Description = strings.TrimSpace(*upd.Description)
	}
	if upd.Price != nil {
		dish.Price = *upd.Price
	}
	if upd.CategoryId != nil {
		dish.CategoryId = *upd.CategoryId
	}
	if dish.Name == "" || dish.Description == "" || dish.CategoryId <= 0 {
		return domain.Dish{}, errDishFieldsRequired
	}
	if dish.Price < 0 {
		return domain.Dish{}, errNegativePrice
	}

	oldKey := dish.ImageKey
	stored, err := uploadImage(ctx, s.objects, img)
	if err != nil {
		return domain.Dish{}, err
	}
	if stored != nil {
		dish.ImageURL, dish.ImageKey = stored.URL, stored.Key
	}

	updated, err := s.storage.UpdateDish(ctx, dish)
	if err != nil {
		if stored != nil {
			destroyObject(ctx, s.objects, stored.Key)
		}
		return domain.Dish{}, err
	}
	if stored != nil {
		destroyObject(ctx, s.objects, oldKey)
	}
	s.render(&updated)
	return updated, nil
}

func (s *Dish) Delete(ctx context.Context, id domain.DishId) error {
	deleted, err := s.storage.DeleteDish(ctx, id)
	if err != nil {
		return err
	}
	destroyObject(ctx, s.objects, deleted.ImageKey)
	return nil
}

func (s *Dish) render(d *domain.Dish) {
	d.DescriptionHTML = s.renderer.Render(d.Description)
}
