package service

import (
	"context"
	"strings"

	"github.com/aljannat-dev/aljannat/shared/domain"
	"github.com/aljannat-dev/aljannat/shared/errors"
)

var errMenuFieldsRequired = errors.Validation("Title and price are required")

type MenuService interface {
	List(ctx context.Context) ([]domain.MenuItem, error)
	Create(ctx context.Context, item domain.MenuItem, img *domain.PendingImage) (domain.MenuItem, error)
	Update(ctx context.Context, id domain.MenuItemId, upd domain.MenuItemUpdate, img *domain.PendingImage) (domain.MenuItem, error)
	Delete(ctx context.Context, id domain.MenuItemId) error
}

type Menu struct {
	storage MenuStorage
	objects ObjectStorage
}

type MenuStorage interface {
	MenuItems(ctx context.Context) ([]domain.MenuItem, error)
	MenuItem(ctx context.Context, id domain.MenuItemId) (domain.MenuItem, error)
	SaveMenuItem(ctx context.Context, m domain.MenuItem) (domain.MenuItem, error)
	UpdateMenuItem(ctx context.Context, m domain.MenuItem) (domain.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id domain.MenuItemId) (domain.MenuItem, error)
}

func NewMenu(storage MenuStorage, objects ObjectStorage) MenuService {
	return &Menu{storage: storage, objects: objects}
}

func (s *Menu) List(ctx context.Context) ([]domain.MenuItem, error) {
	return s.storage.MenuItems(ctx)
}

func (s *Menu) Create(ctx context.Context, item domain.MenuItem, img *domain.PendingImage) (domain.MenuItem, error) {
	item.Title = strings.TrimSpace(item.Title)
	if item.Title == "" {
		return domain.MenuItem{}, errMenuFieldsRequired
	}
	if item.Price < 0 {
		return domain.MenuItem{}, errNegativePrice
	}
	item.Points = cleanPoints(item.Points)

	stored, err := uploadImage(ctx, s.objects, img)
	if err != nil {
		return domain.MenuItem{}, err
	}
	if stored != nil {
		item.ImageURL, item.ImageKey = stored.URL, stored.Key
	}

	saved, err := s.storage.SaveMenuItem(ctx, item)
	if err != nil {
		destroyObject(ctx, s.objects, item.ImageKey)
		return domain.MenuItem{}, err
	}
	return saved, nil
}

func (s *Menu) Update(ctx context.Context, id domain.MenuItemId, upd domain.MenuItemUpdate, img *domain.PendingImage) (domain.MenuItem, error) {
	item, err := s.storage.MenuItem(ctx, id)
	if err != nil {
		return domain.MenuItem{}, err
	}

	if upd.Title != nil {
		item.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Price != nil {
		item.Price = *upd.Price
	}
	if upd.Points != nil {
		item.Points = cleanPoints(*upd.Points)
	}
	if item.Title == "" {
		return domain.MenuItem{}, errMenuFieldsRequired
	}
	if item.Price < 0 {
		return domain.MenuItem{}, errNegativePrice
	}

	oldKey := item.ImageKey
	stored, err := uploadImage(ctx, s.objects, img)
	if err != nil {
		return domain.MenuItem{}, err
	}
	if stored != nil {
		item.ImageURL, item.ImageKey = stored.URL, stored.Key
	}

	updated, err := s.storage.UpdateMenuItem(ctx, item)
	if err != nil {
		if stored != nil {
			destroyObject(ctx, s.objects, stored.Key)
		}
		return domain.MenuItem{}, err
	}
	if stored != nil {
		destroyObject(ctx, s.objects, oldKey)
	}
	return updated, nil
}

func (s *Menu) Delete(ctx context.Context, id domain.MenuItemId) error {
	deleted, err := s.storage.DeleteMenuItem(ctx, id)
	if err != nil {
		return err
	}
	destroyObject(ctx, s.objects, deleted.ImageKey)
	return nil
}

// cleanPoints drops blank bullet points.
func cleanPoints(points domain.Points) domain.Points {
	cleaned := domain.Points{}
	for _, p := range points {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return cleaned
}
