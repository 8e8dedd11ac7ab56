package handler

import (
	"context"

	"github.com/aljannat-dev/aljannat/backend/internal/service"
	"github.com/aljannat-dev/aljannat/shared/config"
)

type Handler struct {
	auth     service.AuthService
	category service.CategoryService
	dish     service.DishService
	menu     service.MenuService
	poster   service.PosterService
	gallery  service.GalleryService
	content  service.ContentService
	contact  service.ContactService
	cfg      *config.Config
	health   HealthChecker
}

// Services bundles everything the handlers delegate to.
type Services struct {
	Auth     service.AuthService
	Category service.CategoryService
	Dish     service.DishService
	Menu     service.MenuService
	Poster   service.PosterService
	Gallery  service.GalleryService
	Content  service.ContentService
	Contact  service.ContactService
}

// HealthChecker reports whether backing stores are reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

func New(s Services, cfg *config.Config, health HealthChecker) *Handler {
	return &Handler{
		auth:     s.Auth,
		category: s.Category,
		dish:     s.Dish,
		menu:     s.Menu,
		poster:   s.Poster,
		gallery:  s.Gallery,
		content:  s.Content,
		contact:  s.Contact,
		cfg:      cfg,
		health:   health,
	}
}
