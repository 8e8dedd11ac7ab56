package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/aljannat-dev/aljannat/shared/domain"
	"github.com/aljannat-dev/aljannat/shared/errors"
)

var (
	posterLinkRe     = regexp.MustCompile(`^https?://.*\.(?:png|jpg|jpeg|gif)$`)
	errInvalidPoster = errors.Validation("Valid image URL required")
)

type PosterService interface {
	List(ctx context.Context) ([]domain.Poster, error)
	Create(ctx context.Context, link string) (domain.Poster, error)
	Update(ctx context.Context, id domain.PosterId, link string) (domain.Poster, error)
	Delete(ctx context.Context, id domain.PosterId) error
}

type Poster struct {
	storage PosterStorage
}

type PosterStorage interface {
	Posters(ctx context.Context) ([]domain.Poster, error)
	SavePoster(ctx context.Context, link string) (domain.Poster, error)
	UpdatePoster(ctx context.Context, id domain.PosterId, link string) (domain.Poster, error)
	DeletePoster(ctx context.Context, id domain.PosterId) error
}

func NewPoster(storage PosterStorage) PosterService {
	return &Poster{storage: storage}
}

func (p *Poster) List(ctx context.Context) ([]domain.Poster, error) {
	return p.storage.Posters(ctx)
}

func (p *Poster) Create(ctx context.Context, link string) (domain.Poster, error) {
	link, err := validatePosterLink(link)
	if err != nil {
		return domain.Poster{}, err
	}
	return p.storage.SavePoster(ctx, link)
}

func (p *Poster) Update(ctx context.Context, id domain.PosterId, link string) (domain.Poster, error) {
	link, err := validatePosterLink(link)
	if err != nil {
		return domain.Poster{}, err
	}
	return p.storage.UpdatePoster(ctx, id, link)
}

func (p *Poster) Delete(ctx context.Context, id domain.PosterId) error {
	return p.storage.DeletePoster(ctx, id)
}

func validatePosterLink(link string) (string, error) {
	link = strings.TrimSpace(link)
	if !posterLinkRe.MatchString(link) {
		return "", errInvalidPoster
	}
	return link, nil
}
