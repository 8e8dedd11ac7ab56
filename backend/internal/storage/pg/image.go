package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aljannat-dev/aljannat/shared/domain"
	internal_errors "github.com/aljannat-dev/aljannat/shared/errors"
)

var errImageNotFound = internal_errors.NotFound("Image not found")

const selectGalleryImage = "SELECT id, link, object_key, category, created_at FROM gallery_images"

func (s *Storage) GalleryImages(ctx context.Context) ([]domain.GalleryImage, error) {
	return s.queryGalleryImages(ctx, selectGalleryImage+" ORDER BY created_at DESC, id DESC")
}

func (s *Storage) GalleryImagesByCategory(ctx context.Context, category domain.ImageCategory) ([]domain.GalleryImage, error) {
	return s.queryGalleryImages(ctx, selectGalleryImage+" WHERE category = $1 ORDER BY created_at DESC, id DESC", string(category))
}

// RandomGalleryImages returns up to limit images in random order.
func (s *Storage) RandomGalleryImages(ctx context.Context, limit int) ([]domain.GalleryImage, error) {
	return s.queryGalleryImages(ctx, selectGalleryImage+" ORDER BY random() LIMIT $1", limit)
}

func (s *Storage) SaveGalleryImage(ctx context.Context, img domain.GalleryImage) (domain.GalleryImage, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := s.db.QueryRowContext(ctx,
		"INSERT INTO gallery_images(link, object_key, category) VALUES($1, $2, $3) RETURNING id, created_at",
		img.Link, img.Key, string(img.Category)).Scan(&img.Id, &img.CreatedAt)
	if err != nil {
		return domain.GalleryImage{}, fmt.Errorf("failed to insert gallery image: %w", err)
	}
	return img, nil
}

// DeleteGalleryImage removes the row and returns it so the caller can destroy the object.
func (s *Storage) DeleteGalleryImage(ctx context.Context, id domain.ImageId) (domain.GalleryImage, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var (
		img      domain.GalleryImage
		category string
	)
	err := s.db.QueryRowContext(ctx,
		"DELETE FROM gallery_images WHERE id = $1 RETURNING id, link, object_key, category, created_at", id).
		Scan(&img.Id, &img.Link, &img.Key, &category, &img.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.GalleryImage{}, errImageNotFound
		}
		return domain.GalleryImage{}, fmt.Errorf("failed to delete gallery image: %w", err)
	}
	img.Category = domain.ImageCategory(category)
	return img, nil
}

func (s *Storage) queryGalleryImages(ctx context.Context, query string, args ...any) ([]domain.GalleryImage, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query gallery images: %w", err)
	}
	defer rows.Close()

	images := []domain.GalleryImage{}
	for rows.Next() {
		var (
			img      domain.GalleryImage
			category string
		)
		if err := rows.Scan(&img.Id, &img.Link, &img.Key, &category, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan gallery image row: %w", err)
		}
		img.Category = domain.ImageCategory(category)
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return images, nil
}
