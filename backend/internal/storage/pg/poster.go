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

var errPosterNotFound = internal_errors.NotFound("Poster not found")

func (s *Storage) Posters(ctx context.Context) ([]domain.Poster, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, "SELECT id, link, created_at FROM posters ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query posters: %w", err)
	}
	defer rows.Close()

	posters := []domain.Poster{}
	for rows.Next() {
		var p domain.Poster
		if err := rows.Scan(&p.Id, &p.Link, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan poster row: %w", err)
		}
		posters = append(posters, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return posters, nil
}

func (s *Storage) SavePoster(ctx context.Context, link string) (domain.Poster, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p := domain.Poster{Link: link}
	if err := s.db.QueryRowContext(ctx, "INSERT INTO posters(link) VALUES($1) RETURNING id, created_at", link).Scan(&p.Id, &p.CreatedAt); err != nil {
		return domain.Poster{}, fmt.Errorf("failed to insert poster: %w", err)
	}
	return p, nil
}

// UpdatePoster swaps the link and bumps the poster to the top of the list.
func (s *Storage) UpdatePoster(ctx context.Context, id domain.PosterId, link string) (domain.Poster, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p := domain.Poster{Id: id, Link: link}
	err := s.db.QueryRowContext(ctx,
		"UPDATE posters SET link = $1, created_at = now() WHERE id = $2 RETURNING created_at", link, id).Scan(&p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Poster{}, errPosterNotFound
		}
		return domain.Poster{}, fmt.Errorf("failed to update poster: %w", err)
	}
	return p, nil
}

func (s *Storage) DeletePoster(ctx context.Context, id domain.PosterId) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := s.db.ExecContext(ctx, "DELETE FROM posters WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete poster: %w", err)
	}
	return requireAffected(result, errPosterNotFound.Message)
}
