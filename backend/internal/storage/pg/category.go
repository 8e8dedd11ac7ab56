package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aljannat-dev/aljannat/shared/domain"
	internal_errors "github.com/aljannat-dev/aljannat/shared/errors"
	shared_pg "github.com/aljannat-dev/aljannat/shared/storage/pg"
)

var (
	errCategoryNotFound = internal_errors.NotFound("Category not found")
	errCategoryExists   = internal_errors.Conflict("Category already exists")
	errCategoryInUse    = internal_errors.Conflict("Cannot delete category with associated dishes")
)

func (s *Storage) Categories(ctx context.Context) ([]domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, "SELECT id, name, image_url, image_key, created_at FROM categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.Id, &c.Name, &c.ImageURL, &c.ImageKey, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return categories, nil
}

func (s *Storage) SaveCategory(ctx context.Context, c domain.Category) (domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := s.db.QueryRowContext(ctx,
		"INSERT INTO categories(name, image_url, image_key) VALUES($1, $2, $3) RETURNING id, created_at",
		c.Name, c.ImageURL, c.ImageKey).Scan(&c.Id, &c.CreatedAt)
	if err != nil {
		if shared_pg.IsUniqueViolation(err) {
			return domain.Category{}, errCategoryExists
		}
		return domain.Category{}, fmt.Errorf("failed to insert category: %w", err)
	}
	return c, nil
}

// DeleteCategory removes an unused category and returns the deleted row so
// the caller can release its image.
func (s *Storage) DeleteCategory(ctx context.Context, id domain.CategoryId) (domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var deleted domain.Category
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			"SELECT id, name, image_url, image_key, created_at FROM categories WHERE id = $1 FOR UPDATE", id).
			Scan(&deleted.Id, &deleted.Name, &deleted.ImageURL, &deleted.ImageKey, &deleted.CreatedAt)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errCategoryNotFound
			}
			return fmt.Errorf("failed to query category: %w", err)
		}

		var inUse bool
		if err := tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM dishes WHERE category_id = $1)", id).Scan(&inUse); err != nil {
			return fmt.Errorf("failed to check category usage: %w", err)
		}
		if inUse {
			return errCategoryInUse
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id); err != nil {
			// a dish inserted after the check still trips the foreign key
			if shared_pg.IsForeignKeyViolation(err) {
				return errCategoryInUse
			}
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return nil
	})
	return deleted, err
}
