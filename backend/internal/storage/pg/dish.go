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
	errDishNotFound    = internal_errors.NotFound("Dish not found")
	errUnknownCategory = internal_errors.Validation("Category does not exist")
)

const selectDish = `
	SELECT d.id, d.name, d.price, d.description, d.category_id, d.image_url, d.image_key, d.created_at, d.updated_at,
	       c.id, c.name, c.image_url, c.created_at
	FROM dishes d
	JOIN categories c ON c.id = d.category_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDish(row rowScanner) (domain.Dish, error) {
	var (
		d domain.Dish
		c domain.Category
	)
	err := row.Scan(&d.Id, &d.Name, &d.Price, &d.Description, &d.CategoryId, &d.ImageURL, &d.ImageKey, &d.CreatedAt, &d.UpdatedAt,
		&c.Id, &c.Name, &c.ImageURL, &c.CreatedAt)
	if err != nil {
		return domain.Dish{}, err
	}
	d.Category = &c
	return d, nil
}

func (s *Storage) Dishes(ctx context.Context) ([]domain.Dish, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, selectDish+" ORDER BY d.created_at DESC, d.id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query dishes: %w", err)
	}
	defer rows.Close()

	dishes := []domain.Dish{}
	for rows.Next() {
		d, err := scanDish(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dish row: %w", err)
		}
		dishes = append(dishes, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return dishes, nil
}

func (s *Storage) Dish(ctx context.Context, id domain.DishId) (domain.Dish, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.dish(ctx, s.db, id)
}

func (s *Storage) SaveDish(ctx context.Context, d domain.Dish) (domain.Dish, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var saved domain.Dish
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var id domain.DishId
		err := tx.QueryRowContext(ctx, `
			INSERT INTO dishes(name, price, description, category_id, image_url, image_key)
			VALUES($1, $2, $3, $4, $5, $6) RETURNING id`,
			d.Name, d.Price, d.Description, d.CategoryId, d.ImageURL, d.ImageKey).Scan(&id)
		if err != nil {
			if shared_pg.IsForeignKeyViolation(err) {
				return errUnknownCategory
			}
			return fmt.Errorf("failed to insert dish: %w", err)
		}
		saved, err = s.dish(ctx, tx, id)
		return err
	})
	return saved, err
}

// UpdateDish overwrites every editable column of the dish with d.
func (s *Storage) UpdateDish(ctx context.Context, d domain.Dish) (domain.Dish, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var updated domain.Dish
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE dishes
			SET name = $1, price = $2, description = $3, category_id = $4, image_url = $5, image_key = $6, updated_at = now()
			WHERE id = $7`,
			d.Name, d.Price, d.Description, d.CategoryId, d.ImageURL, d.ImageKey, d.Id)
		if err != nil {
			if shared_pg.IsForeignKeyViolation(err) {
				return errUnknownCategory
			}
			return fmt.Errorf("failed to update dish: %w", err)
		}
		if err := requireAffected(result, errDishNotFound.Message); err != nil {
			return err
		}
		updated, err = s.dish(ctx, tx, d.Id)
		return err
	})
	return updated, err
}

// DeleteDish removes the dish and returns it so the caller can release its image.
func (s *Storage) DeleteDish(ctx context.Context, id domain.DishId) (domain.Dish, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var deleted domain.Dish
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		if deleted, err = s.dish(ctx, tx, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM dishes WHERE id = $1", id); err != nil {
			return fmt.Errorf("failed to delete dish: %w", err)
		}
		return nil
	})
	return deleted, err
}

func (s *Storage) dish(ctx context.Context, q Querier, id domain.DishId) (domain.Dish, error) {
	d, err := scanDish(q.QueryRowContext(ctx, selectDish+" WHERE d.id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Dish{}, errDishNotFound
		}
		return domain.Dish{}, fmt.Errorf("failed to query dish: %w", err)
	}
	return d, nil
}
