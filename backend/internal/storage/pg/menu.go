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

var errMenuItemNotFound = internal_errors.NotFound("Item not found")

const selectMenuItem = "SELECT id, title, price, points, image_url, image_key, created_at FROM menu_items"

func scanMenuItem(row rowScanner) (domain.MenuItem, error) {
	var m domain.MenuItem
	err := row.Scan(&m.Id, &m.Title, &m.Price, &m.Points, &m.ImageURL, &m.ImageKey, &m.CreatedAt)
	if m.Points == nil {
		m.Points = domain.Points{}
	}
	return m, err
}

func (s *Storage) MenuItems(ctx context.Context) ([]domain.MenuItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, selectMenuItem+" ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	items := []domain.MenuItem{}
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu item row: %w", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return items, nil
}

func (s *Storage) MenuItem(ctx context.Context, id domain.MenuItemId) (domain.MenuItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	m, err := scanMenuItem(s.db.QueryRowContext(ctx, selectMenuItem+" WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.MenuItem{}, errMenuItemNotFound
		}
		return domain.MenuItem{}, fmt.Errorf("failed to query menu item: %w", err)
	}
	return m, nil
}

func (s *Storage) SaveMenuItem(ctx context.Context, m domain.MenuItem) (domain.MenuItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if m.Points == nil {
		m.Points = domain.Points{}
	}
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO menu_items(title, price, points, image_url, image_key) VALUES($1, $2, $3, $4, $5) RETURNING id, created_at",
		m.Title, m.Price, m.Points, m.ImageURL, m.ImageKey).Scan(&m.Id, &m.CreatedAt)
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("failed to insert menu item: %w", err)
	}
	return m, nil
}

func (s *Storage) UpdateMenuItem(ctx context.Context, m domain.MenuItem) (domain.MenuItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if m.Points == nil {
		m.Points = domain.Points{}
	}
	err := s.db.QueryRowContext(ctx, `
		UPDATE menu_items SET title = $1, price = $2, points = $3, image_url = $4, image_key = $5
		WHERE id = $6 RETURNING created_at`,
		m.Title, m.Price, m.Points, m.ImageURL, m.ImageKey, m.Id).Scan(&m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.MenuItem{}, errMenuItemNotFound
		}
		return domain.MenuItem{}, fmt.Errorf("failed to update menu item: %w", err)
	}
	return m, nil
}

func (s *Storage) DeleteMenuItem(ctx context.Context, id domain.MenuItemId) (domain.MenuItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	m, err := scanMenuItem(s.db.QueryRowContext(ctx,
		"DELETE FROM menu_items WHERE id = $1 RETURNING id, title, price, points, image_url, image_key, created_at", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.MenuItem{}, errMenuItemNotFound
		}
		return domain.MenuItem{}, fmt.Errorf("failed to delete menu item: %w", err)
	}
	return m, nil
}
