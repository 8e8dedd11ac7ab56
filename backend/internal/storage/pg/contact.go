package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/aljannat-dev/aljannat/shared/domain"
)

func (s *Storage) SaveContactMessage(ctx context.Context, m domain.ContactMessage) (domain.ContactMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := s.db.QueryRowContext(ctx,
		"INSERT INTO contact_messages(name, email, message) VALUES($1, $2, $3) RETURNING id, created_at",
		m.Name, m.Email, m.Message).Scan(&m.Id, &m.CreatedAt)
	if err != nil {
		return domain.ContactMessage{}, fmt.Errorf("failed to insert contact message: %w", err)
	}
	return m, nil
}
