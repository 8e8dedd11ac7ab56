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

// =========================================================================
// Public Methods (satisfy the service.AuthStorage interface)
// =========================================================================

// SaveUser creates an unverified user. A concurrent registration that loses
// the race on the unique email index gets ErrDuplicateAccount.
func (s *Storage) SaveUser(ctx context.Context, user domain.User) (domain.UserId, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var id domain.UserId
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = s.saveUser(ctx, tx, user)
		return err
	})
	return id, err
}

// User fetches a user by email. It uses the main connection pool.
func (s *Storage) User(ctx context.Context, email domain.Email) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.user(ctx, s.db, email)
}

// MarkVerified flips is_verified. Calling it on a verified user is a no-op.
func (s *Storage) MarkVerified(ctx context.Context, email domain.Email) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.markVerified(ctx, tx, email)
	})
}

func (s *Storage) UpdateRole(ctx context.Context, email domain.Email, role domain.Role) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.updateRole(ctx, tx, email, role)
	})
}

// DeleteUnverifiedUser removes an account that has not been verified yet.
// Register uses it to compensate when the code could not be issued or sent.
func (s *Storage) DeleteUnverifiedUser(ctx context.Context, email domain.Email) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.deleteUnverifiedUser(ctx, tx, email)
	})
}

// =========================================================================
// Internal Methods (Core Database Logic)
// These methods accept a Querier and are transaction-agnostic.
// =========================================================================

func (s *Storage) saveUser(ctx context.Context, q Querier, user domain.User) (domain.UserId, error) {
	var id domain.UserId
	err := q.QueryRowContext(ctx,
		"INSERT INTO users(name, email, password_hash, role, is_verified) VALUES($1, $2, $3, $4, $5) RETURNING id",
		user.Name, user.Email, user.PassHash, string(user.Role), user.IsVerified).Scan(&id)
	if err != nil {
		if shared_pg.IsUniqueViolation(err) {
			return -1, internal_errors.ErrDuplicateAccount
		}
		return -1, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

func (s *Storage) user(ctx context.Context, q Querier, email domain.Email) (domain.User, error) {
	var (
		user domain.User
		role string
	)
	err := q.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, role, is_verified, created_at, updated_at FROM users WHERE email = $1", email).
		Scan(&user.Id, &user.Name, &user.Email, &user.PassHash, &role, &user.IsVerified, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.NotFound("User not found")
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	user.Role = domain.Role(role)
	return user, nil
}

func (s *Storage) markVerified(ctx context.Context, q Querier, email domain.Email) error {
	result, err := q.ExecContext(ctx,
		"UPDATE users SET is_verified = TRUE, updated_at = now() WHERE email = $1", email)
	if err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}
	return requireAffected(result, "User not found")
}

func (s *Storage) updateRole(ctx context.Context, q Querier, email domain.Email, role domain.Role) error {
	result, err := q.ExecContext(ctx,
		"UPDATE users SET role = $1, updated_at = now() WHERE email = $2", string(role), email)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	return requireAffected(result, "User not found")
}

func (s *Storage) deleteUnverifiedUser(ctx context.Context, q Querier, email domain.Email) error {
	result, err := q.ExecContext(ctx, "DELETE FROM users WHERE email = $1 AND is_verified = FALSE", email)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return requireAffected(result, "User not found")
}

// requireAffected turns a zero-row update or delete into a NotFound error.
func requireAffected(result sql.Result, notFoundMessage string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rows == 0 {
		return internal_errors.NotFound(notFoundMessage)
	}
	return nil
}
