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

// Storage doubles as the default OTP ledger.

// ReplaceCode issues code as the only active code for its email.
func (s *Storage) ReplaceCode(ctx context.Context, otp domain.OneTimeCode) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM otps WHERE email = $1", otp.Email); err != nil {
			return fmt.Errorf("failed to delete previous codes: %w", err)
		}
		return s.insertCode(ctx, tx, otp)
	})
}

// ConsumeCode deletes and returns the code matching email and code that was
// created at or after notBefore. Concurrent callers race on the DELETE, so at
// most one of them gets the row back.
func (s *Storage) ConsumeCode(ctx context.Context, email domain.Email, code string, notBefore time.Time) (domain.OneTimeCode, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var otp domain.OneTimeCode
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			DELETE FROM otps
			WHERE id = (
				SELECT id FROM otps
				WHERE email = $1 AND code = $2 AND created_at >= $3
				ORDER BY created_at DESC
				LIMIT 1
				FOR UPDATE SKIP LOCKED
			)
			RETURNING email, code, created_at`,
			email, code, notBefore,
		).Scan(&otp.Email, &otp.Code, &otp.CreatedAt)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return internal_errors.NotFound("Code not found")
			}
			return fmt.Errorf("failed to consume code: %w", err)
		}
		return nil
	})
	return otp, err
}

// RestoreCode puts a consumed code back, keeping its original timestamp.
func (s *Storage) RestoreCode(ctx context.Context, otp domain.OneTimeCode) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.insertCode(ctx, s.db, otp)
}

// DeleteCodes drops every code issued to email.
func (s *Storage) DeleteCodes(ctx context.Context, email domain.Email) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM otps WHERE email = $1", email); err != nil {
		return fmt.Errorf("failed to delete codes: %w", err)
	}
	return nil
}

// DeleteCodesCreatedBefore purges codes that can no longer match and returns
// how many rows went away.
func (s *Storage) DeleteCodesCreatedBefore(ctx context.Context, before time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	result, err := s.db.ExecContext(ctx, "DELETE FROM otps WHERE created_at < $1", before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired codes: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return n, nil
}

func (s *Storage) insertCode(ctx context.Context, q Querier, otp domain.OneTimeCode) error {
	_, err := q.ExecContext(ctx,
		"INSERT INTO otps(email, code, created_at) VALUES($1, $2, $3)",
		otp.Email, otp.Code, otp.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert code: %w", err)
	}
	return nil
}
