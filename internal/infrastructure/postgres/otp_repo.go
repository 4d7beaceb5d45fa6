package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doccluster/auth-service/internal/domain"
	"github.com/jackc/pgx/v5"
)

type OtpRepository struct {
	db querier
}

func (r *OtpRepository) Create(ctx context.Context, otp *domain.Otp) error {
	query := `
		INSERT INTO otps (email, code, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query, otp.Email, otp.Code, otp.ExpiresAt).
		Scan(&otp.ID, &otp.CreatedAt)
	if err != nil {
		return fmt.Errorf("create otp: %w", err)
	}
	return nil
}

func (r *OtpRepository) DeleteForEmail(ctx context.Context, email string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM otps WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("delete otps for email: %w", err)
	}
	return nil
}

func (r *OtpRepository) FindByCode(ctx context.Context, email, code string) (*domain.Otp, error) {
	query := `
		SELECT id, email, code, expires_at, created_at
		FROM otps
		WHERE email = $1 AND code = $2
		FOR UPDATE`

	row := r.db.QueryRow(ctx, query, email, code)
	return scanOtp(row, domain.ErrInvalidCode)
}

func (r *OtpRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM otps WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete otp: %w", err)
	}
	// Zero rows means another verification consumed the code first.
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidCode
	}
	return nil
}

func (r *OtpRepository) LatestForEmail(ctx context.Context, email string) (*domain.Otp, error) {
	query := `
		SELECT id, email, code, expires_at, created_at
		FROM otps
		WHERE email = $1
		ORDER BY created_at DESC
		LIMIT 1`

	otp, err := scanOtp(r.db.QueryRow(ctx, query, email), nil)
	if err != nil {
		return nil, err
	}
	return otp, nil
}

func (r *OtpRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM otps WHERE expires_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("delete expired otps: %w", err)
	}
	return tag.RowsAffected(), nil
}

// scanOtp scans a single row. When the row is absent it returns notFound,
// or (nil, nil) if notFound is nil.
func scanOtp(row pgx.Row, notFound error) (*domain.Otp, error) {
	var o domain.Otp
	err := row.Scan(&o.ID, &o.Email, &o.Code, &o.ExpiresAt, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if notFound == nil {
				return nil, nil
			}
			return nil, notFound
		}
		return nil, fmt.Errorf("scan otp: %w", err)
	}
	return &o, nil
}
