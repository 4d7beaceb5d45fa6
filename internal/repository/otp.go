package repository

import (
	"context"
	"time"

	"github.com/doccluster/auth-service/internal/domain"
)

type OtpRepository interface {
	Create(ctx context.Context, otp *domain.Otp) error

	// DeleteForEmail removes every code for the email. Paired with Create
	// inside Store.WithTx to atomically replace the active code.
	DeleteForEmail(ctx context.Context, email string) error

	// FindByCode returns the row matching email+code regardless of expiry,
	// or domain.ErrInvalidCode if none exists. Expiry is judged by the
	// caller against Otp.ExpiresAt.
	FindByCode(ctx context.Context, email, code string) (*domain.Otp, error)

	// Delete consumes the row. Returns domain.ErrInvalidCode when the row
	// is already gone, so concurrent verifications cannot both succeed.
	Delete(ctx context.Context, id string) error

	// LatestForEmail returns the most recently created code for the email,
	// or (nil, nil) when none exists.
	LatestForEmail(ctx context.Context, email string) (*domain.Otp, error)

	// DeleteExpired purges rows whose expiry is before the given time and
	// reports how many were removed.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
