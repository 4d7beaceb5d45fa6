package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/doccluster/auth-service/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type UserRepository struct {
	db querier
}

const userColumns = `id, full_name, email, username, phone_number, dob,
	password_hash, is_verified, version, avatar_url, avatar_id, cover_info,
	created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (
			full_name, email, username, phone_number, dob, password_hash,
			is_verified, version, avatar_url, avatar_id, cover_info
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + userColumns

	row := r.db.QueryRow(ctx, query,
		user.FullName,
		user.Email,
		user.Username,
		nullableString(user.PhoneNumber),
		user.DOB,
		user.PasswordHash,
		user.IsVerified,
		user.Version,
		user.AvatarURL,
		user.AvatarID,
		user.CoverInfo,
	)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrConflict
		}
		return nil, err
	}
	return created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findBy(ctx, "id", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findBy(ctx, "email", email)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findBy(ctx, "username", username)
}

func (r *UserRepository) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.findBy(ctx, "phone_number", phone)
}

func (r *UserRepository) findBy(ctx context.Context, column, value string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`
	return scanUser(r.db.QueryRow(ctx, query, value))
}

func (r *UserRepository) MarkVerified(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET is_verified = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash, version string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET password_hash = $2, version = $3, updated_at = NOW() WHERE id = $1`,
		id, passwordHash, version)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var phone *string
	err := row.Scan(
		&u.ID, &u.FullName, &u.Email, &u.Username, &phone, &u.DOB,
		&u.PasswordHash, &u.IsVerified, &u.Version, &u.AvatarURL, &u.AvatarID,
		&u.CoverInfo, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	if phone != nil {
		u.PhoneNumber = *phone
	}
	return &u, nil
}

// nullableString maps "" to NULL so the partial unique index on
// phone_number ignores users without one.
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
