package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/doccluster/auth-service/internal/domain"
	"github.com/doccluster/auth-service/internal/metrics"
	"github.com/doccluster/auth-service/internal/password"
	"github.com/doccluster/auth-service/internal/repository"
	"github.com/doccluster/auth-service/internal/token"
	"github.com/google/uuid"
)

const (
	defaultAvatarURL = "https://img.freepik.com/premium-vector/user-profile-icon-flat-style-member-avatar-vector-illustration-isolated-background-human-permission-sign-business-concept_157943-15752.jpg"
	defaultAvatarID  = "/"
)

// phoneShape matches the 10-digit identifiers routed to the phone lookup.
var phoneShape = regexp.MustCompile(`^\d{10}$`)

// CredentialUsecase covers registration, password login, password change
// and refresh. Every issuance path embeds {userID, version} so the
// version bump revokes all of them uniformly.
type CredentialUsecase struct {
	store  repository.Store
	tokens *token.Issuer
	logger *slog.Logger
}

func NewCredentialUsecase(store repository.Store, tokens *token.Issuer, logger *slog.Logger) *CredentialUsecase {
	return &CredentialUsecase{
		store:  store,
		tokens: tokens,
		logger: logger.With("component", "credential_usecase"),
	}
}

type RegisterInput struct {
	FullName    string
	Email       string
	Username    string
	PhoneNumber string
	DOB         *time.Time
	Password    string
}

// Register persists a new unverified user. Duplicate detection rides on
// the store's unique constraints rather than a lookup-then-insert, so two
// racing registrations cannot both win.
func (u *CredentialUsecase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	hash, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		FullName:     input.FullName,
		Email:        normalizeEmail(input.Email),
		Username:     strings.ToLower(input.Username),
		PhoneNumber:  input.PhoneNumber,
		DOB:          input.DOB,
		PasswordHash: hash,
		IsVerified:   false,
		Version:      uuid.NewString(),
		AvatarURL:    defaultAvatarURL,
		AvatarID:     defaultAvatarID,
		CoverInfo:    map[string]any{},
	}

	created, err := u.store.Users().Create(ctx, user)
	if err != nil {
		return nil, err
	}

	u.logger.InfoContext(ctx, "user registered", "user_id", created.ID, "email", created.Email)
	return created, nil
}

// Login resolves the identifier by shape: 10 digits is a phone number, a
// "@" marks an email, anything else is a lowercased username.
func (u *CredentialUsecase) Login(ctx context.Context, identifier, plainPassword string) (*domain.User, token.Pair, error) {
	users := u.store.Users()

	var user *domain.User
	var err error
	switch {
	case phoneShape.MatchString(identifier):
		user, err = users.FindByPhone(ctx, identifier)
	case strings.Contains(identifier, "@"):
		user, err = users.FindByEmail(ctx, normalizeEmail(identifier))
	default:
		user, err = users.FindByUsername(ctx, strings.ToLower(identifier))
	}
	if err != nil {
		return nil, token.Pair{}, err
	}

	if user.PasswordHash == "" || !password.Verify(user.PasswordHash, plainPassword) {
		return nil, token.Pair{}, domain.ErrInvalidCredential
	}
	if !user.IsVerified {
		return nil, token.Pair{}, domain.ErrNotVerified
	}

	pair, err := u.tokens.IssuePair(user.ID, user.Version)
	if err != nil {
		return nil, token.Pair{}, err
	}

	metrics.TokensIssuedTotal.WithLabelValues("password").Inc()
	return user, pair, nil
}

// ChangePassword swaps the hash and stores a new session version in the
// same update, invalidating every token minted before the change.
func (u *CredentialUsecase) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := u.store.Users().FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.PasswordHash == "" || !password.Verify(user.PasswordHash, oldPassword) {
		return domain.ErrInvalidCredential
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := u.store.Users().UpdatePassword(ctx, userID, hash, uuid.NewString()); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	u.logger.InfoContext(ctx, "password changed, sessions revoked", "user_id", userID)
	return nil
}

// Refresh verifies the refresh token, then re-checks the stored version so
// a revoked session cannot resurrect itself through the refresh path.
func (u *CredentialUsecase) Refresh(ctx context.Context, refreshToken string) (token.Pair, error) {
	claims, err := u.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return token.Pair{}, err
	}

	user, err := u.store.Users().FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return token.Pair{}, domain.ErrTokenInvalid
		}
		return token.Pair{}, err
	}
	if user.Version != claims.Version {
		return token.Pair{}, domain.ErrTokenInvalid
	}

	pair, err := u.tokens.IssuePair(user.ID, user.Version)
	if err != nil {
		return token.Pair{}, err
	}

	metrics.TokensIssuedTotal.WithLabelValues("refresh").Inc()
	return pair, nil
}

// Profile returns the user behind an authenticated request.
func (u *CredentialUsecase) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return u.store.Users().FindByID(ctx, userID)
}
