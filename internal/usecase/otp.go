package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/doccluster/auth-service/internal/domain"
	"github.com/doccluster/auth-service/internal/email"
	"github.com/doccluster/auth-service/internal/metrics"
	"github.com/doccluster/auth-service/internal/repository"
	"github.com/doccluster/auth-service/internal/token"
)

const (
	defaultOtpTTL         = 10 * time.Minute
	defaultResendCooldown = 30 * time.Second

	deliverTimeout = 30 * time.Second
)

// OtpUsecase owns the OTP lifecycle: issuance with atomic replacement,
// verify-time expiry, single-use consumption, and the resend cooldown.
type OtpUsecase struct {
	store    repository.Store
	sender   email.Sender
	tokens   *token.Issuer
	ttl      time.Duration
	cooldown time.Duration
	logger   *slog.Logger
}

func NewOtpUsecase(store repository.Store, sender email.Sender, tokens *token.Issuer,
	ttl, cooldown time.Duration, logger *slog.Logger) *OtpUsecase {

	if ttl <= 0 {
		ttl = defaultOtpTTL
	}
	if cooldown <= 0 {
		cooldown = defaultResendCooldown
	}
	return &OtpUsecase{
		store:    store,
		sender:   sender,
		tokens:   tokens,
		ttl:      ttl,
		cooldown: cooldown,
		logger:   logger.With("component", "otp_usecase"),
	}
}

// SendOtp gates the request on the flow's preconditions, then issues a
// fresh code. Both flows require an existing user: register additionally
// requires the user to still be unverified, login requires a verified one.
func (u *OtpUsecase) SendOtp(ctx context.Context, emailAddr string, flow domain.FlowType) error {
	emailAddr = normalizeEmail(emailAddr)

	user, err := u.store.Users().FindByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}

	switch flow {
	case domain.FlowRegister:
		if user.IsVerified {
			return domain.ErrAlreadyVerified
		}
	case domain.FlowLogin:
		if !user.IsVerified {
			return domain.ErrNotVerified
		}
	}

	return u.issue(ctx, user, flow)
}

// VerifyOtp consumes a code and mints a token pair. The whole verification
// runs inside one store transaction: flag flip, code deletion and the read
// of the version used for signing commit together or not at all.
func (u *OtpUsecase) VerifyOtp(ctx context.Context, emailAddr, code string, flow domain.FlowType) (*domain.User, token.Pair, error) {
	emailAddr = normalizeEmail(emailAddr)

	var user *domain.User
	var pair token.Pair

	err := u.store.WithTx(ctx, func(tx repository.Store) error {
		var err error
		user, err = tx.Users().FindByEmail(ctx, emailAddr)
		if err != nil {
			return err
		}

		otp, err := tx.Otps().FindByCode(ctx, emailAddr, code)
		if err != nil {
			return err
		}
		if otp.Expired(time.Now()) {
			return domain.ErrInvalidCode
		}

		if flow == domain.FlowRegister && user.IsVerified {
			return domain.ErrAlreadyVerified
		}
		if flow == domain.FlowLogin && !user.IsVerified {
			return domain.ErrNotVerified
		}

		if flow == domain.FlowRegister {
			if err := tx.Users().MarkVerified(ctx, user.ID); err != nil {
				return err
			}
			user.IsVerified = true
		}

		// Single use. Delete reports ErrInvalidCode when a concurrent
		// verification got to the row first.
		if err := tx.Otps().Delete(ctx, otp.ID); err != nil {
			return err
		}

		pair, err = u.tokens.IssuePair(user.ID, user.Version)
		return err
	})
	if err != nil {
		metrics.OtpsVerifiedTotal.WithLabelValues(string(flow), "fail").Inc()
		return nil, token.Pair{}, err
	}

	metrics.OtpsVerifiedTotal.WithLabelValues(string(flow), "ok").Inc()
	metrics.TokensIssuedTotal.WithLabelValues("otp").Inc()
	return user, pair, nil
}

// ResendOtp re-issues a register-flow code, at most once per cooldown
// window per email.
func (u *OtpUsecase) ResendOtp(ctx context.Context, emailAddr string) error {
	emailAddr = normalizeEmail(emailAddr)

	user, err := u.store.Users().FindByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return domain.ErrAlreadyVerified
	}

	latest, err := u.store.Otps().LatestForEmail(ctx, emailAddr)
	if err != nil {
		return fmt.Errorf("find latest otp: %w", err)
	}
	if latest != nil && time.Since(latest.CreatedAt) < u.cooldown {
		return domain.ErrRateLimited
	}

	return u.issue(ctx, user, domain.FlowRegister)
}

// issue atomically replaces any existing codes for the email with one new
// row, then hands the email to a background delivery that never affects
// the outcome reported to the caller.
func (u *OtpUsecase) issue(ctx context.Context, user *domain.User, flow domain.FlowType) error {
	code, err := newCode()
	if err != nil {
		return err
	}

	otp := &domain.Otp{
		Email:     user.Email,
		Code:      code,
		ExpiresAt: time.Now().Add(u.ttl),
	}

	err = u.store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.Otps().DeleteForEmail(ctx, user.Email); err != nil {
			return err
		}
		return tx.Otps().Create(ctx, otp)
	})
	if err != nil {
		return fmt.Errorf("persist otp: %w", err)
	}

	metrics.OtpsIssuedTotal.WithLabelValues(string(flow)).Inc()

	go u.deliver(user, code, flow)
	return nil
}

func (u *OtpUsecase) deliver(user *domain.User, code string, flow domain.FlowType) {
	ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
	defer cancel()

	subject, body := email.OTPMessage(user.FullName, code, flow)
	if err := u.sender.Send(ctx, user.Email, subject, body); err != nil {
		u.logger.Error("send otp email", "email", user.Email, "flow", flow, "error", err)
		metrics.OtpEmailsTotal.WithLabelValues("error").Inc()
		return
	}
	metrics.OtpEmailsTotal.WithLabelValues("ok").Inc()
}

// newCode draws a uniform 4-digit code in [1000, 9999]. Codes are scoped
// per email, so collisions across emails are fine.
func newCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return strconv.FormatInt(n.Int64()+1000, 10), nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
