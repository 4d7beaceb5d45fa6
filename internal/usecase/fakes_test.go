package usecase_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/doccluster/auth-service/internal/domain"
	"github.com/doccluster/auth-service/internal/repository"
	"github.com/doccluster/auth-service/internal/token"
)

// ---- fakes ----

type fakeUserRepo struct {
	create         func(ctx context.Context, user *domain.User) (*domain.User, error)
	findByID       func(ctx context.Context, id string) (*domain.User, error)
	findByEmail    func(ctx context.Context, email string) (*domain.User, error)
	findByUsername func(ctx context.Context, username string) (*domain.User, error)
	findByPhone    func(ctx context.Context, phone string) (*domain.User, error)
	markVerified   func(ctx context.Context, id string) error
	updatePassword func(ctx context.Context, id, passwordHash, version string) error
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return r.create(ctx, user)
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findByID(ctx, id)
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findByEmail(ctx, email)
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findByUsername(ctx, username)
}

func (r *fakeUserRepo) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.findByPhone(ctx, phone)
}

func (r *fakeUserRepo) MarkVerified(ctx context.Context, id string) error {
	return r.markVerified(ctx, id)
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id, passwordHash, version string) error {
	return r.updatePassword(ctx, id, passwordHash, version)
}

type fakeOtpRepo struct {
	create         func(ctx context.Context, otp *domain.Otp) error
	deleteForEmail func(ctx context.Context, email string) error
	findByCode     func(ctx context.Context, email, code string) (*domain.Otp, error)
	deleteByID     func(ctx context.Context, id string) error
	latestForEmail func(ctx context.Context, email string) (*domain.Otp, error)
	deleteExpired  func(ctx context.Context, before time.Time) (int64, error)
}

func (r *fakeOtpRepo) Create(ctx context.Context, otp *domain.Otp) error {
	return r.create(ctx, otp)
}

func (r *fakeOtpRepo) DeleteForEmail(ctx context.Context, email string) error {
	return r.deleteForEmail(ctx, email)
}

func (r *fakeOtpRepo) FindByCode(ctx context.Context, email, code string) (*domain.Otp, error) {
	return r.findByCode(ctx, email, code)
}

func (r *fakeOtpRepo) Delete(ctx context.Context, id string) error {
	return r.deleteByID(ctx, id)
}

func (r *fakeOtpRepo) LatestForEmail(ctx context.Context, email string) (*domain.Otp, error) {
	return r.latestForEmail(ctx, email)
}

func (r *fakeOtpRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	return r.deleteExpired(ctx, before)
}

// fakeStore runs WithTx callbacks inline and records that a transaction
// was open, so tests can assert an operation ran transactionally.
type fakeStore struct {
	users   *fakeUserRepo
	otps    *fakeOtpRepo
	inTx    bool
	txCalls int
}

func (s *fakeStore) Users() repository.UserRepository { return s.users }
func (s *fakeStore) Otps() repository.OtpRepository   { return s.otps }

func (s *fakeStore) WithTx(_ context.Context, fn func(tx repository.Store) error) error {
	s.txCalls++
	s.inTx = true
	defer func() { s.inTx = false }()
	return fn(s)
}

type fakeSender struct {
	send func(ctx context.Context, to, subject, body string) error
}

func (s *fakeSender) Send(ctx context.Context, to, subject, body string) error {
	return s.send(ctx, to, subject, body)
}

// ---- helpers ----

const (
	testAccessSecret  = "access-test-secret-at-least-32-chars!!"
	testRefreshSecret = "refresh-test-secret-at-least-32-chars!"
)

func testIssuer(t *testing.T) *token.Issuer {
	t.Helper()
	i, err := token.NewIssuer(testAccessSecret, testRefreshSecret)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	return i
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}
