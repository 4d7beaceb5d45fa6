package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/doccluster/auth-service/internal/domain"
	"github.com/doccluster/auth-service/internal/password"
	"github.com/doccluster/auth-service/internal/usecase"
)

func newCredentialUsecase(t *testing.T, store *fakeStore) *usecase.CredentialUsecase {
	t.Helper()
	return usecase.NewCredentialUsecase(store, testIssuer(t), testLogger())
}

func loginUser(t *testing.T, plain string) *domain.User {
	t.Helper()
	hash, err := password.Hash(plain)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &domain.User{
		ID:           "user-1",
		FullName:     "Alice",
		Email:        "a@x.com",
		Username:     "alice",
		PasswordHash: hash,
		IsVerified:   true,
		Version:      "v1",
	}
}

// ---- Register ----

func TestRegister_HashesPasswordAndAppliesDefaults(t *testing.T) {
	var captured *domain.User
	store := &fakeStore{users: &fakeUserRepo{
		create: func(_ context.Context, user *domain.User) (*domain.User, error) {
			captured = user
			user.ID = "user-1"
			return user, nil
		},
	}, otps: &fakeOtpRepo{}}

	dob := time.Date(2000, 1, 2, 0, 0, 0, 0, time.UTC)
	created, err := newCredentialUsecase(t, store).Register(context.Background(), usecase.RegisterInput{
		FullName:    "Alice",
		Email:       "A@X.com",
		Username:    "ALICE",
		PhoneNumber: "5551234567",
		DOB:         &dob,
		Password:    "open-sesame",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured.Email != "a@x.com" {
		t.Errorf("email = %q, want lowercased", captured.Email)
	}
	if captured.Username != "alice" {
		t.Errorf("username = %q, want lowercased", captured.Username)
	}
	if captured.PasswordHash == "" || captured.PasswordHash == "open-sesame" {
		t.Error("password stored unhashed")
	}
	if !password.Verify(captured.PasswordHash, "open-sesame") {
		t.Error("stored hash does not verify against the plaintext")
	}
	if captured.IsVerified {
		t.Error("new users must start unverified")
	}
	if captured.Version == "" {
		t.Error("new users must get a session version")
	}
	if captured.AvatarURL == "" || captured.AvatarID == "" {
		t.Error("avatar defaults missing")
	}
	if created.ID != "user-1" {
		t.Errorf("created.ID = %q", created.ID)
	}
}

func TestRegister_DuplicateIdentity_ReturnsConflict(t *testing.T) {
	store := &fakeStore{users: &fakeUserRepo{
		create: func(context.Context, *domain.User) (*domain.User, error) {
			return nil, domain.ErrConflict
		},
	}, otps: &fakeOtpRepo{}}

	_, err := newCredentialUsecase(t, store).Register(context.Background(), usecase.RegisterInput{
		FullName: "Alice", Email: "a@x.com", Username: "alice", Password: "pw",
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("want ErrConflict, got %v", err)
	}
}

// ---- Login ----

func TestLogin_RoutesIdentifierByShape(t *testing.T) {
	user := loginUser(t, "open-sesame")

	var viaPhone, viaEmail, viaUsername string
	store := &fakeStore{users: &fakeUserRepo{
		findByPhone: func(_ context.Context, phone string) (*domain.User, error) {
			viaPhone = phone
			return user, nil
		},
		findByEmail: func(_ context.Context, email string) (*domain.User, error) {
			viaEmail = email
			return user, nil
		},
		findByUsername: func(_ context.Context, username string) (*domain.User, error) {
			viaUsername = username
			return user, nil
		},
	}, otps: &fakeOtpRepo{}}

	uc := newCredentialUsecase(t, store)

	if _, _, err := uc.Login(context.Background(), "5551234567", "open-sesame"); err != nil {
		t.Fatalf("phone login: %v", err)
	}
	if viaPhone != "5551234567" {
		t.Errorf("10-digit identifier routed as %q via phone, want 5551234567", viaPhone)
	}

	if _, _, err := uc.Login(context.Background(), "A@X.com", "open-sesame"); err != nil {
		t.Fatalf("email login: %v", err)
	}
	if viaEmail != "a@x.com" {
		t.Errorf("email identifier %q, want normalized a@x.com", viaEmail)
	}

	if _, _, err := uc.Login(context.Background(), "ALICE", "open-sesame"); err != nil {
		t.Fatalf("username login: %v", err)
	}
	if viaUsername != "alice" {
		t.Errorf("username identifier %q, want lowercased alice", viaUsername)
	}
}

func TestLogin_WrongPassword_ReturnsInvalidCredential(t *testing.T) {
	user := loginUser(t, "open-sesame")
	store := &fakeStore{users: &fakeUserRepo{
		findByUsername: func(context.Context, string) (*domain.User, error) { return user, nil },
	}, otps: &fakeOtpRepo{}}

	_, _, err := newCredentialUsecase(t, store).Login(context.Background(), "alice", "not-the-password")
	if !errors.Is(err, domain.ErrInvalidCredential) {
		t.Errorf("want ErrInvalidCredential, got %v", err)
	}
}

func TestLogin_NoStoredHash_ReturnsInvalidCredential(t *testing.T) {
	user := loginUser(t, "open-sesame")
	user.PasswordHash = ""
	store := &fakeStore{users: &fakeUserRepo{
		findByUsername: func(context.Context, string) (*domain.User, error) { return user, nil },
	}, otps: &fakeOtpRepo{}}

	_, _, err := newCredentialUsecase(t, store).Login(context.Background(), "alice", "open-sesame")
	if !errors.Is(err, domain.ErrInvalidCredential) {
		t.Errorf("want ErrInvalidCredential, got %v", err)
	}
}

func TestLogin_UnverifiedUser_ReturnsNotVerified(t *testing.T) {
	user := loginUser(t, "open-sesame")
	user.IsVerified = false
	store := &fakeStore{users: &fakeUserRepo{
		findByUsername: func(context.Context, string) (*domain.User, error) { return user, nil },
	}, otps: &fakeOtpRepo{}}

	_, _, err := newCredentialUsecase(t, store).Login(context.Background(), "alice", "open-sesame")
	if !errors.Is(err, domain.ErrNotVerified) {
		t.Errorf("want ErrNotVerified, got %v", err)
	}
}

func TestLogin_Success_ClaimsCarryVersion(t *testing.T) {
	user := loginUser(t, "open-sesame")
	store := &fakeStore{users: &fakeUserRepo{
		findByUsername: func(context.Context, string) (*domain.User, error) { return user, nil },
	}, otps: &fakeOtpRepo{}}

	_, pair, err := newCredentialUsecase(t, store).Login(context.Background(), "alice", "open-sesame")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := testIssuer(t).VerifyAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if claims.UserID != "user-1" || claims.Version != "v1" {
		t.Errorf("claims = %+v, want user-1/v1", claims)
	}
}

// ---- ChangePassword ----

func TestChangePassword_RotatesHashAndVersion(t *testing.T) {
	user := loginUser(t, "old-password")

	var newHash, newVersion string
	store := &fakeStore{users: &fakeUserRepo{
		findByID: func(context.Context, string) (*domain.User, error) { return user, nil },
		updatePassword: func(_ context.Context, _, passwordHash, version string) error {
			newHash, newVersion = passwordHash, version
			return nil
		},
	}, otps: &fakeOtpRepo{}}

	if err := newCredentialUsecase(t, store).ChangePassword(context.Background(), "user-1", "old-password", "new-password"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !password.Verify(newHash, "new-password") {
		t.Error("stored hash does not match the new password")
	}
	if newVersion == "" || newVersion == user.Version {
		t.Errorf("version %q was not rotated from %q", newVersion, user.Version)
	}
}

func TestChangePassword_WrongOldPassword_ReturnsInvalidCredential(t *testing.T) {
	user := loginUser(t, "old-password")
	store := &fakeStore{users: &fakeUserRepo{
		findByID: func(context.Context, string) (*domain.User, error) { return user, nil },
		updatePassword: func(context.Context, string, string, string) error {
			t.Error("password updated despite failed verification")
			return nil
		},
	}, otps: &fakeOtpRepo{}}

	err := newCredentialUsecase(t, store).ChangePassword(context.Background(), "user-1", "not-it", "new-password")
	if !errors.Is(err, domain.ErrInvalidCredential) {
		t.Errorf("want ErrInvalidCredential, got %v", err)
	}
}

func TestChangePassword_UnknownUser_ReturnsNotFound(t *testing.T) {
	store := &fakeStore{users: &fakeUserRepo{
		findByID: func(context.Context, string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}, otps: &fakeOtpRepo{}}

	err := newCredentialUsecase(t, store).ChangePassword(context.Background(), "user-1", "old", "new")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("want ErrUserNotFound, got %v", err)
	}
}

// ---- Refresh ----

func TestRefresh_ValidToken_MintsNewPair(t *testing.T) {
	user := loginUser(t, "pw")
	store := &fakeStore{users: &fakeUserRepo{
		findByID: func(context.Context, string) (*domain.User, error) { return user, nil },
	}, otps: &fakeOtpRepo{}}

	issuer := testIssuer(t)
	original, err := issuer.IssuePair("user-1", "v1")
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}

	pair, err := newCredentialUsecase(t, store).Refresh(context.Background(), original.RefreshToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := issuer.VerifyAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if claims.UserID != "user-1" || claims.Version != "v1" {
		t.Errorf("claims = %+v, want user-1/v1", claims)
	}
}

func TestRefresh_StaleVersion_ReturnsTokenInvalid(t *testing.T) {
	user := loginUser(t, "pw")
	user.Version = "v2"
	store := &fakeStore{users: &fakeUserRepo{
		findByID: func(context.Context, string) (*domain.User, error) { return user, nil },
	}, otps: &fakeOtpRepo{}}

	original, err := testIssuer(t).IssuePair("user-1", "v1")
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}

	_, err = newCredentialUsecase(t, store).Refresh(context.Background(), original.RefreshToken)
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("want ErrTokenInvalid, got %v", err)
	}
}

func TestRefresh_UserGone_ReturnsTokenInvalid(t *testing.T) {
	store := &fakeStore{users: &fakeUserRepo{
		findByID: func(context.Context, string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}, otps: &fakeOtpRepo{}}

	original, err := testIssuer(t).IssuePair("user-1", "v1")
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}

	_, err = newCredentialUsecase(t, store).Refresh(context.Background(), original.RefreshToken)
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("want ErrTokenInvalid, got %v", err)
	}
}

func TestRefresh_AccessTokenRejected(t *testing.T) {
	store := &fakeStore{users: &fakeUserRepo{}, otps: &fakeOtpRepo{}}

	original, err := testIssuer(t).IssuePair("user-1", "v1")
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}

	_, err = newCredentialUsecase(t, store).Refresh(context.Background(), original.AccessToken)
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("want ErrTokenInvalid, got %v", err)
	}
}
