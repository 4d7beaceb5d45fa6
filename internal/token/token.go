// Package token mints and verifies the signed session credentials. Access
// and refresh tokens are signed with distinct secrets; both carry the user
// ID and the session version the pair was minted under.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/doccluster/auth-service/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

const (
	AccessTTL  = 7 * 24 * time.Hour
	RefreshTTL = 30 * 24 * time.Hour
)

// Pair is one access+refresh issuance.
type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Claims is the decoded identity a verified token asserts.
type Claims struct {
	UserID  string
	Version string
}

type Issuer struct {
	accessKey  []byte
	refreshKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewIssuer fails closed: without both secrets no token is ever signed.
func NewIssuer(accessSecret, refreshSecret string) (*Issuer, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, fmt.Errorf("%w: token secrets not configured", domain.ErrServerConfig)
	}
	return &Issuer{
		accessKey:  []byte(accessSecret),
		refreshKey: []byte(refreshSecret),
		accessTTL:  AccessTTL,
		refreshTTL: RefreshTTL,
	}, nil
}

// IssuePair signs a fresh access+refresh pair asserting {userID, version}.
func (i *Issuer) IssuePair(userID, version string) (Pair, error) {
	access, err := i.sign(i.accessKey, userID, version, i.accessTTL)
	if err != nil {
		return Pair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := i.sign(i.refreshKey, userID, version, i.refreshTTL)
	if err != nil {
		return Pair{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}

func (i *Issuer) VerifyAccess(raw string) (Claims, error) {
	return verify(i.accessKey, raw)
}

func (i *Issuer) VerifyRefresh(raw string) (Claims, error) {
	return verify(i.refreshKey, raw)
}

func (i *Issuer) sign(key []byte, userID, version string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":     userID,
		"version": version,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

func verify(key []byte, raw string) (Claims, error) {
	if len(key) == 0 {
		return Claims{}, domain.ErrServerConfig
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	})
	if err != nil {
		// Expired must stay distinguishable from malformed/forged for
		// diagnostics, even though callers treat both as unauthorized.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, domain.ErrTokenExpired
		}
		return Claims{}, domain.ErrTokenInvalid
	}
	if !token.Valid {
		return Claims{}, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, domain.ErrTokenInvalid
	}
	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return Claims{}, domain.ErrTokenInvalid
	}
	version, ok := claims["version"].(string)
	if !ok || version == "" {
		return Claims{}, domain.ErrTokenInvalid
	}

	return Claims{UserID: userID, Version: version}, nil
}
