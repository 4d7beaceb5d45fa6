package domain

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrConflict          = errors.New("email or username already registered")
	ErrInvalidCode       = errors.New("invalid or expired code")
	ErrAlreadyVerified   = errors.New("user already verified")
	ErrNotVerified       = errors.New("user not verified")
	ErrRateLimited       = errors.New("code requests are limited to one per cooldown window")
	ErrInvalidCredential = errors.New("incorrect credentials")
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenInvalid      = errors.New("token is invalid")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrServerConfig      = errors.New("server configuration error")
)
