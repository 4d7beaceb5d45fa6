package repository

import "context"

// Store groups the entity repositories and exposes the atomic multi-step
// transaction primitive. Inside WithTx the callback receives a Store whose
// repositories run against the open transaction; returning an error rolls
// everything back.
type Store interface {
	Users() UserRepository
	Otps() OtpRepository
	WithTx(ctx context.Context, fn func(tx Store) error) error
}
