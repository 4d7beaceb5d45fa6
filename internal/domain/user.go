package domain

import "time"

// User is the root identity entity. Email is stored lowercased; email and
// username are globally unique, phone number is unique when present.
type User struct {
	ID          string
	FullName    string
	Email       string
	Username    string
	PhoneNumber string
	DOB         *time.Time

	// PasswordHash is opaque to the core; it is produced and checked by the
	// password package only.
	PasswordHash string

	// IsVerified transitions false -> true exactly once, on the first
	// successful register-flow OTP verification, and never reverts.
	IsVerified bool

	// Version is the session epoch. Every issued token embeds the value it
	// was minted with; changing it invalidates all outstanding tokens.
	Version string

	AvatarURL string
	AvatarID  string
	CoverInfo map[string]any

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PublicUser is the profile view returned to clients. No credential or
// session fields.
type PublicUser struct {
	ID         string         `json:"id"`
	FullName   string         `json:"fullName"`
	Username   string         `json:"username"`
	Email      string         `json:"email"`
	IsVerified bool           `json:"isVerified"`
	AvatarURL  string         `json:"avatarUrl"`
	AvatarID   string         `json:"avatarId"`
	CoverInfo  map[string]any `json:"coverInfo"`
}

// Public returns the client-facing view of u.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		FullName:   u.FullName,
		Username:   u.Username,
		Email:      u.Email,
		IsVerified: u.IsVerified,
		AvatarURL:  u.AvatarURL,
		AvatarID:   u.AvatarID,
		CoverInfo:  u.CoverInfo,
	}
}
