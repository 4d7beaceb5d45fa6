package domain

import "time"

// FlowType discriminates which preconditions and side effects an OTP
// operation applies.
type FlowType string

const (
	FlowRegister FlowType = "register"
	FlowLogin    FlowType = "login"
)

// Otp is a single emailed one-time code. Rows are scoped to an email
// address; at most one unexpired, unconsumed row may exist per email.
type Otp struct {
	ID        string
	Email     string
	Code      string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the code is no longer usable at the given time.
// Expiry is enforced here, at verification time; rows are never swept on a
// deadline.
func (o *Otp) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
