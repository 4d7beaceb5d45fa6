package handler

const (
	errInternalServer    = "Something went wrong"
	errUserNotFound      = "User not found"
	errConflict          = "Email or username already registered"
	errInvalidCode       = "Invalid OTP"
	errAlreadyVerified   = "User already verified"
	errNotVerified       = "User not verified. Please verify your email first."
	errRateLimited       = "OTP requests are limited to one per 30 seconds."
	errInvalidCredential = "Incorrect credentials"
	errTokenExpired      = "Unauthorized - Token expired"
	errTokenInvalid      = "Unauthorized - Invalid token"
	errUnauthorized      = "Unauthorized"
	errServerConfig      = "Server configuration error"
)
