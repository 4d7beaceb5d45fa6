package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/doccluster/auth-service/internal/domain"
	"github.com/doccluster/auth-service/internal/token"
	"github.com/doccluster/auth-service/internal/usecase"
	"github.com/gin-gonic/gin"
)

// otpUsecaser and credentialUsecaser are the subsets of the usecases the
// handler needs. Defined here (point of use) so tests can inject fakes.
type otpUsecaser interface {
	SendOtp(ctx context.Context, email string, flow domain.FlowType) error
	VerifyOtp(ctx context.Context, email, code string, flow domain.FlowType) (*domain.User, token.Pair, error)
	ResendOtp(ctx context.Context, email string) error
}

type credentialUsecaser interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, identifier, password string) (*domain.User, token.Pair, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	Refresh(ctx context.Context, refreshToken string) (token.Pair, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
}

type AuthHandler struct {
	otp    otpUsecaser
	creds  credentialUsecaser
	logger *slog.Logger
}

func NewAuthHandler(otp otpUsecaser, creds credentialUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		otp:    otp,
		creds:  creds,
		logger: logger.With("component", "auth_handler"),
	}
}

type registerRequest struct {
	FullName    string     `json:"fullName"    binding:"required"`
	Email       string     `json:"email"       binding:"required,email"`
	Username    string     `json:"username"    binding:"required,min=3,max=32"`
	PhoneNumber string     `json:"phoneNumber" binding:"omitempty,len=10,numeric"`
	DOB         *time.Time `json:"dob"         binding:"omitempty"`
	Password    string     `json:"password"    binding:"required,min=8"`
}

type loginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password"   binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type sendOtpRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type verifyOtpRequest struct {
	Email string `json:"email" binding:"required,email"`
	Otp   string `json:"otp"   binding:"required,len=4,numeric"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

type authData struct {
	User   domain.PublicUser `json:"user"`
	Tokens token.Pair        `json:"tokens"`
}

// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	user, err := h.creds.Register(c.Request.Context(), usecase.RegisterInput{
		FullName:    req.FullName,
		Email:       req.Email,
		Username:    req.Username,
		PhoneNumber: req.PhoneNumber,
		DOB:         req.DOB,
		Password:    req.Password,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondOK(c, http.StatusCreated, "Registered successfully", gin.H{"user": user.Public()})
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	user, pair, err := h.creds.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondOK(c, http.StatusOK, "Logged in successfully", authData{User: user.Public(), Tokens: pair})
}

// POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	pair, err := h.creds.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondOK(c, http.StatusOK, "Token refreshed", gin.H{"tokens": pair})
}

// POST /auth/otp/register and /auth/otp/login
func (h *AuthHandler) SendRegisterOtp(c *gin.Context) { h.sendOtp(c, domain.FlowRegister) }
func (h *AuthHandler) SendLoginOtp(c *gin.Context)    { h.sendOtp(c, domain.FlowLogin) }

func (h *AuthHandler) sendOtp(c *gin.Context, flow domain.FlowType) {
	var req sendOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	if err := h.otp.SendOtp(c.Request.Context(), req.Email, flow); err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondOK(c, http.StatusOK, "OTP sent to your email", nil)
}

// POST /auth/otp/register/verify and /auth/otp/login/verify
func (h *AuthHandler) VerifyRegisterOtp(c *gin.Context) { h.verifyOtp(c, domain.FlowRegister) }
func (h *AuthHandler) VerifyLoginOtp(c *gin.Context)    { h.verifyOtp(c, domain.FlowLogin) }

func (h *AuthHandler) verifyOtp(c *gin.Context, flow domain.FlowType) {
	var req verifyOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	user, pair, err := h.otp.VerifyOtp(c.Request.Context(), req.Email, req.Otp, flow)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	message := "Logged in successfully"
	if flow == domain.FlowRegister {
		message = "Email verified successfully"
	}
	respondOK(c, http.StatusOK, message, authData{User: user.Public(), Tokens: pair})
}

// POST /auth/otp/resend
func (h *AuthHandler) ResendOtp(c *gin.Context) {
	var req sendOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	if err := h.otp.ResendOtp(c.Request.Context(), req.Email); err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondOK(c, http.StatusOK, "OTP sent to your email", nil)
}

// POST /auth/password (protected)
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	userID := c.GetString("userID")
	if err := h.creds.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondOK(c, http.StatusOK, "Password changed successfully", nil)
}

// GET /auth/me (protected)
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.creds.Profile(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondOK(c, http.StatusOK, "OK", gin.H{"user": user.Public()})
}
