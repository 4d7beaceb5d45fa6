package httptransport

import (
	"log/slog"

	"github.com/doccluster/auth-service/internal/repository"
	"github.com/doccluster/auth-service/internal/token"
	"github.com/doccluster/auth-service/internal/transport/http/handler"
	"github.com/doccluster/auth-service/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(logger *slog.Logger, authHandler *handler.AuthHandler, tokens *token.Issuer, users repository.UserRepository) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	auth := r.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	otp := auth.Group("/otp")
	otp.POST("/register", authHandler.SendRegisterOtp)
	otp.POST("/register/verify", authHandler.VerifyRegisterOtp)
	otp.POST("/login", authHandler.SendLoginOtp)
	otp.POST("/login/verify", authHandler.VerifyLoginOtp)
	otp.POST("/resend", authHandler.ResendOtp)

	// Protected routes
	guard := middleware.Auth(tokens, users, logger)
	auth.GET("/me", guard, authHandler.Me)
	auth.POST("/password", guard, authHandler.ChangePassword)

	return r
}
