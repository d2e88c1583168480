package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"codedrill/internal/handlers"
	"codedrill/internal/middleware"
	"codedrill/internal/services"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	authService services.AuthService,
	cookieName string,
) *gin.Engine {

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	user := r.Group("/api/v1/user")

	// ---- public
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)
	user.GET("/verify-email/:token", authHandler.VerifyEmail)
	user.POST("/resend-verification", authHandler.ResendVerification)
	user.POST("/forgot-password", authHandler.ForgotPassword)
	user.POST("/reset-password/:token", authHandler.ResetPassword)

	// ---- protected
	authed := user.Group("")
	authed.Use(middleware.AuthMiddleware(authService, cookieName))
	{
		authed.GET("/me", authHandler.GetCurrentUser)
		authed.POST("/logout", authHandler.Logout)
	}

	return r
}
