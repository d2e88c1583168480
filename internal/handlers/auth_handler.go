package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"codedrill/internal/config"
	"codedrill/internal/models"
	"codedrill/internal/services"
)

type AuthHandler struct {
	users  services.UserService
	cookie config.AuthConfig
}

func NewAuthHandler(users services.UserService, cookie config.AuthConfig) *AuthHandler {
	return &AuthHandler{users: users, cookie: cookie}
}

// @Summary      Register a new account
// @Description  Creates an unverified user and sends a verification email
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        register  body      models.RegisterRequest  true  "Registration data"
// @Success      201       {object}  handlers.Response
// @Failure      400       {object}  services.APIError
// @Failure      409       {object}  services.APIError
// @Failure      500       {object}  services.APIError
// @Router       /api/v1/user/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.users.Register(req.Email, req.Name, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"user": user.Public()}, "Verification Mail Sent")
}

// @Summary      Verify email address
// @Tags         Auth
// @Produce      json
// @Param        token  path      string  true  "Raw verification token from the email"
// @Success      200    {object}  handlers.Response
// @Failure      401    {object}  services.APIError
// @Router       /api/v1/user/verify-email/{token} [get]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	user, err := h.users.VerifyEmail(c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"user": user.Public()}, "Account Verified")
}

// @Summary      Resend the verification email
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        resend  body      models.ResendVerificationRequest  true  "Account email"
// @Success      200     {object}  handlers.Response
// @Failure      401     {object}  services.APIError
// @Router       /api/v1/user/resend-verification [post]
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req models.ResendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.users.ResendVerification(req.Email); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{}, "Verification mail sent")
}

// @Summary      Log in
// @Description  Checks credentials and sets the session cookie
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Credentials"
// @Success      200    {object}  handlers.Response
// @Failure      401    {object}  services.APIError
// @Router       /api/v1/user/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, token, err := h.users.Login(req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.setSessionCookie(c, token)
	respond(c, http.StatusOK, gin.H{"user": user.Public()}, "Logged in successfully")
}

// @Summary      Request a password reset
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        forgot  body      models.ForgotPasswordRequest  true  "Account email"
// @Success      200     {object}  handlers.Response
// @Failure      400     {object}  services.APIError
// @Router       /api/v1/user/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.users.ForgotPassword(req.Email); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{}, "Forgot password link send")
}

// @Summary      Reset the password
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        token  path      string                       true  "Raw reset token from the email"
// @Param        reset  body      models.ResetPasswordRequest  true  "New password"
// @Success      200    {object}  handlers.Response
// @Failure      404    {object}  services.APIError
// @Router       /api/v1/user/reset-password/{token} [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.users.ResetPassword(c.Param("token"), req.Password); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{}, "Password updated")
}

// @Summary      Current user
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  handlers.Response
// @Failure      401  {object}  services.APIError
// @Security     SessionCookie
// @Router       /api/v1/user/me [get]
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := getIntFromCtx(c, "user_id")
	if !ok {
		respondError(c, services.ErrUnauthorized("Missing session token"))
		return
	}

	user, err := h.users.GetUserByID(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		respondError(c, services.ErrUnauthorized("Invalid or expired token"))
		return
	}
	respond(c, http.StatusOK, gin.H{"user": user.Public()}, "User loaded")
}

// @Summary      Log out
// @Description  Clears the session cookie. Tokens issued earlier stay valid
// @Description  until their own expiry; there is no server-side session list.
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  handlers.Response
// @Security     SessionCookie
// @Router       /api/v1/user/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearSessionCookie(c)
	if userID, ok := getIntFromCtx(c, "user_id"); ok {
		log.Printf("[auth][logout] userID=%d", userID)
	}
	respond(c, http.StatusOK, gin.H{}, "Logged out successfully")
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, token, int(h.cookie.SessionTTL.Std().Seconds()), "/", h.cookie.CookieDomain, h.cookie.CookieSecure, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, "", -1, "/", h.cookie.CookieDomain, h.cookie.CookieSecure, true)
}
