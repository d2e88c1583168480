package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codedrill/internal/config"
	"codedrill/internal/middleware"
	"codedrill/internal/models"
	"codedrill/internal/services"
)

// stubUserService returns canned results so handler tests never touch storage
// or mail.
type stubUserService struct {
	user     *models.User
	token    string
	err      error
	resetErr error
}

func (s *stubUserService) Register(email, name, password string) (*models.User, error) {
	return s.user, s.err
}
func (s *stubUserService) VerifyEmail(rawToken string) (*models.User, error) {
	return s.user, s.err
}
func (s *stubUserService) ResendVerification(email string) error { return s.err }
func (s *stubUserService) Login(email, password string) (*models.User, string, error) {
	if s.err != nil {
		return nil, "", s.err
	}
	return s.user, s.token, nil
}
func (s *stubUserService) ForgotPassword(email string) error { return s.err }
func (s *stubUserService) ResetPassword(rawToken, newPassword string) error {
	return s.resetErr
}
func (s *stubUserService) GetUserByID(id int) (*models.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, nil
}

func testCookieConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:  "test-secret",
		SessionTTL: config.Duration(7 * 24 * time.Hour),
		CookieName: "access_token",
	}
}

func newTestRouter(users services.UserService, auth services.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAuthHandler(users, testCookieConfig())

	user := r.Group("/api/v1/user")
	user.POST("/register", h.Register)
	user.POST("/login", h.Login)
	user.GET("/verify-email/:token", h.VerifyEmail)
	user.POST("/reset-password/:token", h.ResetPassword)

	authed := user.Group("")
	authed.Use(middleware.AuthMiddleware(auth, "access_token"))
	authed.GET("/me", h.GetCurrentUser)
	authed.POST("/logout", h.Logout)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginSetsSessionCookie(t *testing.T) {
	auth := services.NewAuthService("test-secret", time.Hour, 4)
	stub := &stubUserService{
		user:  &models.User{ID: 1, Email: "a@x.com", Name: "Alice", Role: models.RoleUser},
		token: "signed-token",
	}
	r := newTestRouter(stub, auth)

	w := doJSON(t, r, http.MethodPost, "/api/v1/user/login", `{"email":"a@x.com","password":"pw1"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	setCookie := w.Header().Get("Set-Cookie")
	assert.Contains(t, setCookie, "access_token=signed-token")
	assert.Contains(t, setCookie, "HttpOnly")
	assert.Contains(t, setCookie, "SameSite=Lax")

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "Logged in successfully", resp.Message)
	assert.NotContains(t, w.Body.String(), "password_hash")
}

func TestLoginInvalidCredentialsEnvelope(t *testing.T) {
	auth := services.NewAuthService("test-secret", time.Hour, 4)
	stub := &stubUserService{err: services.ErrUnauthorized("Invalid credentials")}
	r := newTestRouter(stub, auth)

	w := doJSON(t, r, http.MethodPost, "/api/v1/user/login", `{"email":"a@x.com","password":"bad"}`, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Header().Get("Set-Cookie"), "no cookie on failed login")

	var apiErr services.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
}

func TestLoginRejectsMalformedBody(t *testing.T) {
	auth := services.NewAuthService("test-secret", time.Hour, 4)
	r := newTestRouter(&stubUserService{}, auth)

	w := doJSON(t, r, http.MethodPost, "/api/v1/user/login", `{"email":"not-an-email"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterCreated(t *testing.T) {
	auth := services.NewAuthService("test-secret", time.Hour, 4)
	stub := &stubUserService{
		user: &models.User{ID: 7, Email: "a@x.com", Name: "Alice", Role: models.RoleUser},
	}
	r := newTestRouter(stub, auth)

	w := doJSON(t, r, http.MethodPost, "/api/v1/user/register",
		`{"email":"a@x.com","name":"Alice","password":"pw1234"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Verification Mail Sent", resp.Message)
}

func TestVerifyEmailExpired(t *testing.T) {
	auth := services.NewAuthService("test-secret", time.Hour, 4)
	stub := &stubUserService{err: services.ErrUnauthorized("Not Verified",
		services.FieldError{Field: "token", Message: "Token Expired"})}
	r := newTestRouter(stub, auth)

	w := doJSON(t, r, http.MethodGet, "/api/v1/user/verify-email/deadbeef", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token Expired")
}

func TestResetPasswordExpiredTokenIsNotFound(t *testing.T) {
	auth := services.NewAuthService("test-secret", time.Hour, 4)
	stub := &stubUserService{resetErr: services.ErrNotFound("Access Token Expired")}
	r := newTestRouter(stub, auth)

	w := doJSON(t, r, http.MethodPost, "/api/v1/user/reset-password/deadbeef",
		`{"password":"pw1234"}`, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Access Token Expired")
}

func TestGetCurrentUser(t *testing.T) {
	auth := services.NewAuthService("test-secret", time.Hour, 4)
	stub := &stubUserService{
		user: &models.User{ID: 1, Email: "a@x.com", Name: "Alice", Role: models.RoleUser},
	}
	r := newTestRouter(stub, auth)

	token, err := auth.IssueSessionToken(1)
	require.NoError(t, err)

	// via cookie
	req := httptest.NewRequest(http.MethodGet, "/api/v1/user/me", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"a@x.com"`)

	// via bearer header
	w = doJSON(t, r, http.MethodGet, "/api/v1/user/me", "", map[string]string{
		"Authorization": "Bearer " + token,
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetCurrentUserUnauthenticated(t *testing.T) {
	auth := services.NewAuthService("test-secret", time.Hour, 4)
	r := newTestRouter(&stubUserService{}, auth)

	w := doJSON(t, r, http.MethodGet, "/api/v1/user/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/user/me", "", map[string]string{
		"Authorization": "Bearer garbage",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	auth := services.NewAuthService("test-secret", time.Hour, 4)
	stub := &stubUserService{
		user: &models.User{ID: 1, Email: "a@x.com", Name: "Alice", Role: models.RoleUser},
	}
	r := newTestRouter(stub, auth)

	token, err := auth.IssueSessionToken(1)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/user/logout", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	setCookie := w.Header().Get("Set-Cookie")
	assert.Contains(t, setCookie, "access_token=")
	assert.Contains(t, setCookie, "Max-Age=0", "cookie must be expired")
	assert.Contains(t, w.Body.String(), "Logged out successfully")
}
