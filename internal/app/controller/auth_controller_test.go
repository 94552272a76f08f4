package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/authgate-backend/config"
	"github.com/ikkim/authgate-backend/internal/app/repository"
	"github.com/ikkim/authgate-backend/internal/app/service"
	"github.com/ikkim/authgate-backend/internal/db"
	"github.com/ikkim/authgate-backend/internal/middleware"
	"github.com/ikkim/authgate-backend/pkg/mailer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const controllerTestSecret = "test-secret-key-for-jwt-testing"

type controllerTestEnv struct {
	db       *gorm.DB
	router   *gin.Engine
	userRepo repository.UserRepository
}

func setupControllerTest(t *testing.T) *controllerTestEnv {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	blacklist := service.NewDBBlacklist(repository.NewRevokedTokenRepository(testDB))
	tokens := service.NewTokenService(blacklist, controllerTestSecret, 24*time.Hour)
	mail := mailer.New(config.SMTPConfig{})

	authService := service.NewAuthService(userRepo, tokens, mail)
	resetService := service.NewPasswordResetService(userRepo, mail, 6*time.Hour)

	ctrl := NewAuthController(authService, resetService)
	authMW := middleware.NewAuthMiddleware(tokens)

	router := gin.New()
	auth := router.Group("/auth")
	{
		auth.POST("/register", ctrl.Register)
		auth.POST("/login", ctrl.Login)
		auth.DELETE("/logout", ctrl.Logout)
		auth.POST("/forgot-password", ctrl.ForgotPassword)
		auth.PUT("/reset-password", ctrl.ResetPassword)
		auth.GET("/me", authMW.Authenticate(), ctrl.GetMe)
	}

	return &controllerTestEnv{db: testDB, router: router, userRepo: userRepo}
}

func (e *controllerTestEnv) request(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *controllerTestEnv) registerUser(t *testing.T, email, password string) string {
	w := e.request(http.MethodPost, "/auth/register", gin.H{
		"email":                 email,
		"password":              password,
		"password_confirmation": password,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRegisterEndpoint(t *testing.T) {
	env := setupControllerTest(t)
	defer db.CleanupTestDB(env.db)

	w := env.request(http.MethodPost, "/auth/register", gin.H{
		"email":                 "new@example.com",
		"password":              "longpassword1",
		"password_confirmation": "longpassword1",
	}, "")

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["token"])

	user := resp["user"].(map[string]interface{})
	assert.Equal(t, "new@example.com", user["email"])
	assert.NotContains(t, user, "password_hash")
	assert.NotContains(t, user, "reset_token")
}

func TestRegisterEndpoint_Failures(t *testing.T) {
	env := setupControllerTest(t)
	defer db.CleanupTestDB(env.db)

	env.registerUser(t, "taken@example.com", "longpassword1")

	tests := []struct {
		name     string
		body     gin.H
		wantCode string
	}{
		{
			"missing email",
			gin.H{"password": "longpassword1", "password_confirmation": "longpassword1"},
			"VALIDATION_INVALID_INPUT",
		},
		{
			"invalid email format",
			gin.H{"email": "not-an-email", "password": "longpassword1", "password_confirmation": "longpassword1"},
			"VALIDATION_INVALID_INPUT",
		},
		{
			"short password",
			gin.H{"email": "a@example.com", "password": "seven77", "password_confirmation": "seven77"},
			"VALIDATION_INVALID_INPUT",
		},
		{
			"confirmation mismatch",
			gin.H{"email": "b@example.com", "password": "longpassword1", "password_confirmation": "different1234"},
			"VALIDATION_PASSWORD_MISMATCH",
		},
		{
			"duplicate email",
			gin.H{"email": "taken@example.com", "password": "longpassword1", "password_confirmation": "longpassword1"},
			"AUTH_EMAIL_EXISTS",
		},
		{
			"duplicate email different casing",
			gin.H{"email": "TAKEN@example.com", "password": "longpassword1", "password_confirmation": "longpassword1"},
			"AUTH_EMAIL_EXISTS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.request(http.MethodPost, "/auth/register", tt.body, "")
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
		})
	}
}

func TestLoginEndpoint(t *testing.T) {
	env := setupControllerTest(t)
	defer db.CleanupTestDB(env.db)

	env.registerUser(t, "login@example.com", "longpassword1")

	w := env.request(http.MethodPost, "/auth/login", gin.H{
		"email":    "login@example.com",
		"password": "longpassword1",
	}, "")

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["token"])
}

func TestLoginEndpoint_Failures(t *testing.T) {
	env := setupControllerTest(t)
	defer db.CleanupTestDB(env.db)

	env.registerUser(t, "victim@example.com", "longpassword1")

	tests := []struct {
		name string
		body gin.H
	}{
		{"wrong password", gin.H{"email": "victim@example.com", "password": "wrongpassword"}},
		{"unknown email", gin.H{"email": "nobody@example.com", "password": "longpassword1"}},
		{"missing password", gin.H{"email": "victim@example.com"}},
	}

	// Every failure looks the same to the client
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.request(http.MethodPost, "/auth/login", tt.body, "")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "AUTH_INVALID_CREDENTIALS")
			assert.Contains(t, w.Body.String(), "Invalid email or password")
		})
	}
}

func TestLogoutEndpoint(t *testing.T) {
	env := setupControllerTest(t)
	defer db.CleanupTestDB(env.db)

	token := env.registerUser(t, "out@example.com", "longpassword1")

	w := env.request(http.MethodDelete, "/auth/logout", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Logged out successfully")

	// Logout again with the same token still succeeds
	w = env.request(http.MethodDelete, "/auth/logout", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogoutEndpoint_Failures(t *testing.T) {
	env := setupControllerTest(t)
	defer db.CleanupTestDB(env.db)

	w := env.request(http.MethodDelete, "/auth/logout", nil, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_REQUIRED")

	w = env.request(http.MethodDelete, "/auth/logout", nil, "garbage-token")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_TOKEN_INVALID")
}

func TestForgotPasswordEndpoint(t *testing.T) {
	env := setupControllerTest(t)
	defer db.CleanupTestDB(env.db)

	env.registerUser(t, "forgot@example.com", "longpassword1")

	known := env.request(http.MethodPost, "/auth/forgot-password", gin.H{"email": "forgot@example.com"}, "")
	unknown := env.request(http.MethodPost, "/auth/forgot-password", gin.H{"email": "ghost@example.com"}, "")

	// Existing and unknown accounts get byte-identical responses
	assert.Equal(t, http.StatusOK, known.Code)
	assert.Equal(t, http.StatusOK, unknown.Code)
	assert.Equal(t, known.Body.String(), unknown.Body.String())
}

func TestForgotPasswordEndpoint_InvalidEmail(t *testing.T) {
	env := setupControllerTest(t)
	defer db.CleanupTestDB(env.db)

	w := env.request(http.MethodPost, "/auth/forgot-password", gin.H{"email": "not-an-email"}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestResetPasswordEndpoint(t *testing.T) {
	env := setupControllerTest(t)
	defer db.CleanupTestDB(env.db)

	env.registerUser(t, "reset@example.com", "longpassword1")
	w := env.request(http.MethodPost, "/auth/forgot-password", gin.H{"email": "reset@example.com"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	user, err := env.userRepo.FindByEmail("reset@example.com")
	require.NoError(t, err)
	require.NotNil(t, user.ResetToken)
	token := *user.ResetToken

	w = env.request(http.MethodPut, "/auth/reset-password", gin.H{
		"token":    token,
		"password": "brandnewpassword",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	// Token is single-use
	w = env.request(http.MethodPut, "/auth/reset-password", gin.H{
		"token":    token,
		"password": "anotherpassword1",
	}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_RESET_TOKEN_INVALID")

	// New password works for login
	w = env.request(http.MethodPost, "/auth/login", gin.H{
		"email":    "reset@example.com",
		"password": "brandnewpassword",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestResetPasswordEndpoint_Failures(t *testing.T) {
	env := setupControllerTest(t)
	defer db.CleanupTestDB(env.db)

	tests := []struct {
		name     string
		body     gin.H
		wantCode string
	}{
		{"unknown token", gin.H{"token": "no-such-token", "password": "brandnewpassword"}, "AUTH_RESET_TOKEN_INVALID"},
		{"missing token", gin.H{"password": "brandnewpassword"}, "VALIDATION_INVALID_INPUT"},
		{"short password", gin.H{"token": "whatever", "password": "seven77"}, "VALIDATION_INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.request(http.MethodPut, "/auth/reset-password", tt.body, "")
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
		})
	}
}

func TestGetMeEndpoint(t *testing.T) {
	env := setupControllerTest(t)
	defer db.CleanupTestDB(env.db)

	token := env.registerUser(t, "me@example.com", "longpassword1")

	w := env.request(http.MethodGet, "/auth/me", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "me@example.com")

	w = env.request(http.MethodGet, "/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
