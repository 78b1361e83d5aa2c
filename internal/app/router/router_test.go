package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"regexp"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"auth_backend/internal/app/di"
	"auth_backend/internal/platform/config"
	"auth_backend/internal/platform/db"
	jwtmw "auth_backend/internal/platform/jwt"
	"auth_backend/internal/platform/mail"
)

const (
	testSecret = "router-test-secret"
	testOrigin = "https://app.example.com"
)

var verifyLink = regexp.MustCompile(`/verify-email/([0-9]{6})\?email=`)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// setupServer wires the full stack on an in-memory SQLite database.
func setupServer(t *testing.T) (*gin.Engine, *mail.MemorySender) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Migrate(gdb))

	cfg := &config.Config{
		JWTSecret:      testSecret,
		AllowedOrigins: []string{testOrigin},
		AppURL:         "https://api.example.com",
	}
	sender := mail.NewMemorySender()
	auth := di.NewAuth(cfg, gdb, nil, sender)

	r := NewRouter(Deps{
		Auth:           auth.Handler,
		Users:          auth.Users,
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.AllowedOrigins,
		Pingers:        di.NewReadinessPingers(gdb, nil),
	})
	return r, sender
}

func call(t *testing.T, r *gin.Engine, method, path string, body any, header http.Header) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var res map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res), w.Body.String())
	}
	return w.Code, res
}

func lastCode(t *testing.T, sender *mail.MemorySender) string {
	t.Helper()

	emails := sender.Emails()
	require.NotEmpty(t, emails, "no email was sent")
	m := verifyLink.FindStringSubmatch(emails[len(emails)-1].Body)
	require.Len(t, m, 2, "verification link not found in email body")
	return m[1]
}

func TestRouter_RegisterVerifyLoginScenario(t *testing.T) {
	r, sender := setupServer(t)
	const base = APIPrefix + "/auth"

	// register
	status, res := call(t, r, http.MethodPost, base+"/register", gin.H{
		"fullname": "A B", "email": "a@x.com", "password": "secret123",
	}, nil)
	require.Equal(t, http.StatusCreated, status, res)
	assert.Equal(t, false, res["user"].(map[string]any)["isVerified"])

	emails := sender.Emails()
	require.Len(t, emails, 1)
	assert.Equal(t, "a@x.com", emails[0].To)
	assert.Equal(t, "Verify Your Email Address", emails[0].Subject)
	assert.Contains(t, emails[0].Body, "https://api.example.com/verify-email/")
	code := lastCode(t, sender)

	// duplicate registration
	status, res = call(t, r, http.MethodPost, base+"/register", gin.H{
		"fullname": "A B", "email": "A@X.com", "password": "secret123",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "DuplicateEmail", res["code"])

	// login before verification
	status, res = call(t, r, http.MethodPost, base+"/login", gin.H{"email": "a@x.com", "password": "secret123"}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "EmailNotVerified", res["code"])
	assert.Equal(t, "resend_verification", res["action"])

	// verify
	status, res = call(t, r, http.MethodGet, base+"/verify-email/"+code+"?email=a%40x.com", nil, nil)
	require.Equal(t, http.StatusOK, status, res)
	assert.Equal(t, true, res["user"].(map[string]any)["isVerified"])

	// the code is single use
	status, res = call(t, r, http.MethodGet, base+"/verify-email/"+code+"?email=a%40x.com", nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "InvalidToken", res["code"])

	// login
	status, res = call(t, r, http.MethodPost, base+"/login", gin.H{"email": "a@x.com", "password": "secret123"}, nil)
	require.Equal(t, http.StatusOK, status, res)
	token, _ := res["token"].(string)
	require.NotEmpty(t, token)

	claims, err := jwtmw.Parse(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
	userID := uint(res["user"].(map[string]any)["id"].(float64))
	assert.Equal(t, userID, claims.UserID)

	// wrong password
	status, res = call(t, r, http.MethodPost, base+"/login", gin.H{"email": "a@x.com", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "InvalidCredentials", res["code"])

	// resend for a verified account
	status, res = call(t, r, http.MethodPost, base+"/resend-verification", gin.H{"email": "a@x.com"}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "AlreadyVerified", res["code"])

	// profile
	status, res = call(t, r, http.MethodGet, base+"/profile", nil, http.Header{"Authorization": {"Bearer " + token}})
	require.Equal(t, http.StatusOK, status, res)
	assert.Equal(t, "A B", res["user"].(map[string]any)["fullname"])

	status, _ = call(t, r, http.MethodGet, base+"/profile", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	// logout
	status, res = call(t, r, http.MethodPost, base+"/logout", nil, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Logout successful.", res["message"])
}

func TestRouter_ResendSupersedesPreviousCode(t *testing.T) {
	r, sender := setupServer(t)
	const base = APIPrefix + "/auth"

	status, _ := call(t, r, http.MethodPost, base+"/register", gin.H{
		"fullname": "C D", "email": "c@x.com", "password": "secret123",
	}, nil)
	require.Equal(t, http.StatusCreated, status)
	first := lastCode(t, sender)

	second := first
	for second == first {
		status, _ = call(t, r, http.MethodPost, base+"/resend-verification", gin.H{"email": "c@x.com"}, nil)
		require.Equal(t, http.StatusOK, status)
		second = lastCode(t, sender)
	}

	status, res := call(t, r, http.MethodGet, base+"/verify-email/"+first+"?email=c%40x.com", nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "InvalidToken", res["code"])

	status, _ = call(t, r, http.MethodGet, base+"/verify-email/"+second+"?email=c%40x.com", nil, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestRouter_HealthAndCORS(t *testing.T) {
	r, _ := setupServer(t)

	status, res := call(t, r, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", res["status"])

	status, res = call(t, r, http.MethodGet, "/readyz", nil, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", res["checks"].(map[string]any)["database"])

	t.Run("allowed origin preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, APIPrefix+"/auth/login", nil)
		req.Header.Set("Origin", testOrigin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, testOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("unknown origin is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, APIPrefix+"/auth/login", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}
