package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/loopify/deal-service/internal/platform/logger"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

type noopLogger struct{}

func (l *noopLogger) Debug(args ...interface{})                   {}
func (l *noopLogger) Debugf(template string, args ...interface{}) {}
func (l *noopLogger) Info(args ...interface{})                    {}
func (l *noopLogger) Infof(template string, args ...interface{})  {}
func (l *noopLogger) Warn(args ...interface{})                    {}
func (l *noopLogger) Warnf(template string, args ...interface{})  {}
func (l *noopLogger) Error(args ...interface{})                   {}
func (l *noopLogger) Errorf(template string, args ...interface{}) {}
func (l *noopLogger) Fatal(args ...interface{})                   {}
func (l *noopLogger) Fatalf(template string, args ...interface{}) {}
func (l *noopLogger) With(args ...interface{}) logger.Logger      { return l }

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func protectedHandler(t *testing.T, wantUserID, wantRole string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		assert.True(t, ok)
		assert.Equal(t, wantUserID, userID)

		role, _ := RoleFromContext(r.Context())
		assert.Equal(t, wantRole, role)

		w.WriteHeader(http.StatusOK)
	})
}

func TestJWTAuth_ValidToken(t *testing.T) {
	token := signToken(t, testSecret, Claims{
		UserID: "user1",
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders/buying", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	JWTAuth(testSecret, &noopLogger{})(protectedHandler(t, "user1", "admin")).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders/buying", nil)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	JWTAuth(testSecret, &noopLogger{})(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestJWTAuth_MalformedHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders/buying", nil)
	req.Header.Set("Authorization", "Token abc")

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	JWTAuth(testSecret, &noopLogger{})(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	token := signToken(t, "other-secret", Claims{
		UserID: "user1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders/buying", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	JWTAuth(testSecret, &noopLogger{})(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, Claims{
		UserID: "user1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders/buying", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	JWTAuth(testSecret, &noopLogger{})(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "expired")
	assert.False(t, called)
}

func TestJWTAuth_TokenWithoutUserID(t *testing.T) {
	token := signToken(t, testSecret, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders/buying", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	JWTAuth(testSecret, &noopLogger{})(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}
