package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/domain/policy"
	"storefront/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// UserRepository モック
// =====================

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

// =====================
// helper
// =====================

const testSecret = "test-secret"

func mustMakeJWT(t *testing.T, secret string, claims jwt.MapClaims, method jwt.SigningMethod) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}
	return s
}

func validClaims(role string) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":  "123",
		"name": "alice",
		"role": role,
		"sid":  "sid-1",
		"iat":  1,
		"exp":  9999999999,
	}
}

func runRequest(t *testing.T, e *echo.Echo, path string, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func okHandler(c echo.Context) error {
	id, _ := IdentityFrom(c)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"user_id":    id.UserID,
		"username":   id.Username,
		"role":       string(id.Role),
		"session_id": id.SessionID,
	})
}

// =====================
// AuthCookie
// =====================

func TestAuthCookie_NoCookie(t *testing.T) {
	e := echo.New()
	e.GET("/p", okHandler, AuthCookie(config.Config{JWTSecret: testSecret}))

	rec := runRequest(t, e, "/p", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthCookie_Rejects(t *testing.T) {
	noSid := validClaims("User")
	delete(noSid, "sid")
	badRole := validClaims("Superuser")
	expired := validClaims("User")
	expired["exp"] = 2

	cases := map[string]string{
		"bad signature": mustMakeJWT(t, "wrong", validClaims("User"), jwt.SigningMethodHS256),
		"wrong alg":     mustMakeJWT(t, testSecret, validClaims("User"), jwt.SigningMethodHS512),
		"no sid":        mustMakeJWT(t, testSecret, noSid, jwt.SigningMethodHS256),
		"bad role":      mustMakeJWT(t, testSecret, badRole, jwt.SigningMethodHS256),
		"expired":       mustMakeJWT(t, testSecret, expired, jwt.SigningMethodHS256),
		"garbage":       "abc.def.ghi",
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			e.GET("/p", okHandler, AuthCookie(config.Config{JWTSecret: testSecret}))
			rec := runRequest(t, e, "/p", tok)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuthCookie_Success_SetsIdentity(t *testing.T) {
	e := echo.New()
	e.GET("/p", okHandler, AuthCookie(config.Config{JWTSecret: testSecret}))

	// ロールは大文字小文字を問わない
	rec := runRequest(t, e, "/p", mustMakeJWT(t, testSecret, validClaims(" admin "), jwt.SigningMethodHS256))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	_ = json.NewDecoder(rec.Body).Decode(&body)
	assert.Equal(t, float64(123), body["user_id"])
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, "Admin", body["role"])
	assert.Equal(t, "sid-1", body["session_id"])
}

// =====================
// RequireCapability
// =====================

func TestRequireCapability(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}
	e := echo.New()
	e.GET("/cart", okHandler, AuthCookie(cfg), RequireCapability(policy.OpUseCart))
	e.GET("/admin", okHandler, AuthCookie(cfg), RequireCapability(policy.OpManageOrders))

	user := mustMakeJWT(t, testSecret, validClaims("User"), jwt.SigningMethodHS256)
	adm := mustMakeJWT(t, testSecret, validClaims("Admin"), jwt.SigningMethodHS256)

	assert.Equal(t, http.StatusOK, runRequest(t, e, "/cart", user).Code)
	assert.Equal(t, http.StatusForbidden, runRequest(t, e, "/cart", adm).Code)
	assert.Equal(t, http.StatusForbidden, runRequest(t, e, "/admin", user).Code)
	assert.Equal(t, http.StatusOK, runRequest(t, e, "/admin", adm).Code)
}

func TestRequireCapability_NoIdentity(t *testing.T) {
	e := echo.New()
	e.GET("/p", okHandler, RequireCapability(policy.OpBrowseProducts))

	assert.Equal(t, http.StatusUnauthorized, runRequest(t, e, "/p", "").Code)
}

// =====================
// AccountGuard
// =====================

func TestAccountGuard(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}
	tok := mustMakeJWT(t, testSecret, validClaims("Admin"), jwt.SigningMethodHS256)

	t.Run("ok", func(t *testing.T) {
		users := new(MockUserRepo)
		users.On("FindByID", mock.Anything, int64(123)).Return(&model.User{ID: 123, Username: "alice", Role: model.RoleAdmin}, nil)
		e := echo.New()
		e.GET("/p", okHandler, AuthCookie(cfg), AccountGuard(users))
		assert.Equal(t, http.StatusOK, runRequest(t, e, "/p", tok).Code)
	})

	t.Run("role changed", func(t *testing.T) {
		users := new(MockUserRepo)
		users.On("FindByID", mock.Anything, int64(123)).Return(&model.User{ID: 123, Username: "alice", Role: model.RoleUser}, nil)
		e := echo.New()
		e.GET("/p", okHandler, AuthCookie(cfg), AccountGuard(users))
		assert.Equal(t, http.StatusUnauthorized, runRequest(t, e, "/p", tok).Code)
	})

	t.Run("deleted", func(t *testing.T) {
		users := new(MockUserRepo)
		users.On("FindByID", mock.Anything, int64(123)).Return(nil, repository.ErrNotFound)
		e := echo.New()
		e.GET("/p", okHandler, AuthCookie(cfg), AccountGuard(users))
		assert.Equal(t, http.StatusUnauthorized, runRequest(t, e, "/p", tok).Code)
	})

	t.Run("db down", func(t *testing.T) {
		users := new(MockUserRepo)
		users.On("FindByID", mock.Anything, int64(123)).Return(nil, fmt.Errorf("%w: conn refused", repository.ErrUnavailable))
		e := echo.New()
		e.GET("/p", okHandler, AuthCookie(cfg), AccountGuard(users))
		rec := runRequest(t, e, "/p", tok)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"error":"service temporarily unavailable"}`, rec.Body.String())
	})
}

// =====================
// RequestLogger
// =====================

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(zerolog.New(&buf)))
	e.GET("/p", func(c echo.Context) error { return c.NoContent(http.StatusTeapot) })

	runRequest(t, e, "/p", "")

	var line map[string]interface{}
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "GET", line["method"])
	assert.Equal(t, "/p", line["path"])
	assert.Equal(t, float64(http.StatusTeapot), line["status"])
}
