package webserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kopihub/kopihub/config"
)

func testConfig() *config.AppConfig {
	cfg := *config.DefaultAppConfig
	cfg.Web.Secret = "test-secret"
	cfg.Web.JwtIssuer = "kopihub-test"
	return &cfg
}

func TestSignTokenRoundTrip(t *testing.T) {
	cfg := testConfig()

	signed, err := SignToken(cfg, 42, "user@gmail.com", "user")
	require.NoError(t, err)

	token, err := jwt.ParseWithClaims(signed, new(JwtClaims), func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.Web.Secret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, okay := token.Claims.(*JwtClaims)
	require.True(t, okay)
	assert.Equal(t, int64(42), claims.UserId)
	assert.Equal(t, "user@gmail.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "kopihub-test", claims.Issuer)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestSignTokenRejectsWrongSecret(t *testing.T) {
	signed, err := SignToken(testConfig(), 42, "user@gmail.com", "user")
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(signed, new(JwtClaims), func(token *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	assert.Error(t, err)
}

func newAuthedContext(t *testing.T, role string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", jwt.NewWithClaims(jwt.SigningMethodHS256, &JwtClaims{
		UserId: 42,
		Email:  "user@gmail.com",
		Role:   role,
	}))
	return c
}

func TestGetClaims(t *testing.T) {
	t.Run("authenticated request", func(t *testing.T) {
		claims := GetClaims(newAuthedContext(t, "user"))
		require.NotNil(t, claims)
		assert.Equal(t, int64(42), claims.UserId)
		assert.Equal(t, "user", claims.Role)
	})

	t.Run("public request has no claims", func(t *testing.T) {
		e := echo.New()
		c := e.NewContext(httptest.NewRequest("GET", "/", nil), httptest.NewRecorder())
		assert.Nil(t, GetClaims(c))
	})
}

func TestRequireRole(t *testing.T) {
	next := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}

	t.Run("matching role passes", func(t *testing.T) {
		c := newAuthedContext(t, "admin")
		err := RequireRole("admin")(next)(c)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, c.Response().Status)
	})

	t.Run("wrong role is forbidden", func(t *testing.T) {
		c := newAuthedContext(t, "user")
		err := RequireRole("admin")(next)(c)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, c.Response().Status)
	})

	t.Run("missing claims are unauthorized", func(t *testing.T) {
		e := echo.New()
		c := e.NewContext(httptest.NewRequest("GET", "/", nil), httptest.NewRecorder())
		err := RequireRole("admin")(next)(c)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, c.Response().Status)
	})
}
