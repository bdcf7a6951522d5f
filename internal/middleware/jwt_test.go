package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawsched/pawsched-api/internal/models"
	"github.com/pawsched/pawsched-api/pkg/config"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims models.JWTClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims(role models.UserRole) models.JWTClaims {
	return models.JWTClaims{
		UserID: "user-1",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "pawsched",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func protectedRouter(roles ...models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	verifier := NewTokenVerifier(config.JWTConfig{Secret: testSecret, Issuer: "pawsched"})
	r.GET("/p", JWT(verifier), RequireRoles(roles...), func(c *gin.Context) {
		claims := c.MustGet(ContextUserKey).(*models.JWTClaims)
		c.String(http.StatusOK, claims.UserID)
	})
	return r
}

func doRequest(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAcceptsValidToken(t *testing.T) {
	r := protectedRouter(models.RoleOwner)
	w := doRequest(r, "Bearer "+signToken(t, testSecret, validClaims(models.RoleOwner)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", w.Body.String())
}

func TestJWTRejections(t *testing.T) {
	expired := validClaims(models.RoleOwner)
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	wrongIssuer := validClaims(models.RoleOwner)
	wrongIssuer.Issuer = "elsewhere"

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "bad signature", header: "Bearer " + signToken(t, "other", validClaims(models.RoleOwner)), status: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + signToken(t, testSecret, expired), status: http.StatusUnauthorized},
		{name: "wrong issuer", header: "Bearer " + signToken(t, testSecret, wrongIssuer), status: http.StatusUnauthorized},
		{name: "unknown role", header: "Bearer " + signToken(t, testSecret, validClaims("ADMIN")), status: http.StatusForbidden},
		{name: "role not allowed", header: "Bearer " + signToken(t, testSecret, validClaims(models.RoleProvider)), status: http.StatusForbidden},
	}

	r := protectedRouter(models.RoleOwner)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(r, tc.header)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}
