package requestid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(inbound string) (*httptest.ResponseRecorder, string) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	var seen string
	r.GET("/x", func(c *gin.Context) {
		seen = Value(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if inbound != "" {
		req.Header.Set(Header, inbound)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec, seen
}

func TestReusesInboundID(t *testing.T) {
	rec, seen := run("edge-7f3a")
	assert.Equal(t, "edge-7f3a", seen)
	assert.Equal(t, "edge-7f3a", rec.Header().Get(Header))
}

func TestGeneratesIDWhenMissingOrUnsafe(t *testing.T) {
	for _, inbound := range []string{"", "has space", strings.Repeat("a", 65)} {
		rec, seen := run(inbound)
		_, err := uuid.Parse(seen)
		require.NoError(t, err, "inbound %q", inbound)
		assert.Equal(t, seen, rec.Header().Get(Header))
	}
}
