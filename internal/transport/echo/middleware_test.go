package echotransport

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(2, 2)

	assert.True(t, rl.Allow("test-key"))
	assert.True(t, rl.Allow("test-key"))
	assert.False(t, rl.Allow("test-key"))
}

func TestRateLimiter_DifferentKeys(t *testing.T) {
	rl := NewRateLimiter(1, 1)

	assert.True(t, rl.Allow("key1"))
	assert.True(t, rl.Allow("key2"))
	assert.False(t, rl.Allow("key1"))
	assert.False(t, rl.Allow("key2"))
}

func TestRateLimiter_Middleware(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiter(1, 1)

	handler := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
	mw := rl.Middleware()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	assert.NoError(t, mw(handler)(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	assert.NoError(t, mw(handler)(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestRequestID_Generated(t *testing.T) {
	e := echo.New()
	handler := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	assert.NoError(t, RequestID()(handler)(e.NewContext(req, rec)))
	assert.NotEmpty(t, rec.Header().Get(headerRequestID))
}

func TestRequestID_PreservesUpstreamID(t *testing.T) {
	e := echo.New()
	handler := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(headerRequestID, "upstream-id-42")
	rec := httptest.NewRecorder()
	assert.NoError(t, RequestID()(handler)(e.NewContext(req, rec)))
	assert.Equal(t, "upstream-id-42", rec.Header().Get(headerRequestID))
}
