package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doRequest(t *testing.T, rl *RateLimiter, path, device string) int {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.Header.Set("X-Device-ID", device)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := rl.Middleware(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	err := handler(c)
	if err != nil {
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		return he.Code
	}
	return rec.Code
}

func TestRateLimiterGeneralTier(t *testing.T) {
	rl := NewRateLimiter("")

	for i := 0; i < burstGeneral; i++ {
		assert.Equal(t, http.StatusOK, doRequest(t, rl, "/nearby-products", "d1"))
	}
	assert.Equal(t, http.StatusTooManyRequests, doRequest(t, rl, "/nearby-products", "d1"))

	// Other clients keep their own bucket.
	assert.Equal(t, http.StatusOK, doRequest(t, rl, "/nearby-products", "d2"))
}

func TestRateLimiterStrictTierForCartEstimates(t *testing.T) {
	rl := NewRateLimiter("")

	for i := 0; i < burstStrict; i++ {
		assert.Equal(t, http.StatusOK, doRequest(t, rl, "/delivery/estimate-cart", "d1"))
	}
	assert.Equal(t, http.StatusTooManyRequests, doRequest(t, rl, "/delivery/estimate-cart", "d1"))

	// The general tier for the same client is unaffected.
	assert.Equal(t, http.StatusOK, doRequest(t, rl, "/nearby-products", "d1"))
}

func TestRateLimiterInternalTier(t *testing.T) {
	rl := NewRateLimiter("sekrit")

	e := echo.New()
	handler := rl.Middleware(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for i := 0; i < burstStrict+1; i++ {
		req := httptest.NewRequest(http.MethodPost, "/delivery/estimate-cart", nil)
		req.Header.Set("X-Service-Auth", "sekrit")
		rec := httptest.NewRecorder()
		require.NoError(t, handler(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
