package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSystemHandler(t *testing.T) {
	h := NewSystemHandler("ERP Back Office", "1.0.0", nil)
	assert.NotNil(t, h)
	assert.False(t, h.startTime.IsZero())
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler("ERP Back Office", "1.2.3", nil)
	c, w := newTestContext(http.MethodGet, "/api/system/info")

	h.GetSystemInfo(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "ERP Back Office", data["name"])
	assert.Equal(t, "1.2.3", data["version"])
	assert.NotEmpty(t, data["go_version"])
	assert.NotEmpty(t, data["uptime"])
}

func TestSystemHandler_Health(t *testing.T) {
	ok := func(context.Context) error { return nil }

	t.Run("healthy", func(t *testing.T) {
		h := NewSystemHandler("erp", "1", map[string]HealthCheck{"database": ok, "cache": ok})
		c, w := newTestContext(http.MethodGet, "/health")
		h.Health(c)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)
		data := resp.Data.(map[string]any)
		assert.Equal(t, "healthy", data["status"])
		assert.Equal(t, map[string]any{"database": "ok", "cache": "ok"}, data["checks"])
	})

	t.Run("one probe failing", func(t *testing.T) {
		h := NewSystemHandler("erp", "1", map[string]HealthCheck{
			"database": func(context.Context) error { return errors.New("connection refused") },
			"cache":    ok,
		})
		c, w := newTestContext(http.MethodGet, "/health")
		h.Health(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		resp := decodeResponse(t, w)
		assert.False(t, resp.Success)
		data := resp.Data.(map[string]any)
		require.Equal(t, "unhealthy", data["status"])
		assert.Equal(t, "connection refused", data["checks"].(map[string]any)["database"])
	})
}
