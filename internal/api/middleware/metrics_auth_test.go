package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func metricsEcho(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.GET("/metrics", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, MetricsBasicAuth())
	return e
}

func TestMetricsBasicAuth(t *testing.T) {
	t.Run("資格情報が未設定なら認証をスキップ", func(t *testing.T) {
		t.Setenv("METRICS_USER", "")
		t.Setenv("METRICS_PASSWORD", "")
		e := metricsEcho(t)

		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("正しい資格情報は通過する", func(t *testing.T) {
		t.Setenv("METRICS_USER", "prometheus")
		t.Setenv("METRICS_PASSWORD", "secret")
		e := metricsEcho(t)

		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		req.SetBasicAuth("prometheus", "secret")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("誤った資格情報は401", func(t *testing.T) {
		t.Setenv("METRICS_USER", "prometheus")
		t.Setenv("METRICS_PASSWORD", "secret")
		e := metricsEcho(t)

		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		req.SetBasicAuth("prometheus", "wrong")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("資格情報なしは401", func(t *testing.T) {
		t.Setenv("METRICS_USER", "prometheus")
		t.Setenv("METRICS_PASSWORD", "secret")
		e := metricsEcho(t)

		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
