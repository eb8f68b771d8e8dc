package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestMaskSensitiveQueryParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "client_secret 마스킹",
			uri:      "/api/v1/test?client_secret=supersecret123",
			expected: "/api/v1/test?client_secret=supe%2A%2A%2At123",
		},
		{
			name:     "민감 파라미터가 없으면 원본 유지",
			uri:      "/api/v1/categories?sub=%EC%8B%A0%EB%B0%9C",
			expected: "/api/v1/categories?sub=%EC%8B%A0%EB%B0%9C",
		},
		{
			name:     "일반 파라미터는 유지되고 민감 파라미터만 마스킹",
			uri:      "/test?password=abc&id=100",
			expected: "/test?id=100&password=%2A%2A%2A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, maskSensitiveQueryParams(tt.uri))
		})
	}
}

func TestHTTPLogger(t *testing.T) {
	t.Parallel()

	t.Run("성공: 핸들러 에러가 에러 핸들러로 전달되어 응답이 기록된다", func(t *testing.T) {
		t.Parallel()

		e := echo.New()
		e.Use(HTTPLogger())
		e.GET("/ok", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
		e.GET("/fail", func(c echo.Context) error { return echo.NewHTTPError(http.StatusBadRequest, "bad") })

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
