package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GaYoung-La/naver-shopping-trend/internal/service/api/httputil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPServer(t *testing.T) {
	t.Parallel()

	newServer := func() *echo.Echo {
		e := NewHTTPServer(HTTPServerConfig{
			AllowOrigins: []string{"*"},
		})
		e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
		return e
	}

	t.Run("성공: 등록되지 않은 라우트는 표준 JSON 404 응답을 반환한다", func(t *testing.T) {
		t.Parallel()

		e := newServer()

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/unknown", nil))

		require.Equal(t, http.StatusNotFound, rec.Code)

		var resp httputil.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, http.StatusNotFound, resp.ResultCode)
	})

	t.Run("성공: Server 헤더가 비워진다", func(t *testing.T) {
		t.Parallel()

		e := newServer()

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))

		assert.Empty(t, rec.Header().Get(echo.HeaderServer))
	})

	t.Run("성공: 보안 헤더가 추가된다", func(t *testing.T) {
		t.Parallel()

		e := newServer()

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))

		assert.Equal(t, "nosniff", rec.Header().Get(echo.HeaderXContentTypeOptions))
	})

	t.Run("성공: 허용된 Origin의 CORS Preflight 요청이 처리된다", func(t *testing.T) {
		t.Parallel()

		e := newServer()

		req := httptest.NewRequest(http.MethodOptions, "/ok", nil)
		req.Header.Set(echo.HeaderOrigin, "https://example.com")
		req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodGet)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	})

	t.Run("성공: 모든 응답에 Request ID가 부여된다", func(t *testing.T) {
		t.Parallel()

		e := newServer()

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))

		assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
	})
}
