package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/GaYoung-La/naver-shopping-trend/internal/pkg/errors"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/api/httputil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestPanicRecovery(t *testing.T) {
	t.Parallel()

	newServer := func(handler echo.HandlerFunc) *echo.Echo {
		e := echo.New()
		e.HTTPErrorHandler = httputil.ErrorHandler
		e.Use(PanicRecovery())
		e.GET("/panic", handler)
		return e
	}

	t.Run("성공: error 타입 panic이 복구되어 500 응답을 반환한다", func(t *testing.T) {
		t.Parallel()

		e := newServer(func(c echo.Context) error {
			panic(apperrors.New(apperrors.Internal, "핸들러 패닉"))
		})

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("성공: error가 아닌 panic 값도 복구되어 500 응답을 반환한다", func(t *testing.T) {
		t.Parallel()

		e := newServer(func(c echo.Context) error {
			panic("문자열 패닉")
		})

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("성공: panic 복구 후 서버는 다음 요청을 정상 처리한다", func(t *testing.T) {
		t.Parallel()

		e := echo.New()
		e.HTTPErrorHandler = httputil.ErrorHandler
		e.Use(PanicRecovery())
		e.GET("/panic", func(c echo.Context) error { panic("boom") })
		e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		rec = httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
