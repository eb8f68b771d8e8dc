package fetcher_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/GaYoung-La/naver-shopping-trend/internal/pkg/errors"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/fetcher"
)

func TestStatusCodeFetcher_Do(t *testing.T) {
	t.Parallel()

	newServer := func(t *testing.T, status int, body string) *httptest.Server {
		t.Helper()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		}))
		t.Cleanup(server.Close)
		return server
	}

	t.Run("성공: 200 OK 응답을 그대로 반환한다", func(t *testing.T) {
		t.Parallel()

		server := newServer(t, http.StatusOK, "ok")
		f := fetcher.NewStatusCodeFetcher(fetcher.NewHTTPFetcher())

		resp, err := fetcher.Get(t.Context(), f, server.URL)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("성공: 허용 목록에 포함된 상태 코드는 통과시킨다", func(t *testing.T) {
		t.Parallel()

		server := newServer(t, http.StatusAccepted, "")
		f := fetcher.NewStatusCodeFetcherWithOptions(fetcher.NewHTTPFetcher(), http.StatusOK, http.StatusAccepted)

		resp, err := fetcher.Get(t.Context(), f, server.URL)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	})

	t.Run("실패: 허용되지 않은 상태 코드는 HTTPStatusError로 변환하고 nil 응답을 반환한다", func(t *testing.T) {
		t.Parallel()

		server := newServer(t, http.StatusNotFound, `{"errMsg":"없는 카테고리"}`)
		f := fetcher.NewStatusCodeFetcher(fetcher.NewHTTPFetcher())

		resp, err := fetcher.Get(t.Context(), f, server.URL)

		require.Error(t, err)
		assert.Nil(t, resp)

		var statusErr *fetcher.HTTPStatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
		assert.Contains(t, statusErr.BodySnippet, "없는 카테고리")
	})

	// 상태 코드별 도메인 에러 타입 매핑 검증
	t.Run("상태 코드를 도메인 에러 타입으로 매핑한다", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name     string
			status   int
			expected apperrors.ErrorType
		}{
			{"400 → InvalidInput", http.StatusBadRequest, apperrors.InvalidInput},
			{"401 → Unauthorized", http.StatusUnauthorized, apperrors.Unauthorized},
			{"403 → Forbidden", http.StatusForbidden, apperrors.Forbidden},
			{"404 → NotFound", http.StatusNotFound, apperrors.NotFound},
			{"429 → RateLimited", http.StatusTooManyRequests, apperrors.RateLimited},
			{"500 → Unavailable", http.StatusInternalServerError, apperrors.Unavailable},
			{"503 → Unavailable", http.StatusServiceUnavailable, apperrors.Unavailable},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				server := newServer(t, tt.status, "")
				f := fetcher.NewStatusCodeFetcher(fetcher.NewHTTPFetcher())

				_, err := fetcher.Get(t.Context(), f, server.URL)

				require.Error(t, err)
				assert.True(t, apperrors.Is(err, tt.expected), "상태 코드 %d는 %s 타입이어야 합니다", tt.status, tt.expected)
			})
		}
	})
}

func TestCheckResponseStatus(t *testing.T) {
	t.Parallel()

	t.Run("성공: Body를 재구성하여 호출 후에도 본문을 읽을 수 있다", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"errMsg":"잘못된 요청"}`))
		}))
		t.Cleanup(server.Close)

		resp, err := http.Get(server.URL)
		require.NoError(t, err)
		defer resp.Body.Close()

		checkErr := fetcher.CheckResponseStatus(resp)
		require.Error(t, checkErr)

		// 재구성된 Body에서 전체 본문을 다시 읽을 수 있어야 함
		buf := make([]byte, 1024)
		n, _ := resp.Body.Read(buf)
		assert.Contains(t, string(buf[:n]), "잘못된 요청")
	})
}
