package datalab_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GaYoung-La/naver-shopping-trend/internal/config"
	apperrors "github.com/GaYoung-La/naver-shopping-trend/internal/pkg/errors"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/fetcher"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/provider/datalab"
)

var testCredentials = config.NaverConfig{
	ClientID:     "test-client-id",
	ClientSecret: "test-client-secret",
}

func newClient(t *testing.T, serverURL string) *datalab.Client {
	t.Helper()

	f := fetcher.NewStatusCodeFetcher(fetcher.NewHTTPFetcher())
	client, err := datalab.NewClient(f, testCredentials)
	require.NoError(t, err)
	client.SetBaseURL(serverURL)

	return client
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	t.Run("실패: Client ID가 비어있으면 에러를 반환한다", func(t *testing.T) {
		t.Parallel()

		_, err := datalab.NewClient(fetcher.NewHTTPFetcher(), config.NaverConfig{ClientSecret: "secret"})
		assert.ErrorIs(t, err, datalab.ErrClientIDRequired)
	})

	t.Run("실패: Client Secret이 비어있으면 에러를 반환한다", func(t *testing.T) {
		t.Parallel()

		_, err := datalab.NewClient(fetcher.NewHTTPFetcher(), config.NaverConfig{ClientID: "id"})
		assert.ErrorIs(t, err, datalab.ErrClientSecretRequired)
	})

	t.Run("실패: Fetcher가 nil이면 에러를 반환한다", func(t *testing.T) {
		t.Parallel()

		_, err := datalab.NewClient(nil, testCredentials)
		assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
	})
}

func TestClient_SearchTrend(t *testing.T) {
	t.Parallel()

	t.Run("성공: 키워드별 시계열을 반환한다", func(t *testing.T) {
		t.Parallel()

		var gotBody map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/datalab/search", r.URL.Path)
			assert.Equal(t, "test-client-id", r.Header.Get("X-Naver-Client-Id"))
			assert.Equal(t, "test-client-secret", r.Header.Get("X-Naver-Client-Secret"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"startDate": "2026-08-01",
				"endDate": "2026-08-07",
				"timeUnit": "date",
				"results": [
					{"title": "선크림", "keywords": ["선크림"], "data": [
						{"period": "2026-08-01", "ratio": 10.5},
						{"period": "2026-08-07", "ratio": 44.2}
					]},
					{"title": "레티놀", "keywords": ["레티놀"], "data": []}
				]
			}`))
		}))
		defer server.Close()

		client := newClient(t, server.URL)

		series, err := client.SearchTrend(t.Context(), []string{"선크림", "레티놀"}, datalab.SearchOptions{
			StartDate: "2026-08-01",
			EndDate:   "2026-08-07",
			TimeUnit:  "date",
		})

		require.NoError(t, err)
		require.Len(t, series, 2)
		assert.Equal(t, []datalab.RatioPoint{
			{Period: "2026-08-01", Ratio: 10.5},
			{Period: "2026-08-07", Ratio: 44.2},
		}, series["선크림"])
		assert.Empty(t, series["레티놀"])

		// 키워드 하나가 하나의 그룹으로 전달되어야 한다.
		groups, ok := gotBody["keywordGroups"].([]any)
		require.True(t, ok)
		assert.Len(t, groups, 2)
	})

	t.Run("성공: 기기/성별 필터가 비어있으면 요청 본문에서 생략된다", func(t *testing.T) {
		t.Parallel()

		var gotBody map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			_, _ = w.Write([]byte(`{"results": []}`))
		}))
		defer server.Close()

		client := newClient(t, server.URL)

		_, err := client.SearchTrend(t.Context(), []string{"선크림"}, datalab.SearchOptions{
			StartDate: "2026-08-01",
			EndDate:   "2026-08-07",
			TimeUnit:  "date",
		})

		require.NoError(t, err)
		assert.NotContains(t, gotBody, "device")
		assert.NotContains(t, gotBody, "gender")
		assert.NotContains(t, gotBody, "ages")
	})

	t.Run("실패: 키워드가 5개를 초과하면 InvalidInput 에러를 반환한다", func(t *testing.T) {
		t.Parallel()

		client := newClient(t, "http://localhost")

		_, err := client.SearchTrend(t.Context(), []string{"a1", "a2", "a3", "a4", "a5", "a6"}, datalab.SearchOptions{})
		assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
	})

	t.Run("실패: 키워드가 비어있으면 InvalidInput 에러를 반환한다", func(t *testing.T) {
		t.Parallel()

		client := newClient(t, "http://localhost")

		_, err := client.SearchTrend(t.Context(), nil, datalab.SearchOptions{})
		assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
	})

	t.Run("실패: 401 응답은 Unauthorized 에러를 반환한다", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := newClient(t, server.URL)

		_, err := client.SearchTrend(t.Context(), []string{"선크림"}, datalab.SearchOptions{})
		assert.True(t, apperrors.Is(err, apperrors.Unauthorized))
	})

	t.Run("실패: 잘못된 JSON 응답은 ParsingFailed 에러를 반환한다", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html>점검 중</html>"))
		}))
		defer server.Close()

		client := newClient(t, server.URL)

		_, err := client.SearchTrend(t.Context(), []string{"선크림"}, datalab.SearchOptions{})
		assert.True(t, apperrors.Is(err, apperrors.ParsingFailed))
	})
}

func TestClient_ProbeCredentials(t *testing.T) {
	t.Parallel()

	t.Run("성공: 유효한 자격증명은 에러 없이 통과한다", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"results": [{"title": "네이버", "data": [{"period": "2026-08-29", "ratio": 100}]}]}`))
		}))
		defer server.Close()

		client := newClient(t, server.URL)

		assert.NoError(t, client.ProbeCredentials(t.Context()))
	})

	t.Run("실패: 401 응답은 Unauthorized 에러로 구분된다", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := newClient(t, server.URL)

		err := client.ProbeCredentials(t.Context())
		assert.True(t, apperrors.Is(err, apperrors.Unauthorized))
	})

	t.Run("실패: 그 외 응답 오류는 Unavailable 에러로 반환된다", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := newClient(t, server.URL)

		err := client.ProbeCredentials(t.Context())
		assert.True(t, apperrors.Is(err, apperrors.Unavailable))
	})
}

func TestClient_PopularKeywords(t *testing.T) {
	t.Parallel()

	t.Run("성공: 응답에서 키워드를 중복 없이 추출한다", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/datalab/shopping/categories", r.URL.Path)
			_, _ = w.Write([]byte(`{
				"results": [
					{"title": "화장품/미용", "keywords": [
						{"keyword": "선크림", "rank": 1},
						{"keyword": "레티놀", "rank": 2},
						"토너",
						{"keyword": "선크림"}
					]}
				]
			}`))
		}))
		defer server.Close()

		client := newClient(t, server.URL)

		keywords, err := client.PopularKeywords(t.Context(), "화장품/미용", []string{"50000002"}, datalab.SearchOptions{
			StartDate: "2026-08-01",
			EndDate:   "2026-08-07",
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"선크림", "레티놀", "토너"}, keywords)
	})

	t.Run("성공: keywords 항목이 없는 응답은 빈 목록을 반환한다", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"results": [{"title": "화장품/미용", "data": [{"period": "2026-08-01", "ratio": 55.1}]}]}`))
		}))
		defer server.Close()

		client := newClient(t, server.URL)

		keywords, err := client.PopularKeywords(t.Context(), "화장품/미용", []string{"50000002"}, datalab.SearchOptions{})

		require.NoError(t, err)
		assert.Empty(t, keywords)
	})
}
