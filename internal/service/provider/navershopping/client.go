package navershopping

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	apperrors "github.com/GaYoung-La/naver-shopping-trend/internal/pkg/errors"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/fetcher"
	applog "github.com/GaYoung-La/naver-shopping-trend/pkg/log"
)

const component = "provider.navershopping"

const (
	defaultBaseURL = "https://openapi.naver.com"

	searchShopPath = "/v1/search/shop.json"

	// MaxDisplay 쇼핑 검색 API가 한 번의 호출에서 반환하는 최대 결과 개수
	MaxDisplay = 100

	// maxStart 쇼핑 검색 API가 허용하는 최대 조회 시작 위치
	maxStart = 1000
)

// Item 쇼핑 검색 결과 상품 하나의 정보입니다.
// Title에는 검색어 강조용 HTML 태그(<b> 등)가 포함되어 있을 수 있습니다.
type Item struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	LPrice    string `json:"lprice"`
	MallName  string `json:"mallName"`
	Brand     string `json:"brand"`
	Category1 string `json:"category1"`
	Category2 string `json:"category2"`
}

type searchResponse struct {
	Total   int    `json:"total"`
	Start   int    `json:"start"`
	Display int    `json:"display"`
	Items   []Item `json:"items"`
}

// Client 네이버 쇼핑 검색 오픈 API 클라이언트
type Client struct {
	fetcher  fetcher.Fetcher
	settings Settings
	baseURL  string

	logger *applog.Entry
}

// NewClient Client 객체를 생성하여 반환합니다.
func NewClient(f fetcher.Fetcher, settings Settings) (*Client, error) {
	if f == nil {
		return nil, apperrors.New(apperrors.InvalidInput, "Fetcher 객체가 초기화되지 않았습니다")
	}
	if err := settings.validate(); err != nil {
		return nil, err
	}

	return &Client{
		fetcher:  f,
		settings: settings,
		baseURL:  defaultBaseURL,

		logger: applog.WithComponent(component),
	}, nil
}

// Search 쇼핑 검색 API를 호출하여 검색 결과 한 페이지를 반환합니다.
// display는 최대 100, start는 최대 1000까지 허용됩니다.
func (c *Client) Search(ctx context.Context, query string, display, start int) ([]Item, error) {
	if query == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "검색어가 비어있습니다")
	}
	if display < 1 || display > MaxDisplay {
		return nil, apperrors.Newf(apperrors.InvalidInput, "한 번에 조회할 수 있는 결과 개수는 1~%d개입니다(요청: %d개)", MaxDisplay, display)
	}
	if start < 1 || start > maxStart {
		return nil, apperrors.Newf(apperrors.InvalidInput, "조회 시작 위치는 1~%d 사이여야 합니다(요청: %d)", maxStart, start)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("display", strconv.Itoa(display))
	params.Set("start", strconv.Itoa(start))
	params.Set("sort", "sim")

	requestURL := fmt.Sprintf("%s%s?%s", c.baseURL, searchShopPath, params.Encode())

	headers := map[string]string{
		"X-Naver-Client-Id":     c.settings.ClientID,
		"X-Naver-Client-Secret": c.settings.ClientSecret,
	}

	var respBody searchResponse
	if err := fetcher.FetchJSON(ctx, c.fetcher, requestURL, headers, &respBody); err != nil {
		return nil, err
	}

	return respBody.Items, nil
}

// TopItems 검색어 하나로 인기순 상위 n개의 상품을 페이지 단위로 수집합니다.
// 검색 결과가 n개보다 적으면 수집 가능한 만큼만 반환합니다.
func (c *Client) TopItems(ctx context.Context, query string, n int) ([]Item, error) {
	if n < 1 {
		return nil, apperrors.Newf(apperrors.InvalidInput, "수집할 상품 개수는 1개 이상이어야 합니다(요청: %d개)", n)
	}

	collected := make([]Item, 0, n)
	for start := 1; start <= maxStart && len(collected) < n; start += MaxDisplay {
		display := min(n-len(collected), MaxDisplay)

		items, err := c.Search(ctx, query, display, start)
		if err != nil {
			return nil, err
		}
		collected = append(collected, items...)

		// 요청한 개수보다 적게 반환되면 더 이상 결과가 없는 것이다.
		if len(items) < display {
			break
		}
	}

	c.logger.WithFields(applog.Fields{"query": query, "items": len(collected)}).Debug("쇼핑 검색 결과 수집 완료")

	return collected, nil
}
