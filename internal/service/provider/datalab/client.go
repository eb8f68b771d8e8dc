package datalab

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/GaYoung-La/naver-shopping-trend/internal/config"
	apperrors "github.com/GaYoung-La/naver-shopping-trend/internal/pkg/errors"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/fetcher"
	applog "github.com/GaYoung-La/naver-shopping-trend/pkg/log"
)

const component = "provider.datalab"

const (
	defaultBaseURL = "https://openapi.naver.com"

	searchTrendPath     = "/v1/datalab/search"
	shoppingInsightPath = "/v1/datalab/shopping/categories"

	// MaxKeywordGroups 검색어 트렌드 API가 한 번의 호출에서 허용하는 최대 키워드 그룹 수
	MaxKeywordGroups = 5

	dateLayout = "2006-01-02"
)

// Client 네이버 데이터랩 오픈 API 클라이언트
type Client struct {
	fetcher      fetcher.Fetcher
	baseURL      string
	clientID     string
	clientSecret string

	logger *applog.Entry
}

// NewClient Client 객체를 생성하여 반환합니다.
func NewClient(f fetcher.Fetcher, credentials config.NaverConfig) (*Client, error) {
	if f == nil {
		return nil, apperrors.New(apperrors.InvalidInput, "Fetcher 객체가 초기화되지 않았습니다")
	}
	if credentials.ClientID == "" {
		return nil, ErrClientIDRequired
	}
	if credentials.ClientSecret == "" {
		return nil, ErrClientSecretRequired
	}

	return &Client{
		fetcher:      f,
		baseURL:      defaultBaseURL,
		clientID:     credentials.ClientID,
		clientSecret: credentials.ClientSecret,

		logger: applog.WithComponent(component),
	}, nil
}

// SearchTrend 검색어 트렌드 API를 호출하여 키워드별 상대 검색량 시계열을 반환합니다.
// 키워드 하나가 하나의 키워드 그룹으로 전달되며, 한 번의 호출에 최대 5개까지만 조회할 수 있습니다.
func (c *Client) SearchTrend(ctx context.Context, keywords []string, opts SearchOptions) (map[string][]RatioPoint, error) {
	if len(keywords) == 0 {
		return nil, apperrors.New(apperrors.InvalidInput, "조회할 키워드가 없습니다")
	}
	if len(keywords) > MaxKeywordGroups {
		return nil, apperrors.Newf(apperrors.InvalidInput, "검색어 트렌드 API는 한 번에 최대 %d개의 키워드만 조회할 수 있습니다(요청: %d개)", MaxKeywordGroups, len(keywords))
	}

	groups := make([]keywordGroup, 0, len(keywords))
	for _, keyword := range keywords {
		groups = append(groups, keywordGroup{GroupName: keyword, Keywords: []string{keyword}})
	}

	reqBody := searchTrendRequest{
		StartDate:     opts.StartDate,
		EndDate:       opts.EndDate,
		TimeUnit:      opts.TimeUnit,
		KeywordGroups: groups,
		Device:        opts.Device,
		Gender:        opts.Gender,
		Ages:          opts.Ages,
	}

	var respBody searchTrendResponse
	if err := c.postJSON(ctx, c.baseURL+searchTrendPath, reqBody, &respBody); err != nil {
		return nil, err
	}

	series := make(map[string][]RatioPoint, len(respBody.Results))
	for _, result := range respBody.Results {
		series[result.Title] = result.Data
	}

	return series, nil
}

// ProbeCredentials 설정된 자격증명이 유효한지 최근 7일 단일 키워드 조회로 검증합니다.
func (c *Client) ProbeCredentials(ctx context.Context) error {
	end := time.Now().AddDate(0, 0, -1)
	start := end.AddDate(0, 0, -7)

	_, err := c.SearchTrend(ctx, []string{"네이버"}, SearchOptions{
		StartDate: start.Format(dateLayout),
		EndDate:   end.Format(dateLayout),
		TimeUnit:  "date",
	})
	if err != nil {
		if apperrors.Is(err, apperrors.Unauthorized) {
			return apperrors.Wrap(err, apperrors.Unauthorized, "네이버 오픈 API 인증에 실패하였습니다. Client ID와 Secret 설정을 확인하세요")
		}
		return apperrors.Wrap(err, apperrors.Unavailable, "네이버 오픈 API 자격증명 검증에 실패하였습니다")
	}

	return nil
}

// PopularKeywords 쇼핑인사이트 분야 트렌드 API에서 인기 키워드를 추출하여 반환합니다.
// 응답 구조가 고정되어 있지 않으므로 keywords 항목이 존재하는 경우에만 관대하게 파싱합니다.
func (c *Client) PopularKeywords(ctx context.Context, categoryName string, categoryIDs []string, opts SearchOptions) ([]string, error) {
	reqBody := shoppingInsightRequest{
		StartDate: opts.StartDate,
		EndDate:   opts.EndDate,
		TimeUnit:  opts.TimeUnit,
		Device:    opts.Device,
		Gender:    opts.Gender,
		Ages:      opts.Ages,
	}
	if reqBody.TimeUnit == "" {
		reqBody.TimeUnit = "date"
	}
	if categoryName != "" && len(categoryIDs) > 0 {
		reqBody.Category = []categoryFilter{{Name: categoryName, Param: categoryIDs}}
	}

	raw, err := c.postRaw(ctx, c.baseURL+shoppingInsightPath, reqBody)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	keywords := make([]string, 0)
	gjson.GetBytes(raw, "results").ForEach(func(_, result gjson.Result) bool {
		result.Get("keywords").ForEach(func(_, kw gjson.Result) bool {
			var candidate string
			switch {
			case kw.IsObject():
				candidate = kw.Get("keyword").String()
			case kw.Type == gjson.String:
				candidate = kw.String()
			}
			if candidate != "" {
				if _, ok := seen[candidate]; !ok {
					seen[candidate] = struct{}{}
					keywords = append(keywords, candidate)
				}
			}
			return true
		})
		return true
	})

	c.logger.WithFields(applog.Fields{"category": categoryName, "keywords": len(keywords)}).Debug("쇼핑인사이트 인기 키워드 수집 완료")

	return keywords, nil
}

func (c *Client) postJSON(ctx context.Context, url string, reqBody, respBody any) error {
	raw, err := c.postRaw(ctx, url, reqBody)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, respBody); err != nil {
		return apperrors.Wrapf(err, apperrors.ParsingFailed, "데이터랩 API 응답(JSON) 파싱이 실패하였습니다(url: %s)", url)
	}
	return nil
}

func (c *Client) postRaw(ctx context.Context, url string, reqBody any) ([]byte, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Internal, "데이터랩 API 요청 본문(JSON) 생성이 실패하였습니다")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.Internal, "데이터랩 API 요청 객체 생성이 실패하였습니다(url: %s)", url)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Naver-Client-Id", c.clientID)
	req.Header.Set("X-Naver-Client-Secret", c.clientSecret)

	resp, err := c.fetcher.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.Unavailable, "데이터랩 API 응답 수신이 실패하였습니다(url: %s)", url)
	}

	return raw, nil
}
