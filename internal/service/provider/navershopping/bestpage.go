package navershopping

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/GaYoung-La/naver-shopping-trend/internal/service/fetcher"
)

// bestKeywordSelector 인기 키워드 목록이 렌더링되는 요소들의 CSS 선택자
const bestKeywordSelector = ".keyword_rank li, .ranking_keyword li, .popular_keyword li"

var (
	// 키워드 텍스트 앞의 순위 숫자 (예: "1 선크림" → "선크림")
	bestRankPrefixPattern = regexp.MustCompile(`^\d+\s*`)

	// 키워드 텍스트 뒤에 붙는 순위 변동 표식 (예: "선크림 NEW", "선크림 ↑3")
	bestChangeMarkPattern = regexp.MustCompile(`NEW|↑|▲|\+\d+`)
)

// FetchBestKeywords 설정된 인기 키워드 페이지를 조회하여 키워드 목록을 추출합니다.
// 페이지 구조가 변경되어 키워드 요소를 찾을 수 없으면 ErrHTMLStructureChanged 에러를 반환합니다.
func (c *Client) FetchBestKeywords(ctx context.Context, pageURL string) ([]string, error) {
	selection, err := fetcher.FetchHTMLSelection(ctx, c.fetcher, pageURL, bestKeywordSelector)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	keywords := make([]string, 0, selection.Length())
	selection.Each(func(_ int, item *goquery.Selection) {
		keyword := cleanBestKeyword(item.Text())
		if keyword == "" {
			return
		}
		if _, ok := seen[keyword]; ok {
			return
		}
		seen[keyword] = struct{}{}
		keywords = append(keywords, keyword)
	})

	return keywords, nil
}

func cleanBestKeyword(text string) string {
	keyword := strings.TrimSpace(text)
	keyword = bestRankPrefixPattern.ReplaceAllString(keyword, "")

	// 순위 변동 표식 이후의 텍스트는 키워드가 아니므로 잘라낸다.
	if loc := bestChangeMarkPattern.FindStringIndex(keyword); loc != nil {
		keyword = keyword[:loc[0]]
	}

	return strings.TrimSpace(keyword)
}
