// Package keyword 쇼핑몰 상품 정보에서 트렌드 분석 대상 키워드를 추출합니다.
package keyword

import (
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/width"

	"github.com/GaYoung-La/naver-shopping-trend/pkg/strutil"
)

// tokenPattern 상품명에서 키워드 후보를 찾는 정규식입니다.
// 한글은 2글자 이상, 영문은 3글자 이상의 연속된 문자열만 키워드로 취급합니다.
// 1글자 한글("새", "물")과 짧은 영문("XL", "S")은 노이즈가 대부분이라 제외합니다.
var tokenPattern = regexp.MustCompile(`[가-힣]{2,}|[a-zA-Z]{3,}`)

// minBrandLength 브랜드명으로 인정하는 최소 글자 수입니다.
// 1글자 브랜드명은 오탐 가능성이 높아 무시합니다.
const minBrandLength = 2

// Product 키워드 추출의 입력이 되는 상품 하나의 정보입니다.
// 쇼핑 검색 API 응답과 동일하게 Title과 Brand에 HTML 태그가 섞여 있을 수 있습니다.
type Product struct {
	Title string
	Brand string
}

// Extractor 상품 목록에서 빈도 기반으로 키워드를 추출합니다.
//
// 상품 레코드의 브랜드 필드는 검색 트렌드 분석에서 항상 의미가 있으므로,
// 등장 빈도나 토큰 길이 규칙과 무관하게 결과에 포함됩니다.
// 설정으로 주어진 브랜드명(brands)도 상품명에 한 번이라도 등장하면 포함됩니다.
type Extractor struct {
	brands []string
}

// NewExtractor 지정된 브랜드명 목록을 무조건 수집 대상으로 하는 Extractor를 생성합니다.
// 2글자 미만의 브랜드명은 무시됩니다.
func NewExtractor(brands []string) *Extractor {
	normalized := make([]string, 0, len(brands))
	for _, brand := range brands {
		brand = strings.ToLower(strings.TrimSpace(brand))
		if len([]rune(brand)) < minBrandLength {
			continue
		}
		if !slices.Contains(normalized, brand) {
			normalized = append(normalized, brand)
		}
	}

	return &Extractor{brands: normalized}
}

// Extract 상품 목록에서 minFrequency회 이상 등장한 키워드와 브랜드명을 추출합니다.
//
// 처리 순서:
//  1. HTML 태그 및 엔티티 제거 (쇼핑 검색 API는 "<b>나이키</b>" 형태의 필드를 반환)
//  2. 전각 영문자를 반각으로 정규화
//  3. 상품명 토큰화: 한글 2글자 이상 / 영문 3글자 이상 (영문은 소문자로 변환)
//  4. 빈도 집계 후 minFrequency 미만 제거
//  5. 각 상품의 브랜드 필드(2글자 이상)와 상품명에 등장한 설정 브랜드명을 빈도와 무관하게 추가
//  6. 중복 제거 및 오름차순 정렬
//
// minFrequency가 1 미만이면 1로 보정합니다. 입력이 비어있으면 빈 슬라이스를 반환합니다.
func (e *Extractor) Extract(products []Product, minFrequency int) []string {
	if minFrequency < 1 {
		minFrequency = 1
	}

	frequency := make(map[string]int)
	foundBrands := make(map[string]struct{})

	for _, product := range products {
		title := cleanField(product.Title)

		// 상품 레코드의 브랜드 필드는 단 한 번 등장해도 수집한다.
		if brand := cleanField(product.Brand); len([]rune(brand)) >= minBrandLength {
			foundBrands[brand] = struct{}{}
		}

		lowered := strings.ToLower(title)
		for _, brand := range e.brands {
			if strings.Contains(lowered, brand) {
				foundBrands[brand] = struct{}{}
			}
		}

		for _, token := range tokenPattern.FindAllString(title, -1) {
			frequency[strings.ToLower(token)]++
		}
	}

	keywords := make([]string, 0, len(frequency))
	for token, count := range frequency {
		if count >= minFrequency {
			keywords = append(keywords, token)
		}
	}
	for brand := range foundBrands {
		if !slices.Contains(keywords, brand) {
			keywords = append(keywords, brand)
		}
	}

	slices.Sort(keywords)

	return keywords
}

// cleanField HTML 태그를 제거하고 전각 영문자를 반각으로 정규화한 뒤 공백을 정리합니다.
// 일부 상품 필드는 전각 영문자(ＮＩＫＥ)를 사용합니다.
func cleanField(s string) string {
	s = strutil.StripHTMLTags(s)
	s = width.Narrow.String(s)
	return strings.TrimSpace(s)
}
