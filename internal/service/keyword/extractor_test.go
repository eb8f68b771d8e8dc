package keyword_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GaYoung-La/naver-shopping-trend/internal/service/keyword"
)

func productsFromTitles(titles ...string) []keyword.Product {
	products := make([]keyword.Product, 0, len(titles))
	for _, title := range titles {
		products = append(products, keyword.Product{Title: title})
	}
	return products
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("성공: 빈도 조건을 만족하는 키워드만 추출한다", func(t *testing.T) {
		t.Parallel()

		e := keyword.NewExtractor(nil)
		products := productsFromTitles(
			"여름 원피스 린넨",
			"여름 반팔 티셔츠",
			"가을 원피스 니트",
		)

		got := e.Extract(products, 2)

		assert.Equal(t, []string{"여름", "원피스"}, got)
	})

	t.Run("성공: HTML 태그와 엔티티를 제거한 뒤 토큰화한다", func(t *testing.T) {
		t.Parallel()

		e := keyword.NewExtractor(nil)
		products := productsFromTitles(
			"<b>나이키</b> 운동화 &amp; 양말",
			"나이키 운동화 세트",
		)

		got := e.Extract(products, 2)

		assert.Equal(t, []string{"나이키", "운동화"}, got)
	})

	t.Run("성공: 한글 1글자와 영문 2글자 이하 토큰은 버린다", func(t *testing.T) {
		t.Parallel()

		e := keyword.NewExtractor(nil)
		products := productsFromTitles(
			"새 신발 XL 사이즈",
			"새 신발 XL 켤레",
		)

		got := e.Extract(products, 2)

		assert.Equal(t, []string{"신발"}, got)
	})

	t.Run("성공: 영문 토큰은 소문자로 추출한다", func(t *testing.T) {
		t.Parallel()

		e := keyword.NewExtractor(nil)
		products := productsFromTitles(
			"NIKE 에어맥스",
			"Nike 조던",
		)

		got := e.Extract(products, 2)

		assert.Equal(t, []string{"nike"}, got)
	})

	t.Run("성공: 전각 영문자를 반각으로 정규화하여 집계한다", func(t *testing.T) {
		t.Parallel()

		e := keyword.NewExtractor(nil)
		products := productsFromTitles(
			"ＮＩＫＥ 운동화",
			"nike 운동화",
		)

		got := e.Extract(products, 2)

		assert.Equal(t, []string{"nike", "운동화"}, got)
	})

	t.Run("성공: 상품의 브랜드 필드는 빈도와 무관하게 포함한다", func(t *testing.T) {
		t.Parallel()

		e := keyword.NewExtractor(nil)
		products := []keyword.Product{
			{Title: "단일상품", Brand: "Nivea"},
		}

		got := e.Extract(products, 3)

		assert.Equal(t, []string{"Nivea"}, got)
	})

	t.Run("성공: 브랜드 필드도 HTML 태그와 전각 문자를 정규화한다", func(t *testing.T) {
		t.Parallel()

		e := keyword.NewExtractor(nil)
		products := []keyword.Product{
			{Title: "여름 원피스", Brand: "<b>ＮＩＫＥ</b>"},
		}

		got := e.Extract(products, 5)

		assert.Equal(t, []string{"NIKE"}, got)
	})

	t.Run("성공: 2글자 미만 브랜드 필드는 무시한다", func(t *testing.T) {
		t.Parallel()

		e := keyword.NewExtractor(nil)
		products := []keyword.Product{
			{Title: "여름 원피스", Brand: "K"},
			{Title: "가을 원피스", Brand: "  "},
		}

		got := e.Extract(products, 2)

		assert.Equal(t, []string{"원피스"}, got)
	})

	t.Run("성공: 설정된 브랜드명은 상품명에 한 번만 등장해도 포함된다", func(t *testing.T) {
		t.Parallel()

		e := keyword.NewExtractor([]string{"구찌"})
		products := productsFromTitles(
			"구찌 지갑",
			"여름 지갑",
			"가죽 지갑",
		)

		got := e.Extract(products, 3)

		assert.Equal(t, []string{"구찌", "지갑"}, got)
	})

	t.Run("성공: 2글자 미만의 설정 브랜드명은 무시한다", func(t *testing.T) {
		t.Parallel()

		e := keyword.NewExtractor([]string{"K"})
		products := productsFromTitles("K 패션 가방")

		got := e.Extract(products, 1)

		assert.Equal(t, []string{"가방", "패션"}, got)
	})

	t.Run("성공: minFrequency가 1 미만이면 1로 보정한다", func(t *testing.T) {
		t.Parallel()

		e := keyword.NewExtractor(nil)
		products := productsFromTitles("단독 상품")

		got := e.Extract(products, 0)

		assert.Equal(t, []string{"단독", "상품"}, got)
	})

	t.Run("성공: 빈 입력은 빈 슬라이스를 반환한다", func(t *testing.T) {
		t.Parallel()

		e := keyword.NewExtractor(nil)

		got := e.Extract(nil, 1)

		require.NotNil(t, got)
		assert.Empty(t, got)
	})
}
