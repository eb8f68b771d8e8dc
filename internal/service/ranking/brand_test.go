package ranking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GaYoung-La/naver-shopping-trend/internal/service/ranking"
)

func TestExtractBrand(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		name     string
		title    string
		expected string
	}{
		{name: "대괄호 표기가 있으면 그 안의 값을 브랜드로 추출한다", title: "[나이키] 에어맥스 운동화", expected: "나이키"},
		{name: "대괄호 표기가 없으면 첫 단어를 브랜드로 추출한다", title: "아디다스 삼바 스니커즈", expected: "아디다스"},
		{name: "HTML 태그를 제거한 뒤 추출한다", title: "<b>나이키</b> 운동화", expected: "나이키"},
		{name: "괄호는 단어 구분자로 취급한다", title: "(정품)뉴발란스 993", expected: "정품"},
		{name: "앞뒤 공백을 무시한다", title: "  컨버스 척테일러", expected: "컨버스"},
		{name: "빈 상품명은 빈 문자열을 반환한다", title: "", expected: ""},
	}

	for _, tc := range testcases {
		t.Run("성공: "+tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, ranking.ExtractBrand(tc.title))
		})
	}
}
