package ranking

import (
	"regexp"
	"strings"

	"github.com/GaYoung-La/naver-shopping-trend/pkg/strutil"
)

var (
	// 상품명 앞의 대괄호 브랜드 표기 (예: "[나이키] 운동화")
	bracketBrandPattern = regexp.MustCompile(`\[([^\]]+)\]`)

	// 브랜드명 추출 시 단어 구분자로 취급하는 문자들
	brandSeparatorPattern = regexp.MustCompile(`[\s\[\]()]+`)
)

// ExtractBrand 상품명에서 브랜드명을 추출합니다.
// 대괄호 표기([브랜드])가 있으면 그 안의 값을, 없으면 첫 단어를 브랜드로 간주합니다.
func ExtractBrand(title string) string {
	name := strings.TrimSpace(strutil.StripHTMLTags(title))
	if name == "" {
		return ""
	}

	if match := bracketBrandPattern.FindStringSubmatch(name); match != nil {
		return strings.TrimSpace(match[1])
	}

	for _, word := range brandSeparatorPattern.Split(name, -1) {
		if word != "" {
			return word
		}
	}

	return ""
}
