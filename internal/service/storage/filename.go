package storage

import (
	"strings"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
)

// filenameReplacer 파일명 생성 시 파일 시스템에서 문제를 일으킬 수 있는 특수문자를 안전한 문자로 치환합니다.
//
// 치환 규칙:
//   - 경로 이탈 방지: ".." (상위 디렉토리), "/" 및 "\" (경로 구분자)를 하이픈으로 치환
//   - Windows 예약 문자: < > : " | ? * 등 Windows에서 금지된 문자를 하이픈으로 치환
var filenameReplacer = strings.NewReplacer(
	"..", "--",
	"/", "-",
	"\\", "-",
	"|", "-",
	"<", "-",
	">", "-",
	":", "-",
	"\"", "-",
	"?", "-",
	"*", "-",
)

// generateFilename 스냅샷 이름을 시스템에서 안전하게 사용할 수 있는 파일명으로 변환합니다.
//
// 이름을 Kebab-Case로 변환하여 파일 탐색기에서 쉽게 식별할 수 있도록 하고,
// 파일 시스템의 경로 길이 제한을 고려하여 120바이트로 제한합니다.
//
// 생성 패턴: "{정제된이름}.json" (예: "CategoryKeywords" → "category-keywords.json")
func generateFilename(name string) string {
	sanitized := sanitizeName(name)
	sanitized = truncateByBytes(sanitized, 120)

	return sanitized + ".json"
}

// sanitizeName 파일명으로 안전하게 사용할 수 있도록 문자열을 정제합니다.
func sanitizeName(s string) string {
	kebab := strcase.ToKebab(s)

	// Windows 등 일부 파일 시스템은 제어 문자를 파일명에 허용하지 않으므로
	// Kebab 변환 후에도 남아있을 수 있는 제어 문자를 하이픈으로 치환합니다.
	kebab = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7F {
			return '-'
		}
		return r
	}, kebab)

	return filenameReplacer.Replace(kebab)
}

// truncateByBytes 문자열을 UTF-8 바이트 길이 기준으로 안전하게 자릅니다.
//
// 파일 시스템은 문자 개수가 아닌 바이트 길이로 파일명 제한을 적용합니다.
// UTF-8에서 한글 등은 2~4바이트를 차지하므로, 단순히 바이트 인덱스로 자르면
// 문자가 중간에 잘려 깨진 문자가 생성될 수 있습니다.
// Rune 단위로 순회하며 limit 바이트를 초과하지 않는 지점까지만 자릅니다.
func truncateByBytes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	var totalBytes int
	for i := 0; i < len(s); {
		_, size := utf8.DecodeRuneInString(s[i:])

		if totalBytes+size > limit {
			return s[:totalBytes]
		}

		totalBytes += size
		i += size
	}

	return s[:totalBytes]
}
