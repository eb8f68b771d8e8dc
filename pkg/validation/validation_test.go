package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCronExpression(t *testing.T) {
	t.Parallel()

	t.Run("성공: 6필드 표현식", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, ValidateCronExpression("0 0 6 * * *"))
		assert.NoError(t, ValidateCronExpression("@daily"))
	})

	t.Run("실패: 잘못된 표현식", func(t *testing.T) {
		t.Parallel()

		assert.Error(t, ValidateCronExpression("0 6 * * *")) // 5필드
		assert.Error(t, ValidateCronExpression("invalid"))
	})
}

func TestValidateCORSOrigin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		origin      string
		expectError bool
	}{
		{"성공: 와일드카드", "*", false},
		{"성공: https 도메인", "https://example.com", false},
		{"성공: 포트 포함", "http://localhost:8080", false},
		{"성공: IPv4 주소", "http://192.168.0.10", false},
		{"실패: 빈 문자열", "", true},
		{"실패: 스키마 누락", "example.com", true},
		{"실패: 후행 슬래시", "https://example.com/", true},
		{"실패: 경로 포함", "https://example.com/api", true},
		{"실패: 쿼리 포함", "https://example.com?a=1", true},
		{"실패: ftp 스키마", "ftp://example.com", true},
		{"실패: 숫자로만 구성된 TLD", "https://example.123", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateCORSOrigin(tc.origin)
			if tc.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePort(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidatePort(8080))
	assert.NoError(t, ValidatePort(1))
	assert.NoError(t, ValidatePort(65535))
	assert.Error(t, ValidatePort(0))
	assert.Error(t, ValidatePort(65536))
}

func TestValidateHostname(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateHostname("localhost"))
	assert.NoError(t, ValidateHostname("127.0.0.1"))
	assert.NoError(t, ValidateHostname("api.example.com"))
	assert.Error(t, ValidateHostname("-bad.example.com"))
	assert.Error(t, ValidateHostname("under_score.example.com"))
}
