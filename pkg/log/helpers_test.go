package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskSensitiveData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"빈 문자열", "", ""},
		{"3자 이하는 전체 마스킹", "abc", "***"},
		{"12자 이하는 앞 4자만 표시", "abcdefgh", "abcd***"},
		{"긴 토큰은 앞뒤 4자만 표시", "AbCdEfGhIjKlMnOp", "AbCd***MnOp"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, MaskSensitiveData(tc.input))
		})
	}
}

func TestWithComponent(t *testing.T) {
	t.Parallel()

	entry := WithComponent("storage")
	assert.Equal(t, "storage", entry.Data["component"])

	entry = WithComponentAndFields("api", Fields{"path": "/health"})
	assert.Equal(t, "api", entry.Data["component"])
	assert.Equal(t, "/health", entry.Data["path"])
}
