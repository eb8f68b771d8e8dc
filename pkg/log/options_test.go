package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_Validate(t *testing.T) {
	t.Parallel()

	createTempFile := func(t *testing.T) string {
		t.Helper()
		tempFile := filepath.Join(t.TempDir(), "conflict_file")
		require.NoError(t, os.WriteFile(tempFile, []byte("conflict"), 0644))
		return tempFile
	}

	tests := []struct {
		name        string
		buildOpts   func(t *testing.T) Options
		expectError bool
		errorMsg    string
	}{
		{
			name: "성공: 기본 설정",
			buildOpts: func(t *testing.T) Options {
				return Options{Name: "trend-server", MaxAge: 7, MaxSizeMB: 100, MaxBackups: 20}
			},
		},
		{
			name: "성공: 유효한 디렉토리 지정",
			buildOpts: func(t *testing.T) Options {
				return Options{Name: "trend-server", Dir: t.TempDir()}
			},
		},
		{
			name: "성공: 0 값은 기본값으로 대체",
			buildOpts: func(t *testing.T) Options {
				return Options{Name: "trend-server"}
			},
		},
		{
			name: "실패: Name 누락",
			buildOpts: func(t *testing.T) Options {
				return Options{MaxAge: 7}
			},
			expectError: true,
			errorMsg:    "애플리케이션 식별자(Name)가 설정되지 않았습니다",
		},
		{
			name: "실패: 디렉토리 경로가 일반 파일",
			buildOpts: func(t *testing.T) Options {
				return Options{Name: "trend-server", Dir: createTempFile(t)}
			},
			expectError: true,
			errorMsg:    "이미 파일로 존재합니다",
		},
		{
			name: "실패: 음수 MaxAge",
			buildOpts: func(t *testing.T) Options {
				return Options{Name: "trend-server", MaxAge: -1}
			},
			expectError: true,
			errorMsg:    "MaxAge는 0 이상이어야 합니다",
		},
		{
			name: "실패: 음수 MaxSizeMB",
			buildOpts: func(t *testing.T) Options {
				return Options{Name: "trend-server", MaxSizeMB: -1}
			},
			expectError: true,
			errorMsg:    "MaxSizeMB는 0 이상이어야 합니다",
		},
		{
			name: "실패: 음수 MaxBackups",
			buildOpts: func(t *testing.T) Options {
				return Options{Name: "trend-server", MaxBackups: -1}
			},
			expectError: true,
			errorMsg:    "MaxBackups는 0 이상이어야 합니다",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			opts := tc.buildOpts(t)
			err := opts.Validate()

			if tc.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewProductionOptions(t *testing.T) {
	t.Parallel()

	opts := NewProductionOptions("trend-server")

	assert.Equal(t, "trend-server", opts.Name)
	assert.Equal(t, InfoLevel, opts.Level)
	assert.True(t, opts.EnableCriticalLog)
	assert.True(t, opts.EnableVerboseLog)
	assert.False(t, opts.EnableConsoleLog)
	assert.NoError(t, opts.Validate())
}

func TestNewDevelopmentOptions(t *testing.T) {
	t.Parallel()

	opts := NewDevelopmentOptions("trend-server")

	assert.Equal(t, TraceLevel, opts.Level)
	assert.False(t, opts.EnableCriticalLog)
	assert.True(t, opts.EnableConsoleLog)
	assert.NoError(t, opts.Validate())
}
