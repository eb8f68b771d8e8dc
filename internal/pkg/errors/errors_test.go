package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	err := New(NotFound, "카테고리를 찾을 수 없습니다")

	var appErr *AppError
	require.True(t, As(err, &appErr))
	assert.Equal(t, NotFound, appErr.Type())
	assert.Equal(t, "카테고리를 찾을 수 없습니다", appErr.Message())
	assert.NotEmpty(t, appErr.Stack())
	assert.Equal(t, "[NotFound] 카테고리를 찾을 수 없습니다", err.Error())
}

func TestWrap(t *testing.T) {
	t.Parallel()

	t.Run("성공: 외부 에러 래핑", func(t *testing.T) {
		t.Parallel()

		cause := stderrors.New("disk full")
		err := Wrap(cause, System, "스냅샷 저장 실패")

		assert.Contains(t, err.Error(), "disk full")
		assert.Equal(t, cause, RootCause(err))
		assert.True(t, Is(err, System))
	})

	t.Run("성공: nil 에러는 nil 반환", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, Wrap(nil, System, "무시됨"))
		assert.Nil(t, Wrapf(nil, System, "무시됨 %d", 1))
	})

	t.Run("성공: 다단계 체인에서 타입 검사", func(t *testing.T) {
		t.Parallel()

		inner := New(NotFound, "키워드 없음")
		outer := Wrap(inner, Internal, "저장소 조회 실패")

		assert.True(t, Is(outer, NotFound))
		assert.True(t, Is(outer, Internal))
		assert.False(t, Is(outer, Conflict))
	})
}

func TestUnderlyingType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected ErrorType
	}{
		{"nil 에러", nil, Unknown},
		{"표준 에러", stderrors.New("plain"), Unknown},
		{"단일 AppError", New(RateLimited, "호출 한도 초과"), RateLimited},
		{
			"체인의 가장 안쪽 타입 반환",
			Wrap(New(Corrupted, "파일 손상"), ExecutionFailed, "로드 실패"),
			Corrupted,
		},
		{
			"외부 에러를 감싼 경우 래핑 타입 반환",
			Wrap(stderrors.New("eof"), ParsingFailed, "디코딩 실패"),
			ParsingFailed,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, UnderlyingType(tc.err))
		})
	}
}

func TestAppError_Format(t *testing.T) {
	t.Parallel()

	err := Wrap(stderrors.New("connection refused"), System, "API 호출 실패")

	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "[System] API 호출 실패")
	assert.Contains(t, detailed, "Stack trace:")
	assert.Contains(t, detailed, "Caused by:")

	simple := fmt.Sprintf("%v", err)
	assert.NotContains(t, simple, "Stack trace:")

	quoted := fmt.Sprintf("%q", err)
	assert.Contains(t, quoted, `"[System] API 호출 실패`)
}

func TestErrorType_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "NotFound", NotFound.String())
	assert.Equal(t, "RateLimited", RateLimited.String())
	assert.Equal(t, "Corrupted", Corrupted.String())
	assert.Equal(t, "Empty", Empty.String())
	assert.Equal(t, "ErrorType(999)", ErrorType(999).String())
}
