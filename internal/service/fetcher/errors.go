package fetcher

import (
	"fmt"

	apperrors "github.com/GaYoung-La/naver-shopping-trend/internal/pkg/errors"
)

var (
	// ErrHTMLStructureChanged HTML 페이지 구조가 변경되어 파싱에 실패했을 때 반환됩니다.
	ErrHTMLStructureChanged = apperrors.New(apperrors.ParsingFailed, "불러온 페이지의 문서구조가 변경되었습니다. CSS셀렉터를 확인하세요")

	// ErrMaxRetriesExceeded 최대 재시도 횟수를 모두 소진한 뒤에도 요청이 실패했을 때 반환됩니다.
	ErrMaxRetriesExceeded = apperrors.New(apperrors.Unavailable, "최대 재시도 횟수를 초과하였습니다")
)

// NewErrHTMLStructureChanged HTML 페이지의 DOM 구조 변경으로 인한 파싱 실패 시,
// 디버깅에 필요한 컨텍스트(대상 URL, CSS 선택자 등 상세 정보)를 포함한 구조화된 에러를 생성합니다.
func NewErrHTMLStructureChanged(url, details string) error {
	message := ErrHTMLStructureChanged.Error()
	if url != "" {
		message += fmt.Sprintf(" (%s)", url)
	}
	if details != "" {
		message += fmt.Sprintf(": %s", details)
	}
	return apperrors.New(apperrors.ParsingFailed, message)
}

// newErrMaxRetriesExceeded 최대 재시도 횟수 초과 에러를 마지막 실패 원인과 함께 생성합니다.
func newErrMaxRetriesExceeded(cause error) error {
	if cause == nil {
		return ErrMaxRetriesExceeded
	}
	return apperrors.Wrap(cause, apperrors.Unavailable, "최대 재시도 횟수를 초과하였습니다")
}

// newErrRetryAfterExceeded 서버가 지시한 Retry-After 대기 시간이 허용된 최대 재시도 대기 시간을 초과했을 때 반환됩니다.
func newErrRetryAfterExceeded(retryAfter, maxRetryDelay string) error {
	return apperrors.Newf(apperrors.RateLimited, "서버가 지시한 재시도 대기 시간(%s)이 최대 재시도 대기 시간(%s)을 초과하였습니다", retryAfter, maxRetryDelay)
}

// newErrGetBodyFailed 재시도를 위한 요청 본문 재생성(GetBody)이 실패했을 때 반환됩니다.
func newErrGetBodyFailed(cause error) error {
	return apperrors.Wrap(cause, apperrors.ExecutionFailed, "재시도를 위한 요청 본문 재생성이 실패하였습니다")
}

// newErrHTTPStatus HTTP 상태 코드에 대응하는 도메인 에러를 생성합니다.
func newErrHTTPStatus(errType apperrors.ErrorType, status, url string) error {
	message := fmt.Sprintf("HTTP 요청이 실패했습니다. 상태 코드: %s", status)
	if url != "" {
		message += fmt.Sprintf(" (%s)", url)
	}
	return apperrors.New(errType, message)
}
