package fetcher

import (
	"bytes"
	"io"
	"net/http"
	"slices"

	apperrors "github.com/GaYoung-La/naver-shopping-trend/internal/pkg/errors"
)

// StatusCodeFetcher HTTP 응답의 상태 코드를 검증하는 미들웨어입니다.
//
// 주요 목적:
//   - 허용된 HTTP 상태 코드만 성공으로 처리
//   - 허용되지 않은 상태 코드 조기 감지 및 에러 반환
//   - 실패한 응답의 리소스를 안전하게 정리하여 커넥션 재사용 보장
type StatusCodeFetcher struct {
	delegate Fetcher

	// allowedStatusCodes 허용할 HTTP 상태 코드 목록입니다.
	// nil 또는 빈 슬라이스인 경우 200 OK만 허용합니다.
	allowedStatusCodes []int
}

// 컴파일 타임에 인터페이스 구현 여부를 검증합니다.
var _ Fetcher = (*StatusCodeFetcher)(nil)

// NewStatusCodeFetcher 200 OK만 허용하는 StatusCodeFetcher 인스턴스를 생성합니다.
func NewStatusCodeFetcher(delegate Fetcher) *StatusCodeFetcher {
	return &StatusCodeFetcher{
		delegate: delegate,
	}
}

// NewStatusCodeFetcherWithOptions 특정 HTTP 상태 코드들을 허용하는 StatusCodeFetcher 인스턴스를 생성합니다.
func NewStatusCodeFetcherWithOptions(delegate Fetcher, allowedStatusCodes ...int) *StatusCodeFetcher {
	return &StatusCodeFetcher{
		delegate:           delegate,
		allowedStatusCodes: allowedStatusCodes,
	}
}

// Do HTTP 요청을 수행하고 응답 상태 코드를 검증합니다.
//
// 주의사항:
//   - 상태 코드 검증 실패 시 nil Response를 반환하므로, 호출자는 에러 체크 후 Response를 사용해야 합니다.
//   - 에러 발생 시 응답 객체의 Body는 이 함수 내부에서 자동으로 정리되므로, 호출자가 별도로 닫을 필요가 없습니다.
//   - 성공 시에는 호출자가 반드시 응답 객체의 Body를 닫아야 합니다.
func (f *StatusCodeFetcher) Do(req *http.Request) (*http.Response, error) {
	resp, err := f.delegate.Do(req)
	if err != nil {
		// 에러가 발생했더라도 응답 객체가 있을 수 있음 (예: 리다이렉트 에러)
		if resp != nil {
			// 커넥션 재사용을 위해 응답 객체의 Body를 안전하게 비우고 닫음
			drainAndCloseBody(resp.Body)
		}

		return nil, err
	}

	if statusErr := CheckResponseStatusWithoutReconstruct(resp, f.allowedStatusCodes...); statusErr != nil {
		// 커넥션 재사용을 위해 응답 객체의 Body를 안전하게 비우고 닫음
		drainAndCloseBody(resp.Body)

		return nil, statusErr
	}

	return resp, nil
}

// CheckResponseStatus HTTP 응답의 상태 코드를 검증하고, 실패 시 구조화된 에러를 반환합니다.
//
// 상태 코드가 허용 목록(비어있으면 200 OK만 허용)에 없으면 상태 코드에 맞는
// 도메인 에러 타입으로 변환하여 HTTPStatusError를 생성합니다.
//
// 이 함수는 응답 객체의 Body를 재구성하므로, 호출 후에도 Body를 읽을 수 있습니다.
// Body를 즉시 닫을 예정이라면 CheckResponseStatusWithoutReconstruct를 사용하세요.
func CheckResponseStatus(resp *http.Response, allowedStatusCodes ...int) error {
	return checkResponseStatus(resp, true, allowedStatusCodes...)
}

// CheckResponseStatusWithoutReconstruct CheckResponseStatus와 동일한 검증을 수행하지만,
// 응답 객체의 Body를 재구성하지 않습니다. 에러 발생 시 즉시 Body를 닫을 계획이 있는 경우
// 불필요한 Body 재구성 오버헤드를 피할 수 있습니다.
func CheckResponseStatusWithoutReconstruct(resp *http.Response, allowedStatusCodes ...int) error {
	return checkResponseStatus(resp, false, allowedStatusCodes...)
}

func checkResponseStatus(resp *http.Response, reconstruct bool, allowedStatusCodes ...int) error {
	// 1. 응답 상태 코드가 허용할 상태코드 목록에 있는지 확인
	isAllowed := false
	if len(allowedStatusCodes) == 0 {
		// 허용할 상태코드 목록이 비어있으면 200 OK만 허용
		isAllowed = resp.StatusCode == http.StatusOK
	} else {
		isAllowed = slices.Contains(allowedStatusCodes, resp.StatusCode)
	}

	if isAllowed {
		return nil
	}

	// 2. 응답 상태 코드를 도메인 에러 타입으로 매핑
	errType := apperrors.ExecutionFailed

	switch resp.StatusCode {
	case http.StatusNotFound:
		errType = apperrors.NotFound

	case http.StatusUnauthorized:
		// 네이버 오픈 API 자격 증명(클라이언트 ID/Secret) 오류
		errType = apperrors.Unauthorized

	case http.StatusForbidden:
		errType = apperrors.Forbidden

	case http.StatusBadRequest:
		errType = apperrors.InvalidInput

	case http.StatusTooManyRequests:
		errType = apperrors.RateLimited

	case http.StatusRequestTimeout:
		errType = apperrors.Unavailable

	default:
		if resp.StatusCode >= 500 {
			errType = apperrors.Unavailable
		}
	}

	// 3. 요청 URL 추출 및 민감 정보 마스킹
	urlStr := ""
	if resp.Request != nil && resp.Request.URL != nil {
		urlStr = redactURL(resp.Request.URL)
	}

	// 4. 응답 객체의 Body 일부만 읽기 (디버깅 정보용)
	var bodySnippet string
	if resp.Body != nil {
		lr := io.LimitReader(resp.Body, 4096)
		bodyBytes, err := io.ReadAll(lr)
		if err == nil && len(bodyBytes) > 0 {
			bodySnippet = string(bodyBytes)

			if reconstruct {
				// 읽은 부분을 다시 채워넣어 호출자가 응답 본문을 온전히 읽을 수 있게 함!
				// 익명 구조체를 사용하여 원본 응답 객체 Body의 Close() 메서드를 보존!
				resp.Body = struct {
					io.Reader
					io.Closer
				}{
					Reader: io.MultiReader(bytes.NewReader(bodyBytes), resp.Body),
					Closer: resp.Body,
				}
			}
		}
	}

	return &HTTPStatusError{
		StatusCode:  resp.StatusCode,
		Status:      resp.Status,
		URL:         urlStr,
		Header:      redactHeaders(resp.Header),
		BodySnippet: bodySnippet,
		Cause:       newErrHTTPStatus(errType, resp.Status, urlStr),
	}
}
