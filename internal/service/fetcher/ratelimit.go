package fetcher

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimitFetcher 네이버 오픈 API의 호출 한도를 준수하기 위해 요청 속도를 제한하는 미들웨어입니다.
//
// 토큰 버킷 알고리즘(golang.org/x/time/rate)을 사용하여 초당 요청 수를 제한하며,
// 토큰이 확보될 때까지 대기하므로 요청을 거부하지 않습니다.
// 대기 중 요청 컨텍스트가 취소되면 즉시 에러를 반환합니다.
type RateLimitFetcher struct {
	delegate Fetcher
	limiter  *rate.Limiter
}

// 컴파일 타임에 인터페이스 구현 여부를 검증합니다.
var _ Fetcher = (*RateLimitFetcher)(nil)

// NewRateLimitFetcher 초당 requestsPerSecond회, 최대 burst개의 연속 요청을 허용하는
// RateLimitFetcher 인스턴스를 생성합니다.
//
// 설정 규칙:
//   - requestsPerSecond 0 이하: 1로 보정
//   - burst 1 미만: 1로 보정
func NewRateLimitFetcher(delegate Fetcher, requestsPerSecond float64, burst int) *RateLimitFetcher {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	if burst < 1 {
		burst = 1
	}

	return &RateLimitFetcher{
		delegate: delegate,
		limiter:  rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Do 토큰이 확보될 때까지 대기한 후 HTTP 요청을 수행합니다.
func (f *RateLimitFetcher) Do(req *http.Request) (*http.Response, error) {
	if err := f.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}

	return f.delegate.Do(req)
}
