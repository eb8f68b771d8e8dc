package fetcher

import (
	"github.com/GaYoung-La/naver-shopping-trend/internal/config"
)

// NewChain 설정값을 기반으로 표준 Fetcher 체인을 구성합니다.
//
// 체인 구성 (안쪽 → 바깥쪽):
//  1. HTTPFetcher: 실제 HTTP 요청 수행 (기본 타임아웃 30초)
//  2. StatusCodeFetcher: 응답 상태 코드 검증 (200 OK만 허용)
//  3. RetryFetcher: 일시적 오류 시 지수 백오프 재시도
//  4. RateLimitFetcher: 네이버 오픈 API 호출 한도 준수 (체인의 가장 바깥쪽)
//
// RateLimitFetcher가 가장 바깥쪽에 위치하므로, 재시도로 인한 추가 요청도
// 속도 제한의 적용을 받습니다.
func NewChain(retryCfg config.HTTPRetryConfig, rateLimitCfg config.RateLimitConfig) Fetcher {
	var f Fetcher = NewHTTPFetcher()

	f = NewStatusCodeFetcher(f)

	f = NewRetryFetcher(f, retryCfg.MaxRetries, retryCfg.RetryDelayDuration(), defaultMaxRetryDelay)

	f = NewRateLimitFetcher(f, rateLimitCfg.RequestsPerSecond, rateLimitCfg.Burst)

	return f
}
