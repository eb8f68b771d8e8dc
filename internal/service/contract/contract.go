// Package contract는 서비스 간의 순환 의존을 방지하기 위해
// 서비스 경계에서 공유되는 인터페이스와 데이터 타입을 정의합니다.
package contract

import (
	"context"
	"time"
)

// Notification 알림 채널로 전송되는 단일 알림 메시지입니다.
type Notification struct {
	Title   string
	Message string

	// ErrorOccurred 오류 상황 알림 여부 (알림 채널에서 강조 표시에 사용)
	ErrorOccurred bool
}

// NotificationSender 알림 전송을 담당하는 인터페이스입니다.
type NotificationSender interface {
	// Notify 알림을 전송 큐에 등록합니다.
	// 큐가 가득 찼거나 채널이 비활성화된 경우 에러를 반환합니다.
	Notify(ctx context.Context, notification Notification) error
}

// DiscoveryReport 자동 키워드 발굴 1회 실행의 결과 요약입니다.
type DiscoveryReport struct {
	StartedAt time.Time
	Elapsed   time.Duration

	// CategoriesProcessed 처리된 하위 카테고리 수
	CategoriesProcessed int

	// KeywordsDiscovered 이번 실행에서 발굴된 키워드 수 (중복 제거 후)
	KeywordsDiscovered int

	// FailedQueries 수집에 실패한 시드 검색어 수
	FailedQueries int
}

// DiscoveryRunner 자동 키워드 발굴 작업의 실행을 담당하는 인터페이스입니다.
// 스케줄러와 API 핸들러가 발굴 서비스에 직접 의존하지 않도록 분리합니다.
type DiscoveryRunner interface {
	RunDiscovery(ctx context.Context) (*DiscoveryReport, error)
}
