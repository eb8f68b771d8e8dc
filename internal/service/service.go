// Package service는 애플리케이션을 구성하는 장기 실행 서비스들의 공통 규약을 정의합니다.
package service

import (
	"context"
	"sync"
)

// Service 애플리케이션 생명주기 동안 백그라운드에서 실행되는 서비스의 공통 인터페이스입니다.
//
// 각 서비스는 Start() 호출 시 자신의 고루틴을 생성하여 비동기로 동작하며,
// serviceStopCtx가 취소되면 내부 리소스를 정리한 후 serviceStopWG.Done()을 호출하여
// 종료 완료를 알립니다.
type Service interface {
	Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error
}
