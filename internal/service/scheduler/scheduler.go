// Package scheduler는 자동 키워드 발굴 작업을 Cron 스케줄에 맞춰 주기적으로 실행하는 서비스를 제공합니다.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/GaYoung-La/naver-shopping-trend/internal/config"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/contract"
	"github.com/GaYoung-La/naver-shopping-trend/pkg/cronx"
	applog "github.com/GaYoung-La/naver-shopping-trend/pkg/log"
	"github.com/robfig/cron/v3"
)

// component Scheduler 서비스의 로깅용 컴포넌트 이름
const component = "scheduler.service"

// Scheduler 설정 파일에 정의된 Cron 스케줄에 따라 키워드 발굴 작업을 자동 실행하는 서비스입니다.
type Scheduler struct {
	cfg config.SchedulerConfig

	cron *cron.Cron

	// discoveryRunner 키워드 발굴 작업의 실행을 담당하는 인터페이스입니다.
	discoveryRunner contract.DiscoveryRunner

	// notificationSender 실행 결과 알림 전송을 담당하는 인터페이스입니다.
	notificationSender contract.NotificationSender

	running   bool
	runningMu sync.Mutex
}

// NewService 새로운 Scheduler 서비스 인스턴스를 생성합니다.
func NewService(cfg config.SchedulerConfig, runner contract.DiscoveryRunner, notificationSender contract.NotificationSender) *Scheduler {
	if runner == nil {
		panic("DiscoveryRunner는 필수입니다")
	}
	if notificationSender == nil {
		panic("NotificationSender는 필수입니다")
	}

	return &Scheduler{
		cfg: cfg,

		discoveryRunner: runner,

		notificationSender: notificationSender,
	}
}

// Start 스케줄러를 시작하고 키워드 발굴 작업을 Cron 엔진에 등록합니다.
//
// 매개변수:
//   - serviceStopCtx: 서비스 종료 신호를 받기 위한 Context
//   - serviceStopWG: 서비스 종료 완료를 알리기 위한 WaitGroup
func (s *Scheduler) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("서비스 시작 진입: Scheduler 서비스 초기화 프로세스를 시작합니다")

	if s.running {
		serviceStopWG.Done()
		applog.WithComponent(component).Warn("Scheduler 서비스가 이미 실행 중입니다 (중복 호출)")
		return nil
	}

	// 1. Cron 엔진 초기화
	// - StandardParser: 초 단위 스케줄링 지원 (6개 필드: 초 분 시 일 월 요일)
	// - Recover: Panic 발생 시 복구하여 다른 작업에 영향을 주지 않음
	// - SkipIfStillRunning: 이전 실행이 끝나지 않았으면 다음 실행을 건너뜀
	s.cron = cron.New(
		cron.WithParser(cronx.StandardParser()),
		cron.WithLogger(cron.VerbosePrintfLogger(applog.StandardLogger())),
		cron.WithChain(
			cron.Recover(cron.VerbosePrintfLogger(applog.StandardLogger())),
			cron.SkipIfStillRunning(cron.VerbosePrintfLogger(applog.StandardLogger())),
		),
	)

	// 2. 작업 등록
	if s.cfg.Runnable {
		if err := s.registerDiscoveryJob(serviceStopCtx); err != nil {
			serviceStopWG.Done()
			return err
		}
	} else {
		applog.WithComponent(component).Info("키워드 발굴 스케줄이 비활성화되어 있습니다 (수동 실행만 가능)")
	}

	// 3. 스케줄러 시작
	s.cron.Start()
	s.running = true

	applog.WithComponentAndFields(component, applog.Fields{
		"registered_schedules": len(s.cron.Entries()),
		"time_spec":            s.cfg.TimeSpec,
	}).Info("서비스 시작 완료: Scheduler 서비스가 정상적으로 초기화되었습니다")

	// 4. 종료 신호 대기 (고루틴)
	go func() {
		defer serviceStopWG.Done()

		<-serviceStopCtx.Done()

		s.Stop()
	}()

	return nil
}

// Stop 실행 중인 스케줄러를 안전하게 중지합니다.
func (s *Scheduler) Stop() {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running {
		return
	}

	applog.WithComponent(component).Info("종료 절차 진입: Scheduler 서비스 중지 시그널을 수신했습니다")

	// Cron 엔진 중지 및 실행 중인 작업 완료 대기
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}

	s.cron = nil
	s.running = false

	applog.WithComponent(component).Info("Scheduler 서비스 종료 완료: 모든 리소스가 정리되었습니다")
}

// registerDiscoveryJob 키워드 발굴 작업을 Cron 스케줄러에 등록합니다.
func (s *Scheduler) registerDiscoveryJob(serviceStopCtx context.Context) error {
	_, err := s.cron.AddFunc(s.cfg.TimeSpec, func() {
		// 발굴 작업의 생명주기를 서비스 종료 시그널과 분리한다.
		// Graceful Shutdown 시 cron.Stop()이 실행 중인 작업의 완료를 대기하므로,
		// 작업 도중 컨텍스트 취소로 인한 강제 중단을 방지하고 저장 데이터의 정합성을 보장한다.
		report, err := s.discoveryRunner.RunDiscovery(context.Background())
		if err != nil {
			s.logAndNotifyError(serviceStopCtx, "키워드 발굴 실패: 스케줄 실행 중 오류가 발생했습니다", err)
			return
		}

		applog.WithComponentAndFields(component, applog.Fields{
			"categories_processed": report.CategoriesProcessed,
			"keywords_discovered":  report.KeywordsDiscovered,
			"failed_queries":       report.FailedQueries,
			"elapsed":              report.Elapsed.String(),
		}).Info("키워드 발굴 스케줄 실행 완료")
	})
	if err != nil {
		return fmt.Errorf("스케줄 등록 실패: 잘못된 Cron 표현식입니다 (TimeSpec: %s): %w", s.cfg.TimeSpec, err)
	}

	return nil
}

// logAndNotifyError 스케줄러 실행 중 발생한 오류를 로깅하고 관리자에게 알림을 전송합니다.
func (s *Scheduler) logAndNotifyError(serviceStopCtx context.Context, message string, err error) {
	if err != nil {
		message = fmt.Sprintf("%s: %v", message, err)
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"error": err,
	}).Error(message)

	if notifyErr := s.notificationSender.Notify(serviceStopCtx, contract.Notification{
		Title:         "키워드 발굴 스케줄 오류",
		Message:       message,
		ErrorOccurred: true,
	}); notifyErr != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"error": notifyErr,
		}).Warn("오류 알림 전송에 실패했습니다")
	}
}
