// Package notification은 키워드 발굴/분석 결과와 오류 상황을 텔레그램으로 전송하는
// 발송 전용 알림 서비스를 제공합니다.
package notification

import (
	"context"
	"html"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/GaYoung-La/naver-shopping-trend/internal/config"
	apperrors "github.com/GaYoung-La/naver-shopping-trend/internal/pkg/errors"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/contract"
	applog "github.com/GaYoung-La/naver-shopping-trend/pkg/log"
)

const component = "notification.service"

const (
	// notificationQueueSize 발송 대기 큐의 크기. 큐가 가득 차면 Notify는 에러를 반환한다.
	notificationQueueSize = 100

	// 텔레그램 Bot API의 초당 메시지 전송 한도에 맞춘 발송 속도
	sendRatePerSecond = 1
	sendBurst         = 3

	// drainTimeout 서비스 종료 시 큐에 남은 알림의 발송을 대기하는 최대 시간
	drainTimeout = 30 * time.Second
)

var (
	// ErrQueueFull 발송 대기 큐가 가득 찬 경우에 발생되는 에러
	ErrQueueFull = apperrors.New(apperrors.Unavailable, "알림 발송 대기 큐가 가득 찼습니다")

	// ErrServiceNotRunning 서비스가 시작되지 않은 상태에서 알림을 등록하려는 경우에 발생되는 에러
	ErrServiceNotRunning = apperrors.New(apperrors.Unavailable, "알림 서비스가 실행 중이 아닙니다")
)

// Service 텔레그램 발송 전용 알림 서비스입니다.
//
// Notify로 등록된 알림은 내부 큐에 쌓이고, 전담 고루틴이 전송 속도를 제한하며
// 순차적으로 발송합니다. Bot Token이 설정되지 않은 경우 모든 알림을 조용히 무시합니다.
type Service struct {
	cfg config.TelegramConfig

	sender messageSender
	queue  chan contract.Notification

	limiter *rate.Limiter

	running   bool
	runningMu sync.Mutex

	logger *applog.Entry
}

// NewService 새로운 알림 서비스 인스턴스를 생성합니다.
// 텔레그램 채널이 비활성화된 경우에도 서비스 객체는 정상적으로 생성되며, 알림은 무시됩니다.
func NewService(cfg config.TelegramConfig) (*Service, error) {
	s := &Service{
		cfg: cfg,

		queue:   make(chan contract.Notification, notificationQueueSize),
		limiter: rate.NewLimiter(rate.Limit(sendRatePerSecond), sendBurst),

		logger: applog.WithComponent(component),
	}

	if !cfg.Enabled {
		s.logger.Info("텔레그램 알림 채널이 비활성화되어 있습니다 (모든 알림이 무시됩니다)")
		return s, nil
	}

	sender, err := newTelegramSender(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	s.sender = sender

	return s, nil
}

// Start 알림 발송 고루틴을 시작합니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	s.logger.Info("서비스 시작 진입: Notification 서비스 초기화 프로세스를 시작합니다")

	if s.running {
		serviceStopWG.Done()
		s.logger.Warn("Notification 서비스가 이미 실행 중입니다 (중복 호출)")
		return nil
	}

	s.running = true

	go s.sendLoop(serviceStopCtx, serviceStopWG)

	s.logger.WithFields(applog.Fields{"enabled": s.cfg.Enabled}).Info("서비스 시작 완료: Notification 서비스가 정상적으로 초기화되었습니다")

	return nil
}

// Notify 알림을 발송 대기 큐에 등록합니다.
// 채널이 비활성화된 경우 알림은 무시되고 에러 없이 반환됩니다.
func (s *Service) Notify(_ context.Context, notification contract.Notification) error {
	if !s.cfg.Enabled {
		return nil
	}

	s.runningMu.Lock()
	running := s.running
	s.runningMu.Unlock()
	if !running {
		return ErrServiceNotRunning
	}

	select {
	case s.queue <- notification:
		return nil
	default:
		return ErrQueueFull
	}
}

// sendLoop 발송 대기 큐의 알림을 순차적으로 발송하는 작업 루프입니다.
// 종료 시그널 수신 후에는 큐에 남은 알림을 제한 시간 내에서 최대한 발송합니다.
func (s *Service) sendLoop(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) {
	defer serviceStopWG.Done()

	defer func() {
		if r := recover(); r != nil {
			s.logger.WithFields(applog.Fields{"panic": r}).Error("발송 프로세스 비정상 종료: Sender 고루틴 패닉 발생")

			s.runningMu.Lock()
			s.running = false
			s.runningMu.Unlock()
		}
	}()

	for {
		select {
		case notification := <-s.queue:
			s.send(serviceStopCtx, notification)

		case <-serviceStopCtx.Done():
			s.drainRemainingNotifications()

			s.runningMu.Lock()
			s.running = false
			s.runningMu.Unlock()

			s.logger.Info("Notification 서비스 종료 완료: 모든 리소스가 정리되었습니다")
			return
		}
	}
}

// drainRemainingNotifications 종료 시그널 수신 시점에 큐에 남아있는 알림을 발송합니다.
// 제한 시간을 초과하면 남은 알림은 유실될 수 있습니다.
func (s *Service) drainRemainingNotifications() {
	drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	for {
		select {
		case notification := <-s.queue:
			s.send(drainCtx, notification)
		case <-drainCtx.Done():
			if remaining := len(s.queue); remaining > 0 {
				s.logger.WithFields(applog.Fields{"remaining": remaining}).Warn("발송 제한 시간이 초과되어 남은 알림이 유실되었습니다")
			}
			return
		default:
			return
		}
	}
}

func (s *Service) send(ctx context.Context, notification contract.Notification) {
	if s.sender == nil {
		return
	}

	for _, chunk := range splitMessage(buildMessage(notification), maxMessageLength) {
		if err := s.limiter.Wait(ctx); err != nil {
			s.logger.WithError(err).Warn("전송 속도 제한 대기 중 종료 시그널을 수신했습니다")
			return
		}

		if err := s.sender.Send(s.cfg.ChatID, chunk); err != nil {
			s.logger.WithFields(applog.Fields{"title": notification.Title}).WithError(err).Error("알림 발송에 실패했습니다")
			return
		}
	}
}

// buildMessage 알림을 텔레그램 HTML 메시지로 변환합니다.
func buildMessage(notification contract.Notification) string {
	title := notification.Title
	if notification.ErrorOccurred {
		title = "[오류] " + title
	}

	message := "<b>" + html.EscapeString(title) + "</b>"
	if notification.Message != "" {
		message += "\n\n" + html.EscapeString(notification.Message)
	}

	return message
}
