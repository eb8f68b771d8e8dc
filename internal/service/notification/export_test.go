package notification

import (
	"golang.org/x/time/rate"

	"github.com/GaYoung-La/naver-shopping-trend/internal/config"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/contract"
	applog "github.com/GaYoung-La/naver-shopping-trend/pkg/log"
)

// NewServiceWithSender 테스트에서 실제 텔레그램 봇 초기화를 우회하고
// 가짜 전송기가 주입된 서비스를 생성합니다.
func NewServiceWithSender(cfg config.TelegramConfig, sender messageSender) (*Service, error) {
	return &Service{
		cfg: cfg,

		sender: sender,
		queue:  make(chan contract.Notification, notificationQueueSize),

		// 테스트가 전송 속도 제한에 걸려 느려지지 않도록 한도를 넉넉하게 둔다.
		limiter: rate.NewLimiter(rate.Limit(1000), 1000),

		logger: applog.WithComponent(component),
	}, nil
}

// BuildMessage 테스트에서 메시지 변환 결과를 검증하기 위해 노출합니다.
var BuildMessage = buildMessage

// SplitMessage 테스트에서 메시지 분할 결과를 검증하기 위해 노출합니다.
var SplitMessage = splitMessage
