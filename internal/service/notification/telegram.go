package notification

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	apperrors "github.com/GaYoung-La/naver-shopping-trend/internal/pkg/errors"
)

// maxMessageLength 텔레그램 Bot API가 허용하는 메시지 하나의 최대 길이 (바이트가 아닌 UTF-16 기준이지만
// 한글 메시지에서는 바이트 길이가 더 보수적인 한도이므로 바이트 길이로 검사한다)
const maxMessageLength = 4096

// messageSender 알림 채널로 메시지 하나를 전송하는 인터페이스
type messageSender interface {
	Send(chatID int64, text string) error
}

// telegramSender go-telegram-bot-api 기반 messageSender 구현체
type telegramSender struct {
	bot *tgbotapi.BotAPI
}

func newTelegramSender(token string) (*telegramSender, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Unauthorized, "텔레그램 봇 초기화에 실패했습니다. Bot Token 설정을 확인하세요")
	}

	return &telegramSender{bot: bot}, nil
}

func (s *telegramSender) Send(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := s.bot.Send(msg); err != nil {
		return apperrors.Wrap(err, apperrors.Unavailable, "텔레그램 메시지 전송에 실패했습니다")
	}

	return nil
}
