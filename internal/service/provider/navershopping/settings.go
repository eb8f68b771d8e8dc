package navershopping

import (
	apperrors "github.com/GaYoung-La/naver-shopping-trend/internal/pkg/errors"
)

var (
	// ErrClientIDRequired 네이버 오픈 API Client ID가 설정되지 않은 경우에 발생되는 에러
	ErrClientIDRequired = apperrors.New(apperrors.InvalidInput, "네이버 오픈 API Client ID가 설정되지 않았습니다")

	// ErrClientSecretRequired 네이버 오픈 API Client Secret이 설정되지 않은 경우에 발생되는 에러
	ErrClientSecretRequired = apperrors.New(apperrors.InvalidInput, "네이버 오픈 API Client Secret이 설정되지 않았습니다")
)

// Settings 쇼핑 검색 API 호출에 필요한 설정값
type Settings struct {
	ClientID     string
	ClientSecret string
}

func (s *Settings) validate() error {
	if s.ClientID == "" {
		return ErrClientIDRequired
	}
	if s.ClientSecret == "" {
		return ErrClientSecretRequired
	}
	return nil
}
