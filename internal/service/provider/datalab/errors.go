package datalab

import (
	apperrors "github.com/GaYoung-La/naver-shopping-trend/internal/pkg/errors"
)

var (
	// ErrClientIDRequired 네이버 오픈 API Client ID가 설정되지 않은 경우에 발생되는 에러
	ErrClientIDRequired = apperrors.New(apperrors.InvalidInput, "네이버 오픈 API Client ID가 설정되지 않았습니다")

	// ErrClientSecretRequired 네이버 오픈 API Client Secret이 설정되지 않은 경우에 발생되는 에러
	ErrClientSecretRequired = apperrors.New(apperrors.InvalidInput, "네이버 오픈 API Client Secret이 설정되지 않았습니다")
)
