package config

import (
	"fmt"
	"time"

	apperrors "github.com/GaYoung-La/naver-shopping-trend/internal/pkg/errors"
	"github.com/GaYoung-La/naver-shopping-trend/pkg/validation"
)

// NaverConfig 네이버 오픈 API 호출에 사용되는 자격증명 설정 구조체
type NaverConfig struct {
	ClientID     string `json:"client_id" validate:"required"`
	ClientSecret string `json:"client_secret" validate:"required"`
}

func (c *NaverConfig) validate() error {
	if err := checkStruct(validate, c, "네이버 API"); err != nil {
		return err
	}
	return nil
}

// HTTPRetryConfig HTTP 요청 실패 시 재시도 횟수와 대기 시간을 정의하는 설정 구조체
type HTTPRetryConfig struct {
	MaxRetries int    `json:"max_retries" validate:"min=0,max=10"`
	RetryDelay string `json:"retry_delay"`
}

func (c *HTTPRetryConfig) validate() error {
	if err := checkStruct(validate, c, "HTTP 재시도 정책"); err != nil {
		return err
	}
	if _, err := time.ParseDuration(c.RetryDelay); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("HTTP 재시도 대기 시간(retry_delay) 설정이 올바르지 않습니다: '%s' (예: 1s, 500ms)", c.RetryDelay))
	}
	return nil
}

// RetryDelayDuration retry_delay 문자열을 time.Duration으로 변환하여 반환합니다.
// validate()를 통과한 설정에서만 호출해야 합니다.
func (c *HTTPRetryConfig) RetryDelayDuration() time.Duration {
	d, _ := time.ParseDuration(c.RetryDelay)
	return d
}

// RateLimitConfig 네이버 오픈 API 호출 속도 제한 설정 구조체
// 네이버 오픈 API는 일일 호출 한도가 있으므로 초당 호출 수를 제한하여 429 응답을 예방합니다.
type RateLimitConfig struct {
	RequestsPerSecond float64 `json:"requests_per_second" validate:"gt=0"`
	Burst             int     `json:"burst" validate:"min=1"`
}

func (c *RateLimitConfig) validate() error {
	return checkStruct(validate, c, "API 호출 속도 제한")
}

// StorageConfig 카테고리/랭킹 스냅샷 파일 저장소 설정 구조체
type StorageConfig struct {
	// Dir 스냅샷 JSON 파일이 저장될 디렉토리 경로
	Dir string `json:"dir" validate:"required"`

	// BackupRetention 스냅샷 덮어쓰기 시 보관할 타임스탬프 백업 파일의 최대 개수
	BackupRetention int `json:"backup_retention" validate:"min=0"`
}

func (c *StorageConfig) validate() error {
	return checkStruct(validate, c, "저장소")
}

// SchedulerConfig 주기 실행 여부와 Cron 표현식을 정의하는 공통 설정 구조체
type SchedulerConfig struct {
	Runnable bool   `json:"runnable"`
	TimeSpec string `json:"time_spec"`
}

func (c *SchedulerConfig) validate(contextName string) error {
	if !c.Runnable {
		return nil
	}
	if err := validation.ValidateCronExpression(c.TimeSpec); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("%s 스케줄러(time_spec) 설정이 유효하지 않습니다", contextName))
	}
	return nil
}

// DiscoveryConfig 자동 키워드 발굴 작업의 동작 방식을 정의하는 설정 구조체
type DiscoveryConfig struct {
	Scheduler SchedulerConfig `json:"scheduler"`

	// UpdateMode 발굴된 키워드를 기존 카테고리에 반영하는 방식 ("replace" 또는 "merge")
	UpdateMode string `json:"update_mode" validate:"oneof=replace merge"`

	// MinFrequency 키워드로 채택되기 위한 상품명 내 최소 등장 횟수
	MinFrequency int `json:"min_frequency" validate:"min=1"`

	// TitlesPerQuery 시드 검색어 하나당 수집할 상품명 개수
	TitlesPerQuery int `json:"titles_per_query" validate:"min=1,max=1000"`

	// Brands 등장 빈도와 무관하게 항상 채택되는 브랜드명 목록
	Brands []string `json:"brands"`

	// BestPageURL 인기 키워드를 추가로 수집할 HTML 페이지 주소 (빈 문자열: 비활성화)
	BestPageURL string `json:"best_page_url" validate:"omitempty,url"`
}

func (c *DiscoveryConfig) validate() error {
	if err := checkStruct(validate, c, "키워드 발굴"); err != nil {
		return err
	}
	return c.Scheduler.validate("키워드 발굴")
}

// AnalyzerConfig 급상승 키워드 분석의 조회 조건을 정의하는 설정 구조체
type AnalyzerConfig struct {
	// TopK 급상승으로 분류할 상위 키워드 개수
	TopK int `json:"top_k" validate:"min=0"`

	// PeriodDays 트렌드 조회 기간 (일 단위)
	PeriodDays int `json:"period_days" validate:"min=1,max=365"`

	// TimeUnit 트렌드 집계 단위 ("date", "week", "month")
	TimeUnit string `json:"time_unit" validate:"oneof=date week month"`

	// Device 기기 필터 ("": 전체, "pc", "mo")
	Device string `json:"device" validate:"omitempty,oneof=pc mo"`

	// Gender 성별 필터 ("": 전체, "m", "f")
	Gender string `json:"gender" validate:"omitempty,oneof=m f"`

	// Ages 연령대 필터 (예: "20", "30")
	Ages []string `json:"ages"`
}

func (c *AnalyzerConfig) validate() error {
	return checkStruct(validate, c, "트렌드 분석")
}

// RankingConfig 브랜드 랭킹 변동 분석 설정 구조체
type RankingConfig struct {
	// MinRise 급상승 브랜드로 분류하기 위한 최소 순위 상승폭
	MinRise int `json:"min_rise" validate:"min=1"`
}

func (c *RankingConfig) validate() error {
	return checkStruct(validate, c, "브랜드 랭킹")
}

// TelegramConfig 텔레그램 알림 채널 설정 구조체
type TelegramConfig struct {
	Enabled  bool   `json:"enabled"`
	BotToken string `json:"bot_token" validate:"required_if=Enabled true,omitempty,telegram_bot_token"`
	ChatID   int64  `json:"chat_id" validate:"required_if=Enabled true"`
}

// NotifierConfig 분석/발굴 결과 알림 채널을 정의하는 설정 구조체
type NotifierConfig struct {
	Telegram TelegramConfig `json:"telegram"`
}

func (c *NotifierConfig) validate() error {
	return checkStruct(validate, c, "알림")
}

// CORSConfig 웹 브라우저의 교차 출처 리소스 공유(CORS) 정책을 설정하는 구조체
type CORSConfig struct {
	AllowOrigins []string `json:"allow_origins" validate:"dive,cors_origin"`
}

func (c *CORSConfig) validate() error {
	if len(c.AllowOrigins) == 0 {
		return apperrors.New(apperrors.InvalidInput, "CORS 허용 도메인(allow_origins) 목록이 비어있습니다")
	}

	for _, origin := range c.AllowOrigins {
		if origin == "*" && len(c.AllowOrigins) > 1 {
			return apperrors.New(apperrors.InvalidInput, "와일드카드(*)는 다른 도메인과 함께 사용할 수 없습니다. 모든 도메인을 허용하려면 와일드카드만 설정하세요")
		}
	}

	return checkStruct(validate, c, "CORS")
}

// APIConfig REST API 서버의 수신 포트 및 CORS 설정 구조체
type APIConfig struct {
	ListenPort int        `json:"listen_port" validate:"min=1,max=65535"`
	CORS       CORSConfig `json:"cors"`
}

func (c *APIConfig) validate() error {
	if err := checkStruct(validate, c, "API 서버"); err != nil {
		return err
	}
	return c.CORS.validate()
}

// VerifyRecommendations 서비스 운영의 안정성을 위해 권장되는 설정 준수 여부를 진단합니다.
// 강제적인 에러를 발생시키지는 않으나, 잠재적 위험 요소에 대한 경고 메시지를 반환합니다.
func (c *APIConfig) VerifyRecommendations() []string {
	var warnings []string

	// 시스템 예약 포트(1024 미만) 사용 경고
	if c.ListenPort < 1024 {
		warnings = append(warnings, fmt.Sprintf("시스템 예약 포트(1-1023)를 사용하도록 설정되었습니다(port: %d). 이 경우 서버 구동 시 관리자 권한이 필요할 수 있습니다", c.ListenPort))
	}

	return warnings
}
