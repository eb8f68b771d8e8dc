// Package config는 애플리케이션 환경설정의 로드와 검증을 담당합니다.
//
// 설정은 다음 우선순위로 병합됩니다. (뒤로 갈수록 높은 우선순위)
//
//  1. 구조체 기본값 (defaultConfig)
//  2. JSON 설정 파일
//  3. 환경 변수 (접두사 TREND_, 이중 언더스코어(__)로 계층 표현)
package config

import (
	"fmt"
	"os"
	"strings"

	apperrors "github.com/GaYoung-La/naver-shopping-trend/internal/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// AppName 애플리케이션의 전역 고유 식별자입니다.
	AppName string = "trend-server"

	// DefaultFilename 애플리케이션 초기화 시 참조하는 기본 설정 파일명입니다.
	// 실행 인자를 통해 명시적인 경로가 제공되지 않을 경우, 시스템은 이 파일을 탐색하여 구성을 로드합니다.
	DefaultFilename = AppName + ".json"

	// envPrefix 환경 변수 오버라이드에 사용되는 접두사입니다.
	// 예: TREND_NAVER__CLIENT_ID -> naver.client_id
	envPrefix = "TREND_"
)

// AppConfig 애플리케이션의 모든 설정을 관장하는 최상위 루트 구조체
type AppConfig struct {
	Debug     bool            `json:"debug"`
	Naver     NaverConfig     `json:"naver"`
	HTTPRetry HTTPRetryConfig `json:"http_retry"`
	RateLimit RateLimitConfig `json:"rate_limit"`
	Storage   StorageConfig   `json:"storage"`
	Discovery DiscoveryConfig `json:"discovery"`
	Analyzer  AnalyzerConfig  `json:"analyzer"`
	Ranking   RankingConfig   `json:"ranking"`
	Notifier  NotifierConfig  `json:"notifier"`
	API       APIConfig       `json:"api"`
}

// validate 설정 파일 로드 직후, 각 설정 항목의 정합성과 필수 값의 유효성을 검증합니다.
func (c *AppConfig) validate() error {
	if err := c.Naver.validate(); err != nil {
		return err
	}
	if err := c.HTTPRetry.validate(); err != nil {
		return err
	}
	if err := c.RateLimit.validate(); err != nil {
		return err
	}
	if err := c.Storage.validate(); err != nil {
		return err
	}
	if err := c.Discovery.validate(); err != nil {
		return err
	}
	if err := c.Analyzer.validate(); err != nil {
		return err
	}
	if err := c.Ranking.validate(); err != nil {
		return err
	}
	if err := c.Notifier.validate(); err != nil {
		return err
	}
	if err := c.API.validate(); err != nil {
		return err
	}
	return nil
}

// VerifyRecommendations 서비스 운영의 안정성과 보안을 위해 권장되는 설정 준수 여부를 진단합니다.
func (c *AppConfig) VerifyRecommendations() []string {
	return c.API.VerifyRecommendations()
}

// defaultConfig 명시적인 설정이 없을 때 적용되는 기본값입니다.
// 네이버 API 자격증명은 기본값이 없으므로 설정 파일 또는 환경 변수로 반드시 제공해야 합니다.
func defaultConfig() AppConfig {
	return AppConfig{
		HTTPRetry: HTTPRetryConfig{
			MaxRetries: 3,
			RetryDelay: "2s",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Storage: StorageConfig{
			Dir:             "data",
			BackupRetention: 5,
		},
		Discovery: DiscoveryConfig{
			Scheduler: SchedulerConfig{
				Runnable: false,
				TimeSpec: "0 0 6 * * *",
			},
			UpdateMode:     "merge",
			MinFrequency:   3,
			TitlesPerQuery: 100,
		},
		Analyzer: AnalyzerConfig{
			TopK:       10,
			PeriodDays: 30,
			TimeUnit:   "date",
		},
		Ranking: RankingConfig{
			MinRise: 10,
		},
		API: APIConfig{
			ListenPort: 8080,
			CORS: CORSConfig{
				AllowOrigins: []string{"*"},
			},
		},
	}
}

// Load 기본 설정 파일을 읽어 애플리케이션 설정을 로드합니다.
func Load() (*AppConfig, error) {
	return LoadWithFile(DefaultFilename)
}

// LoadWithFile 지정된 경로의 설정 파일을 읽어 AppConfig 객체를 생성합니다.
func LoadWithFile(filename string) (*AppConfig, error) {
	k := koanf.New(".")

	// 1. 기본값 로드 (가장 낮은 우선순위)
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "json"), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "애플리케이션 기본 설정 로드에 실패했습니다")
	}

	// 2. JSON 설정 파일 로드 (기본값 덮어쓰기)
	if err := k.Load(file.Provider(filename), json.Parser()); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(err, apperrors.System, fmt.Sprintf("설정 파일을 찾을 수 없습니다: '%s'", filename))
		}
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일 로드 중 오류가 발생했습니다: '%s'", filename))
	}

	// 3. 환경 변수 로드 (최우선 순위, JSON 설정 덮어쓰기)
	// 접두사: TREND_
	// 구분자: 이중 언더스코어(__)를 점(.)으로 변환 (계층 구조 표현)
	// 예: TREND_NAVER__CLIENT_SECRET -> naver.client_secret
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "환경 변수 로드에 실패했습니다")
	}

	// 4. 구조체 언마샬링 (Strict Validation 적용)
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			ErrorUnused:      true, // 파일에 존재하지만 구조체에 없는 필드가 있을 경우 에러를 발생시킴
			WeaklyTypedInput: true,
		},
	}
	var appConfig AppConfig
	if err := k.UnmarshalWithConf("", &appConfig, unmarshalConf); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "설정 데이터를 애플리케이션 구조체로 변환하는데 실패했습니다")
	}

	// 5. 유효성 검사 수행 (정합성 체크)
	if err := appConfig.validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일('%s')의 유효성 검증에 실패했습니다", filename))
	}

	return &appConfig, nil
}
