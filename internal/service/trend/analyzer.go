package trend

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/GaYoung-La/naver-shopping-trend/internal/config"
	apperrors "github.com/GaYoung-La/naver-shopping-trend/internal/pkg/errors"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/provider/datalab"
	applog "github.com/GaYoung-La/naver-shopping-trend/pkg/log"
)

const component = "trend.analyzer"

const dateLayout = "2006-01-02"

// TrendSource 키워드별 상대 검색량 시계열을 조회하는 인터페이스
type TrendSource interface {
	SearchTrend(ctx context.Context, keywords []string, opts datalab.SearchOptions) (map[string][]datalab.RatioPoint, error)
}

// Options 급상승 키워드 분석 한 번의 조회 조건
type Options struct {
	TopK       int
	PeriodDays int
	TimeUnit   string
	Device     string
	Gender     string
	Ages       []string
}

// OptionsFromConfig 분석 설정으로부터 기본 조회 조건을 생성하여 반환합니다.
func OptionsFromConfig(cfg config.AnalyzerConfig) Options {
	return Options{
		TopK:       cfg.TopK,
		PeriodDays: cfg.PeriodDays,
		TimeUnit:   cfg.TimeUnit,
		Device:     cfg.Device,
		Gender:     cfg.Gender,
		Ages:       cfg.Ages,
	}
}

// BatchFailure 분석 중 실패한 배치 하나의 키워드 목록과 원인입니다.
type BatchFailure struct {
	Keywords []string
	Err      error
}

// Analysis 급상승 키워드 분석 결과
type Analysis struct {
	// Rows 변화량 기준으로 정렬된 키워드별 지표 (급상승 라벨 포함)
	Rows []KeywordTrend

	// Failures 실패한 배치 목록 (전체 실패가 아닌 한 분석은 계속 진행됨)
	Failures []BatchFailure

	BatchesAttempted int
	EmptySeries      int

	StartDate string
	EndDate   string
}

// Analyzer 활성 키워드 목록을 데이터랩 조회 단위로 나누어 호출하고
// 결과 시계열을 순위화하여 급상승 키워드를 찾아냅니다.
type Analyzer struct {
	source TrendSource

	logger *applog.Entry
}

// NewAnalyzer Analyzer 객체를 생성하여 반환합니다.
func NewAnalyzer(source TrendSource) *Analyzer {
	return &Analyzer{
		source: source,

		logger: applog.WithComponent(component),
	}
}

// FindRisingKeywords 키워드 목록을 최대 5개 단위의 배치로 나누어 트렌드를 조회합니다.
// 일부 배치가 실패하더라도 분석은 계속되며, 모든 배치가 실패한 경우에만 에러를 반환합니다.
func (a *Analyzer) FindRisingKeywords(ctx context.Context, keywords []string, opts Options) (*Analysis, error) {
	if len(keywords) == 0 {
		return nil, apperrors.New(apperrors.InvalidInput, "분석할 키워드가 없습니다")
	}

	// 당일 데이터는 집계가 완료되지 않았으므로 어제까지를 조회 기간으로 사용한다.
	endDate := time.Now().AddDate(0, 0, -1)
	startDate := endDate.AddDate(0, 0, -opts.PeriodDays)

	searchOpts := datalab.SearchOptions{
		StartDate: startDate.Format(dateLayout),
		EndDate:   endDate.Format(dateLayout),
		TimeUnit:  opts.TimeUnit,
		Device:    opts.Device,
		Gender:    opts.Gender,
		Ages:      opts.Ages,
	}

	analysis := &Analysis{
		StartDate: searchOpts.StartDate,
		EndDate:   searchOpts.EndDate,
	}

	merged := make(map[string][]datalab.RatioPoint)
	for start := 0; start < len(keywords); start += datalab.MaxKeywordGroups {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.Wrap(err, apperrors.Timeout, "급상승 키워드 분석이 중단되었습니다")
		}

		batch := keywords[start:min(start+datalab.MaxKeywordGroups, len(keywords))]
		analysis.BatchesAttempted++

		series, err := a.source.SearchTrend(ctx, batch, searchOpts)
		if err != nil {
			a.logger.WithFields(applog.Fields{"keywords": strings.Join(batch, ", ")}).WithError(err).Warn("트렌드 조회 배치가 실패하였습니다")
			analysis.Failures = append(analysis.Failures, BatchFailure{Keywords: batch, Err: err})
			continue
		}

		for keyword, points := range series {
			if len(points) == 0 {
				analysis.EmptySeries++
				continue
			}
			merged[keyword] = points
		}
	}

	if len(analysis.Failures) == analysis.BatchesAttempted {
		causes := make([]error, 0, len(analysis.Failures))
		for _, failure := range analysis.Failures {
			causes = append(causes, failure.Err)
		}
		return nil, apperrors.Wrapf(errors.Join(causes...), apperrors.ExecutionFailed, "모든 트렌드 조회 배치(%d개)가 실패하였습니다", analysis.BatchesAttempted)
	}

	if len(merged) == 0 {
		return nil, apperrors.Newf(apperrors.Empty, "조회 기간(%s ~ %s) 내 검색량 데이터가 존재하는 키워드가 없습니다(배치 시도: %d, 실패: %d, 데이터 없음: %d)",
			analysis.StartDate, analysis.EndDate, analysis.BatchesAttempted, len(analysis.Failures), analysis.EmptySeries)
	}

	analysis.Rows = NewRankingEngine(opts.TopK).Rank(merged)

	a.logger.WithFields(applog.Fields{
		"keywords": len(keywords),
		"batches":  analysis.BatchesAttempted,
		"failed":   len(analysis.Failures),
		"rows":     len(analysis.Rows),
	}).Info("급상승 키워드 분석이 완료되었습니다")

	return analysis, nil
}
