// Package discovery는 카테고리별 시드 검색어로 인기 상품명을 수집하고
// 키워드를 추출하여 카테고리 트리에 반영하는 자동 키워드 발굴 서비스를 제공합니다.
package discovery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/GaYoung-La/naver-shopping-trend/internal/config"
	apperrors "github.com/GaYoung-La/naver-shopping-trend/internal/pkg/errors"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/category"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/contract"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/keyword"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/provider/datalab"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/provider/navershopping"
	applog "github.com/GaYoung-La/naver-shopping-trend/pkg/log"
)

const component = "discovery.service"

// insightPeriodDays 쇼핑인사이트 인기 키워드 조회 시 사용하는 최근 조회 기간 (일 단위)
const insightPeriodDays = 30

const dateLayout = "2006-01-02"

// ShoppingSource 시드 검색어로 인기 상품 목록을 수집하는 인터페이스
type ShoppingSource interface {
	TopItems(ctx context.Context, query string, n int) ([]navershopping.Item, error)
}

// InsightSource 카테고리별 인기 키워드를 수집하는 인터페이스
type InsightSource interface {
	PopularKeywords(ctx context.Context, categoryName string, categoryIDs []string, opts datalab.SearchOptions) ([]string, error)
}

// Service 자동 키워드 발굴 서비스
//
// 대분류의 시드 검색어와 소분류 이름으로 인기 상품명을 수집한 뒤 키워드를 추출하여
// 소분류별 자동 키워드로 반영합니다. 쇼핑인사이트 클라이언트가 주어진 경우
// 대분류별 인기 키워드도 발굴 결과에 병합됩니다.
type Service struct {
	cfg config.DiscoveryConfig

	store     *category.Store
	shopping  ShoppingSource
	insight   InsightSource
	extractor *keyword.Extractor
	notifier  contract.NotificationSender

	// runMu 발굴 실행을 직렬화한다 (스케줄 실행과 수동 실행이 겹칠 수 있음).
	runMu sync.Mutex

	logger *applog.Entry
}

// NewService Service 객체를 생성하여 반환합니다.
// insight는 쇼핑인사이트 수집을 사용하지 않는 경우 nil일 수 있습니다.
func NewService(cfg config.DiscoveryConfig, store *category.Store, shopping ShoppingSource, insight InsightSource, notifier contract.NotificationSender) (*Service, error) {
	if store == nil {
		return nil, apperrors.New(apperrors.InvalidInput, "카테고리 저장소 객체가 초기화되지 않았습니다")
	}
	if shopping == nil {
		return nil, apperrors.New(apperrors.InvalidInput, "쇼핑 검색 클라이언트 객체가 초기화되지 않았습니다")
	}
	if notifier == nil {
		return nil, apperrors.New(apperrors.InvalidInput, "알림 전송 객체가 초기화되지 않았습니다")
	}

	return &Service{
		cfg: cfg,

		store:     store,
		shopping:  shopping,
		insight:   insight,
		extractor: keyword.NewExtractor(cfg.Brands),
		notifier:  notifier,

		logger: applog.WithComponent(component),
	}, nil
}

// RunDiscovery 전체 카테고리에 대해 키워드 발굴을 1회 실행합니다.
// 이미 실행 중인 발굴이 있으면 Conflict 에러를 반환합니다.
func (s *Service) RunDiscovery(ctx context.Context) (*contract.DiscoveryReport, error) {
	if !s.runMu.TryLock() {
		return nil, apperrors.New(apperrors.Conflict, "키워드 발굴이 이미 실행 중입니다")
	}
	defer s.runMu.Unlock()

	report := &contract.DiscoveryReport{StartedAt: time.Now()}

	s.logger.WithFields(applog.Fields{"update_mode": s.cfg.UpdateMode}).Info("키워드 발굴을 시작합니다")

	for _, major := range s.store.Majors() {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.Wrap(err, apperrors.Timeout, "키워드 발굴이 중단되었습니다")
		}

		if err := s.discoverMajor(ctx, major, report); err != nil {
			return nil, err
		}
	}

	report.Elapsed = time.Since(report.StartedAt)

	s.logger.WithFields(applog.Fields{
		"categories_processed": report.CategoriesProcessed,
		"keywords_discovered":  report.KeywordsDiscovered,
		"failed_queries":       report.FailedQueries,
		"elapsed":              report.Elapsed.String(),
	}).Info("키워드 발굴이 완료되었습니다")

	s.notifyReport(ctx, report)

	return report, nil
}

// discoverMajor 대분류 하나의 모든 소분류에 대해 키워드를 발굴합니다.
func (s *Service) discoverMajor(ctx context.Context, majorName string, report *contract.DiscoveryReport) error {
	node, err := s.store.Lookup(majorName, "")
	if err != nil {
		return err
	}

	// 대분류의 시드 검색어로 수집한 상품은 모든 소분류가 공유한다.
	majorProducts := s.collectProducts(ctx, node.SeedQueries, report)

	insightKeywords := s.collectInsightKeywords(ctx, node)

	subs, err := s.store.Subs(majorName)
	if err != nil {
		return err
	}

	for _, subName := range subs {
		if err := ctx.Err(); err != nil {
			return apperrors.Wrap(err, apperrors.Timeout, "키워드 발굴이 중단되었습니다")
		}

		subProducts := s.collectProducts(ctx, []string{subName}, report)

		products := make([]keyword.Product, 0, len(majorProducts)+len(subProducts))
		products = append(products, majorProducts...)
		products = append(products, subProducts...)

		keywords := s.extractor.Extract(products, s.cfg.MinFrequency)
		keywords = mergeKeywords(keywords, insightKeywords)

		// 수집 자체가 실패한 경우 빈 목록을 반영하면 교체 모드에서
		// 기존 자동 키워드가 모두 지워지므로 해당 소분류는 건너뛴다.
		if len(keywords) == 0 {
			s.logger.WithFields(applog.Fields{"major": majorName, "sub": subName}).Warn("발굴된 키워드가 없어 소분류 반영을 건너뜁니다")
			continue
		}

		if err := s.store.ApplyDiscovered(majorName, subName, keywords, category.UpdateMode(s.cfg.UpdateMode)); err != nil {
			return err
		}

		report.CategoriesProcessed++
		report.KeywordsDiscovered += len(keywords)

		s.logger.WithFields(applog.Fields{
			"major":    majorName,
			"sub":      subName,
			"products": len(products),
			"keywords": len(keywords),
		}).Debug("소분류 키워드 반영 완료")
	}

	return nil
}

// collectProducts 검색어 목록 각각으로 인기 상품을 수집하여 하나의 풀로 합칩니다.
// 실패한 검색어는 보고서에 집계하고 계속 진행합니다.
func (s *Service) collectProducts(ctx context.Context, queries []string, report *contract.DiscoveryReport) []keyword.Product {
	products := make([]keyword.Product, 0, len(queries)*s.cfg.TitlesPerQuery)
	for _, query := range queries {
		if query == "" {
			continue
		}

		items, err := s.shopping.TopItems(ctx, query, s.cfg.TitlesPerQuery)
		if err != nil {
			report.FailedQueries++
			s.logger.WithFields(applog.Fields{"query": query}).WithError(err).Warn("상품 수집에 실패했습니다")
			continue
		}
		for _, item := range items {
			products = append(products, keyword.Product{Title: item.Title, Brand: item.Brand})
		}
	}

	return products
}

// collectInsightKeywords 쇼핑인사이트에서 대분류의 인기 키워드를 수집합니다.
func (s *Service) collectInsightKeywords(ctx context.Context, node *category.MajorNode) []string {
	if s.insight == nil || node.CategoryID == "" {
		return nil
	}

	end := time.Now().AddDate(0, 0, -1)
	start := end.AddDate(0, 0, -insightPeriodDays)

	keywords, err := s.insight.PopularKeywords(ctx, node.Name, []string{node.CategoryID}, datalab.SearchOptions{
		StartDate: start.Format(dateLayout),
		EndDate:   end.Format(dateLayout),
		TimeUnit:  "date",
	})
	if err != nil {
		s.logger.WithFields(applog.Fields{"major": node.Name}).WithError(err).Warn("쇼핑인사이트 인기 키워드 수집에 실패했습니다")
		return nil
	}

	return keywords
}

func (s *Service) notifyReport(ctx context.Context, report *contract.DiscoveryReport) {
	message := fmt.Sprintf("처리된 카테고리: %d개\n발굴된 키워드: %d개\n실패한 검색어: %d개\n소요 시간: %s",
		report.CategoriesProcessed, report.KeywordsDiscovered, report.FailedQueries, report.Elapsed.Round(time.Second))

	if err := s.notifier.Notify(ctx, contract.Notification{
		Title:   "키워드 발굴 완료",
		Message: message,
	}); err != nil {
		s.logger.WithError(err).Warn("발굴 결과 알림 전송에 실패했습니다")
	}
}

func mergeKeywords(base, extra []string) []string {
	if len(extra) == 0 {
		return base
	}

	seen := make(map[string]struct{}, len(base))
	for _, kw := range base {
		seen[kw] = struct{}{}
	}

	merged := base
	for _, kw := range extra {
		if _, ok := seen[kw]; !ok {
			seen[kw] = struct{}{}
			merged = append(merged, kw)
		}
	}

	return merged
}
