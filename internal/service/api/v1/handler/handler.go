// Package handler v1 API의 도메인 엔드포인트 핸들러를 제공합니다.
//
// 카테고리/키워드 관리, 급상승 키워드 분석, 브랜드 랭킹 갱신,
// 키워드 발굴 수동 실행 엔드포인트를 처리합니다.
package handler

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/GaYoung-La/naver-shopping-trend/internal/pkg/errors"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/api/httputil"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/category"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/contract"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/provider/navershopping"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/ranking"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/trend"
	applog "github.com/GaYoung-La/naver-shopping-trend/pkg/log"
	"github.com/labstack/echo/v4"
)

const component = "api.handler.v1"

// rankingTopN 브랜드 랭킹 갱신 시 수집할 상품 개수
const rankingTopN = 100

// TrendAnalyzer 급상승 키워드 분석의 실행을 담당하는 인터페이스입니다.
type TrendAnalyzer interface {
	FindRisingKeywords(ctx context.Context, keywords []string, opts trend.Options) (*trend.Analysis, error)
}

// ShoppingSearcher 쇼핑 검색 상위 상품 수집을 담당하는 인터페이스입니다.
type ShoppingSearcher interface {
	TopItems(ctx context.Context, query string, n int) ([]navershopping.Item, error)
}

// BrandRankingTracker 브랜드 랭킹 스냅샷의 갱신과 비교를 담당하는 인터페이스입니다.
type BrandRankingTracker interface {
	Update(keyword string, items []navershopping.Item) (*ranking.Comparison, error)
	RisingBrands(changes []ranking.BrandChange) []ranking.BrandChange
}

// BestKeywordSource 쇼핑 베스트 페이지의 인기 키워드 수집을 담당하는 인터페이스입니다.
type BestKeywordSource interface {
	FetchBestKeywords(ctx context.Context, pageURL string) ([]string, error)
}

// Handler v1 API의 도메인 엔드포인트 핸들러입니다.
type Handler struct {
	store *category.Store

	analyzer     TrendAnalyzer
	analyzerOpts trend.Options

	shopping ShoppingSearcher
	tracker  BrandRankingTracker

	// best 베스트 페이지 인기 키워드 수집기 (nil: 비활성화)
	best        BestKeywordSource
	bestPageURL string

	discoveryRunner contract.DiscoveryRunner
}

// NewHandler Handler 인스턴스를 생성합니다.
//
// best와 bestPageURL은 선택 사항이며, 미설정 시 베스트 키워드 엔드포인트는 비활성화됩니다.
func NewHandler(store *category.Store, analyzer TrendAnalyzer, analyzerOpts trend.Options, shopping ShoppingSearcher, tracker BrandRankingTracker, best BestKeywordSource, bestPageURL string, discoveryRunner contract.DiscoveryRunner) *Handler {
	if store == nil {
		panic("category.Store는 필수입니다")
	}
	if analyzer == nil {
		panic("TrendAnalyzer는 필수입니다")
	}
	if shopping == nil {
		panic("ShoppingSearcher는 필수입니다")
	}
	if tracker == nil {
		panic("BrandRankingTracker는 필수입니다")
	}
	if discoveryRunner == nil {
		panic("DiscoveryRunner는 필수입니다")
	}

	return &Handler{
		store: store,

		analyzer:     analyzer,
		analyzerOpts: analyzerOpts,

		shopping: shopping,
		tracker:  tracker,

		best:        best,
		bestPageURL: bestPageURL,

		discoveryRunner: discoveryRunner,
	}
}

// CategoryResponse 카테고리 목록 응답의 항목 형식입니다.
type CategoryResponse struct {
	Major string   `json:"major"`
	Subs  []string `json:"subs"`
}

// KeywordsResponse 카테고리별 활성 키워드 목록 응답 형식입니다.
type KeywordsResponse struct {
	Major    string   `json:"major"`
	Sub      string   `json:"sub,omitempty"`
	Keywords []string `json:"keywords"`
}

// AnalyzeResponse 급상승 키워드 분석 응답 형식입니다.
type AnalyzeResponse struct {
	Major         string               `json:"major"`
	Sub           string               `json:"sub,omitempty"`
	StartDate     string               `json:"start_date"`
	EndDate       string               `json:"end_date"`
	Rows          []trend.KeywordTrend `json:"rows"`
	FailedBatches int                  `json:"failed_batches"`
}

// RankingResponse 브랜드 랭킹 갱신 응답 형식입니다.
type RankingResponse struct {
	Keyword      string                `json:"keyword"`
	Date         string                `json:"date"`
	FirstRun     bool                  `json:"first_run"`
	Brands       int                   `json:"brands"`
	RisingBrands []ranking.BrandChange `json:"rising_brands"`
}

// KeywordSetResponse 카테고리의 키워드 집합(Auto/User/Enabled) 응답 형식입니다.
type KeywordSetResponse struct {
	Major   string   `json:"major"`
	Sub     string   `json:"sub,omitempty"`
	Auto    []string `json:"auto"`
	User    []string `json:"user"`
	Enabled []string `json:"enabled"`
}

type addKeywordRequest struct {
	Keyword string `json:"keyword"`
}

type enableKeywordRequest struct {
	Enabled bool `json:"enabled"`
}

type addSubcategoryRequest struct {
	Name string `json:"name"`
}

type analyzeRequest struct {
	Major string `json:"major"`
	Sub   string `json:"sub"`
}

// ListCategoriesHandler 등록된 전체 대분류/소분류 카테고리 목록을 반환합니다.
func (h *Handler) ListCategoriesHandler(c echo.Context) error {
	majors := h.store.Majors()

	categories := make([]CategoryResponse, 0, len(majors))
	for _, major := range majors {
		subs, err := h.store.Subs(major)
		if err != nil {
			return err
		}
		categories = append(categories, CategoryResponse{
			Major: major,
			Subs:  subs,
		})
	}

	return c.JSON(http.StatusOK, categories)
}

// ListKeywordsHandler 카테고리의 활성 키워드 목록을 반환합니다.
// sub 쿼리 파라미터를 생략하면 대분류 전체의 합집합을 반환합니다.
func (h *Handler) ListKeywordsHandler(c echo.Context) error {
	major := c.Param("major")
	sub := c.QueryParam("sub")

	keywords, err := h.store.EnabledKeywords(major, sub)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, KeywordsResponse{
		Major:    major,
		Sub:      sub,
		Keywords: keywords,
	})
}

// AddKeywordHandler 사용자 키워드를 카테고리에 추가합니다.
func (h *Handler) AddKeywordHandler(c echo.Context) error {
	var req addKeywordRequest
	if err := c.Bind(&req); err != nil {
		return httputil.NewBadRequestError("요청 본문의 형식이 올바르지 않습니다")
	}

	keyword := strings.TrimSpace(req.Keyword)
	if keyword == "" {
		return httputil.NewBadRequestError("키워드(keyword)는 필수입니다")
	}

	if err := h.store.AddUserKeyword(c.Param("major"), c.Param("sub"), keyword); err != nil {
		return err
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"major":   c.Param("major"),
		"sub":     c.Param("sub"),
		"keyword": keyword,
	}).Info("사용자 키워드가 추가되었습니다")

	return httputil.Success(c)
}

// RemoveKeywordHandler 카테고리에서 키워드를 제거합니다.
func (h *Handler) RemoveKeywordHandler(c echo.Context) error {
	if err := h.store.RemoveKeyword(c.Param("major"), c.Param("sub"), c.Param("keyword")); err != nil {
		return err
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"major":   c.Param("major"),
		"sub":     c.Param("sub"),
		"keyword": c.Param("keyword"),
	}).Info("키워드가 제거되었습니다")

	return httputil.Success(c)
}

// SetKeywordEnabledHandler 키워드의 분석 대상 포함 여부를 변경합니다.
func (h *Handler) SetKeywordEnabledHandler(c echo.Context) error {
	var req enableKeywordRequest
	if err := c.Bind(&req); err != nil {
		return httputil.NewBadRequestError("요청 본문의 형식이 올바르지 않습니다")
	}

	if err := h.store.SetEnabled(c.Param("major"), c.Param("sub"), c.Param("keyword"), req.Enabled); err != nil {
		return err
	}

	return httputil.Success(c)
}

// SetAllKeywordsEnabledHandler 카테고리의 전체 키워드를 일괄 활성화/비활성화합니다.
// sub 쿼리 파라미터를 생략하면 대분류 노드 자체의 키워드가 대상이 됩니다.
func (h *Handler) SetAllKeywordsEnabledHandler(c echo.Context) error {
	var req enableKeywordRequest
	if err := c.Bind(&req); err != nil {
		return httputil.NewBadRequestError("요청 본문의 형식이 올바르지 않습니다")
	}

	major := c.Param("major")
	sub := c.QueryParam("sub")

	if err := h.store.SetAllEnabled(major, sub, req.Enabled); err != nil {
		return err
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"major":   major,
		"sub":     sub,
		"enabled": req.Enabled,
	}).Info("카테고리 키워드가 일괄 변경되었습니다")

	return httputil.Success(c)
}

// KeywordSetsHandler 카테고리의 자동/사용자/활성 키워드 집합을 반환합니다.
// sub 쿼리 파라미터를 생략하면 대분류 전체의 합집합을, only_enabled=true이면
// 활성 키워드만 반환합니다.
func (h *Handler) KeywordSetsHandler(c echo.Context) error {
	major := c.Param("major")
	sub := c.QueryParam("sub")
	onlyEnabled := c.QueryParam("only_enabled") == "true"

	set, err := h.store.AllKeywords(major, sub, onlyEnabled)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, KeywordSetResponse{
		Major:   major,
		Sub:     sub,
		Auto:    set.Auto,
		User:    set.User,
		Enabled: set.Enabled,
	})
}

// AddSubcategoryHandler 대분류에 소분류 카테고리를 추가합니다.
func (h *Handler) AddSubcategoryHandler(c echo.Context) error {
	var req addSubcategoryRequest
	if err := c.Bind(&req); err != nil {
		return httputil.NewBadRequestError("요청 본문의 형식이 올바르지 않습니다")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return httputil.NewBadRequestError("소분류 이름(name)은 필수입니다")
	}

	if err := h.store.AddSubcategory(c.Param("major"), name); err != nil {
		return err
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"major": c.Param("major"),
		"sub":   name,
	}).Info("소분류 카테고리가 추가되었습니다")

	return httputil.Success(c)
}

// StatsHandler 카테고리 저장소의 전체 통계를 반환합니다.
func (h *Handler) StatsHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Stats())
}

// AnalyzeHandler 카테고리의 활성 키워드에 대한 급상승 키워드 분석을 실행합니다.
func (h *Handler) AnalyzeHandler(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return httputil.NewBadRequestError("요청 본문의 형식이 올바르지 않습니다")
	}

	if strings.TrimSpace(req.Major) == "" {
		return httputil.NewBadRequestError("대분류 카테고리(major)는 필수입니다")
	}

	keywords, err := h.store.EnabledKeywords(req.Major, req.Sub)
	if err != nil {
		return err
	}
	if len(keywords) == 0 {
		return apperrors.Newf(apperrors.InvalidInput, "카테고리 '%s'에 분석할 활성 키워드가 없습니다", req.Major)
	}

	analysis, err := h.analyzer.FindRisingKeywords(c.Request().Context(), keywords, h.analyzerOpts)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, AnalyzeResponse{
		Major:         req.Major,
		Sub:           req.Sub,
		StartDate:     analysis.StartDate,
		EndDate:       analysis.EndDate,
		Rows:          analysis.Rows,
		FailedBatches: len(analysis.Failures),
	})
}

// UpdateRankingHandler 키워드의 쇼핑 검색 상위 상품을 수집하여 브랜드 랭킹을 갱신하고,
// 직전 스냅샷 대비 급상승 브랜드 목록을 반환합니다.
func (h *Handler) UpdateRankingHandler(c echo.Context) error {
	keyword := c.Param("keyword")

	items, err := h.shopping.TopItems(c.Request().Context(), keyword, rankingTopN)
	if err != nil {
		return err
	}

	comparison, err := h.tracker.Update(keyword, items)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, RankingResponse{
		Keyword:      keyword,
		Date:         comparison.Snapshot.Date,
		FirstRun:     comparison.FirstRun,
		Brands:       len(comparison.Snapshot.Ranks),
		RisingBrands: h.tracker.RisingBrands(comparison.Changes),
	})
}

// BestKeywordsResponse 베스트 페이지 인기 키워드 응답 형식입니다.
type BestKeywordsResponse struct {
	Keywords []string `json:"keywords"`
}

// BestKeywordsHandler 쇼핑 베스트 페이지에서 인기 키워드 목록을 수집하여 반환합니다.
func (h *Handler) BestKeywordsHandler(c echo.Context) error {
	if h.best == nil || h.bestPageURL == "" {
		return apperrors.New(apperrors.NotFound, "베스트 페이지 수집이 설정되지 않았습니다 (discovery.best_page_url)")
	}

	keywords, err := h.best.FetchBestKeywords(c.Request().Context(), h.bestPageURL)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, BestKeywordsResponse{
		Keywords: keywords,
	})
}

// RunDiscoveryHandler 키워드 발굴 작업을 수동으로 실행합니다.
//
// 발굴 작업은 수 분이 소요될 수 있으므로 백그라운드에서 실행하며 즉시 202를 반환합니다.
// 실행 결과는 알림 채널로 전송되고, 이미 실행 중인 경우에는 로그로만 기록됩니다.
func (h *Handler) RunDiscoveryHandler(c echo.Context) error {
	applog.WithComponentAndFields(component, applog.Fields{
		"remote_ip": c.RealIP(),
	}).Info("키워드 발굴 수동 실행 요청을 수신하였습니다")

	// HTTP 요청의 수명과 분리된 Context를 사용하여 응답 후에도 작업을 계속 진행합니다.
	go func() {
		if _, err := h.discoveryRunner.RunDiscovery(context.Background()); err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"error": err,
			}).Error("키워드 발굴 수동 실행이 실패하였습니다")
		}
	}()

	return httputil.Accepted(c, "키워드 발굴 작업이 시작되었습니다")
}
