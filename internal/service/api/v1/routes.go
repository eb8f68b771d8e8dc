// Package v1 v1 API의 라우트 구성을 담당합니다.
package v1

import (
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/api/v1/handler"
	"github.com/labstack/echo/v4"
)

// SetupRoutes /api/v1 그룹에 도메인 엔드포인트들을 등록합니다.
func SetupRoutes(e *echo.Echo, h *handler.Handler) {
	g := e.Group("/api/v1")

	// 카테고리/키워드 관리
	g.GET("/categories", h.ListCategoriesHandler)
	g.GET("/categories/:major/keywords", h.ListKeywordsHandler)
	g.GET("/categories/:major/keyword-sets", h.KeywordSetsHandler)
	g.POST("/categories/:major/subs", h.AddSubcategoryHandler)
	g.POST("/categories/:major/:sub/keywords", h.AddKeywordHandler)
	g.DELETE("/categories/:major/:sub/keywords/:keyword", h.RemoveKeywordHandler)
	g.PUT("/categories/:major/:sub/keywords/:keyword/enabled", h.SetKeywordEnabledHandler)
	g.PUT("/categories/:major/keywords/enabled", h.SetAllKeywordsEnabledHandler)

	// 카테고리 통계
	g.GET("/stats", h.StatsHandler)

	// 트렌드 분석 / 브랜드 랭킹
	g.POST("/analyze", h.AnalyzeHandler)
	g.POST("/ranking/:keyword", h.UpdateRankingHandler)

	// 베스트 페이지 인기 키워드
	g.GET("/best-keywords", h.BestKeywordsHandler)

	// 키워드 발굴 수동 실행
	g.POST("/discovery/run", h.RunDiscoveryHandler)
}
