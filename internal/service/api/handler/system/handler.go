// Package system 시스템 엔드포인트 핸들러를 제공합니다.
//
// 헬스체크, 버전 정보 등 시스템 수준의 API를 처리합니다.
package system

import (
	"net/http"
	"time"

	"github.com/GaYoung-La/naver-shopping-trend/internal/pkg/version"
	applog "github.com/GaYoung-La/naver-shopping-trend/pkg/log"
	"github.com/labstack/echo/v4"
)

const component = "api.handler.system"

const (
	healthStatusHealthy   = "healthy"
	healthStatusUnhealthy = "unhealthy"
)

// HealthChecker 외부 의존성의 상태 점검 함수입니다.
// nil이 아닌 에러를 반환하면 해당 의존성은 unhealthy로 분류됩니다.
type HealthChecker func() error

// HealthResponse 헬스체크 응답 형식입니다.
type HealthResponse struct {
	Status       string                      `json:"status"`
	Uptime       int64                       `json:"uptime"`
	Dependencies map[string]DependencyStatus `json:"dependencies,omitempty"`
}

// DependencyStatus 개별 의존성의 상태 정보입니다.
type DependencyStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Handler 시스템 엔드포인트 핸들러 (헬스체크, 버전 정보)
type Handler struct {
	buildInfo version.Info

	// dependencies 헬스체크 시 점검할 외부 의존성 목록 (이름 -> 점검 함수)
	dependencies map[string]HealthChecker

	serverStartTime time.Time
}

// NewHandler Handler 인스턴스를 생성합니다.
func NewHandler(buildInfo version.Info, dependencies map[string]HealthChecker) *Handler {
	return &Handler{
		buildInfo: buildInfo,

		dependencies: dependencies,

		serverStartTime: time.Now(),
	}
}

// HealthCheckHandler 서버와 외부 의존성의 상태를 반환합니다.
//
// 인증 없이 호출 가능하며, 모니터링 시스템에서 사용됩니다.
// 의존성 중 하나라도 unhealthy이면 전체 상태도 unhealthy로 표시됩니다.
func (h *Handler) HealthCheckHandler(c echo.Context) error {
	applog.WithComponentAndFields(component, applog.Fields{
		"endpoint":  "/health",
		"method":    c.Request().Method,
		"remote_ip": c.RealIP(),
	}).Debug("헬스체크 요청")

	uptime := int64(time.Since(h.serverStartTime).Seconds())

	var deps map[string]DependencyStatus
	serverStatus := healthStatusHealthy

	if len(h.dependencies) > 0 {
		deps = make(map[string]DependencyStatus, len(h.dependencies))
		for name, check := range h.dependencies {
			if err := check(); err != nil {
				deps[name] = DependencyStatus{
					Status:  healthStatusUnhealthy,
					Message: err.Error(),
				}
				serverStatus = healthStatusUnhealthy
			} else {
				deps[name] = DependencyStatus{
					Status: healthStatusHealthy,
				}
			}
		}
	}

	return c.JSON(http.StatusOK, HealthResponse{
		Status:       serverStatus,
		Uptime:       uptime,
		Dependencies: deps,
	})
}

// VersionHandler 서버의 버전, Git 커밋 해시, 빌드 날짜, Go 버전을 반환합니다.
func (h *Handler) VersionHandler(c echo.Context) error {
	applog.WithComponentAndFields(component, applog.Fields{
		"endpoint":  "/version",
		"method":    c.Request().Method,
		"remote_ip": c.RealIP(),
	}).Debug("버전 정보 요청")

	return c.JSON(http.StatusOK, h.buildInfo)
}
