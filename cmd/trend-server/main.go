package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/GaYoung-La/naver-shopping-trend/internal/config"
	apperrors "github.com/GaYoung-La/naver-shopping-trend/internal/pkg/errors"
	"github.com/GaYoung-La/naver-shopping-trend/internal/pkg/version"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/api"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/api/handler/system"
	v1handler "github.com/GaYoung-La/naver-shopping-trend/internal/service/api/v1/handler"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/category"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/discovery"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/fetcher"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/notification"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/provider/datalab"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/provider/navershopping"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/ranking"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/scheduler"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/storage"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/trend"
	applog "github.com/GaYoung-La/naver-shopping-trend/pkg/log"
	log "github.com/sirupsen/logrus"
)

// credentialProbeTimeout 기동 시 네이버 API 자격증명 검증의 최대 대기 시간
const credentialProbeTimeout = 10 * time.Second

const (
	banner = `
  _____                       _   ____
 |_   _|_ __  ___  _ __   __| | / ___|   ___  _ __ __   __  ___  _ __
   | | | '__|/ _ \| '_ \ / _` + "`" + ` | \___ \  / _ \| '__|\ \ / / / _ \| '__|
   | | | |  |  __/| | | | (_| |  ___) ||  __/| |    \ V / |  __/| |
   |_| |_|   \___||_| |_|\__,_| |____/  \___||_|     \_/   \___||_|
                                                        %s
--------------------------------------------------------------------------------
`
)

func main() {
	// 1. 환경설정 로드 (로그 설정에 필요하므로 가장 먼저 수행한다)
	appConfig, err := loadConfig()
	if err != nil {
		// 로거 초기화 전이므로 표준 에러에 출력
		fmt.Fprintf(os.Stderr, "[FATAL] 환경설정 로드 실패: %v\n", err)
		os.Exit(1)
	}

	// 2. 로그 시스템 초기화
	var logOpts applog.Options
	if appConfig.Debug {
		logOpts = applog.NewDevelopmentOptions(config.AppName)
	} else {
		logOpts = applog.NewProductionOptions(config.AppName)
	}

	appLogCloser, err := applog.Setup(logOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] 로그 시스템 초기화 실패. 서버 구동을 중단합니다. (Cause: %v)\n", err)
		os.Exit(1)
	}
	defer appLogCloser.Close()

	buildInfo := version.Get()

	// 아스키아트 출력(https://ko.rakko.tools/tools/68/, 폰트:standard)
	fmt.Printf(banner, buildInfo.Version)

	applog.WithComponentAndFields("main", log.Fields{
		"version": buildInfo.String(),
		"env":     map[bool]string{true: "development", false: "production"}[appConfig.Debug],
	}).Info("서버 초기화 시작")

	// 권장 설정 미준수 경고 출력
	for _, warning := range appConfig.VerifyRecommendations() {
		applog.WithComponent("main").Warn(warning)
	}

	if err := run(appConfig, buildInfo); err != nil {
		applog.WithComponentAndFields("main", log.Fields{
			"error": err,
		}).Error("서버 초기화 실패")

		log.Fatal("서버 초기화 실패로 프로그램을 종료합니다")
	}
}

// loadConfig 실행 인자로 지정된 설정 파일 또는 기본 설정 파일을 로드합니다.
func loadConfig() (*config.AppConfig, error) {
	if len(os.Args) > 1 {
		return config.LoadWithFile(os.Args[1])
	}
	return config.Load()
}

// run 저장소, 클라이언트, 서비스들을 생성하고 종료 신호를 받을 때까지 실행합니다.
func run(appConfig *config.AppConfig, buildInfo version.Info) error {
	// 1. 스냅샷 저장소 및 카테고리 저장소 초기화
	snapshots, err := storage.NewFileSnapshotStore(appConfig.Storage.Dir, appConfig.Storage.BackupRetention)
	if err != nil {
		return err
	}

	categoryStore, err := category.NewStore(snapshots)
	if err != nil {
		return err
	}

	// 2. 네이버 오픈 API 클라이언트 초기화 (재시도/속도 제한 체인 공유)
	httpFetcher := fetcher.NewChain(appConfig.HTTPRetry, appConfig.RateLimit)

	datalabClient, err := datalab.NewClient(httpFetcher, appConfig.Naver)
	if err != nil {
		return err
	}

	shoppingClient, err := navershopping.NewClient(httpFetcher, navershopping.Settings{
		ClientID:     appConfig.Naver.ClientID,
		ClientSecret: appConfig.Naver.ClientSecret,
	})
	if err != nil {
		return err
	}

	// 3. 자격증명 사전 검증
	// 인증 실패는 설정 오류이므로 구동을 중단하고, 일시적인 연결 장애는 경고만 남긴다.
	probeCtx, probeCancel := context.WithTimeout(context.Background(), credentialProbeTimeout)
	defer probeCancel()

	if err := datalabClient.ProbeCredentials(probeCtx); err != nil {
		if apperrors.Is(err, apperrors.Unauthorized) {
			return err
		}
		applog.WithComponentAndFields("main", log.Fields{
			"error": err,
		}).Warn("네이버 API 자격증명 사전 검증에 실패하였습니다 (일시적인 장애일 수 있으므로 계속 진행합니다)")
	}

	// 4. 도메인 서비스 초기화
	notificationService, err := notification.NewService(appConfig.Notifier.Telegram)
	if err != nil {
		return err
	}

	discoveryService, err := discovery.NewService(appConfig.Discovery, categoryStore, shoppingClient, datalabClient, notificationService)
	if err != nil {
		return err
	}

	analyzer := trend.NewAnalyzer(datalabClient)
	tracker := ranking.NewTracker(snapshots, appConfig.Ranking.MinRise)

	schedulerService := scheduler.NewService(appConfig.Discovery.Scheduler, discoveryService, notificationService)

	v1Handler := v1handler.NewHandler(
		categoryStore,
		analyzer,
		trend.OptionsFromConfig(appConfig.Analyzer),
		shoppingClient,
		tracker,
		shoppingClient,
		appConfig.Discovery.BestPageURL,
		discoveryService,
	)

	healthDependencies := map[string]system.HealthChecker{
		"storage": func() error {
			_, err := os.Stat(appConfig.Storage.Dir)
			return err
		},
	}

	apiService := api.NewService(appConfig, v1Handler, healthDependencies, notificationService, buildInfo)

	// 5. 서비스 시작
	serviceStopCtx, cancel := context.WithCancel(context.Background())
	serviceStopWG := &sync.WaitGroup{}

	services := []service.Service{notificationService, schedulerService, apiService}
	for _, s := range services {
		serviceStopWG.Add(1)
		if err := s.Start(serviceStopCtx, serviceStopWG); err != nil {
			cancel() // 이미 시작한 서비스들도 종료
			serviceStopWG.Wait()

			return err
		}
	}

	// 6. 종료 신호 대기
	termC := make(chan os.Signal, 1)
	signal.Notify(termC, syscall.SIGINT, syscall.SIGTERM)

	applog.WithComponent("main").Info("서버 가동 완료")

	<-termC

	applog.WithComponent("main").Info("종료 신호를 수신하였습니다")
	cancel()
	serviceStopWG.Wait()

	return nil
}
