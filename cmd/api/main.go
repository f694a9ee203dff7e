package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sanosuguru/venue-reservation/internal/api"
	"github.com/sanosuguru/venue-reservation/internal/api/handler"
	custommw "github.com/sanosuguru/venue-reservation/internal/api/middleware"
	"github.com/sanosuguru/venue-reservation/internal/application"
	"github.com/sanosuguru/venue-reservation/internal/availability"
	"github.com/sanosuguru/venue-reservation/internal/config"
	"github.com/sanosuguru/venue-reservation/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/venue-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/venue-reservation/internal/pkg/logger"
	"github.com/sanosuguru/venue-reservation/internal/pkg/metrics"
	"github.com/sanosuguru/venue-reservation/internal/validation"
	"github.com/sanosuguru/venue-reservation/internal/worker"
)

func main() {
	cfg := config.Load()
	defer logger.Sync()

	loc, err := cfg.Venue.Location()
	if err != nil {
		logger.Fatal("タイムゾーンの読み込みに失敗", zap.Error(err))
	}
	grid, err := cfg.Venue.Grid()
	if err != nil {
		logger.Fatal("予約枠グリッドの設定が不正", zap.Error(err))
	}

	// インフラ接続
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("データベース接続に失敗", zap.Error(err))
	}
	defer db.Close()

	if path := os.Getenv("MIGRATIONS_PATH"); path != "" {
		if err := postgres.RunMigrations(db.DB, path); err != nil {
			logger.Fatal("マイグレーションに失敗", zap.Error(err))
		}
	}

	redisClient := redisinfra.NewClient(&cfg.Redis)
	defer redisClient.Close()
	if err := redisinfra.Ping(context.Background(), redisClient); err != nil {
		logger.Fatal("Redis接続に失敗", zap.Error(err))
	}

	m := metrics.Init()

	// 依存の組み立て
	repo := postgres.NewReservationRepository(db)
	txManager := postgres.NewTxManager(db)
	index := availability.NewIndex()
	locker := redisinfra.NewLockManager(redisClient)
	cache := redisinfra.NewAvailabilityCache(redisClient, cfg.Venue.CacheTTL)
	notifier := redisinfra.NewNotifier(redisClient)
	ledger := redisinfra.NewLoyaltyLedger(redisClient)
	requestValidator := validation.NewRequestValidator(grid, cfg.Venue.MaxGuests, loc)

	admissionService := application.NewAdmissionService(
		repo, txManager, index, locker, requestValidator, cache, m,
		cfg.Venue.LockTTL, cfg.Venue.LockWait,
	)
	lifecycleService := application.NewLifecycleService(
		repo, txManager, index, locker, notifier, ledger, cache, m, loc,
		cfg.Venue.LockTTL, cfg.Venue.LockWait,
	)
	availabilityService := application.NewAvailabilityService(repo, index, cache, grid)

	// HTTPサーバー
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	custommw.SetupMiddleware(e, cfg.Server.CORSOrigins)
	e.Use(custommw.PrometheusMiddleware(m))

	reservationHandler := handler.NewReservationHandler(admissionService, lifecycleService)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityService)
	healthHandler := handler.NewHealthHandler()

	v1 := e.Group("/api/v1")
	v1.GET("/health", healthHandler.Check)
	v1.POST("/reservations", reservationHandler.Create)
	v1.GET("/reservations", reservationHandler.List)
	v1.GET("/reservations/:id", reservationHandler.GetByID)
	v1.POST("/reservations/:id/approve", reservationHandler.Approve)
	v1.POST("/reservations/:id/reject", reservationHandler.Reject)
	v1.POST("/reservations/:id/cancel", reservationHandler.Cancel)
	v1.POST("/reservations/:id/complete", reservationHandler.Complete)
	v1.GET("/availability", availabilityHandler.GetFreeSlots)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), custommw.MetricsBasicAuth())

	// 完了ワーカー
	workerCtx, cancelWorker := context.WithCancel(context.Background())
	completionWorker := worker.NewCompletionWorker(lifecycleService, cfg.Venue.CompletionInterval, m)
	go completionWorker.Start(workerCtx)

	// サーバー起動
	go func() {
		if err := e.Start(fmt.Sprintf(":%s", cfg.Server.Port)); err != nil && err != http.ErrServerClosed {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	cancelWorker()
	completionWorker.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("サーバーシャットダウンエラー", zap.Error(err))
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}
