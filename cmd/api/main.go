package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nbrb-service/internal/adapter/nbrb"
	"nbrb-service/internal/adapter/postgres"
	"nbrb-service/internal/handler"
	"nbrb-service/internal/service"
	"nbrb-service/internal/usecase"
	"nbrb-service/pkg/config"
	"nbrb-service/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log := logger.Init(cfg.Log.Level, cfg.Log.Format)

	if err := run(ctx, cfg, log); err != nil {
		log.Fatalf("App stopped with error: %v", err)
	}
	log.Info("Gracefully shut down")
}

func run(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	log.Infof("Starting %s...", cfg.App.Name)

	// initialize db pool
	dbPool, err := postgres.InitDBPool(ctx, *cfg, log)
	if err != nil {
		return fmt.Errorf("init db pool: %w", err)
	}
	defer dbPool.Close()

	db := postgres.NewPostgresRepo(dbPool, log)
	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Info("Initialized database")

	// initialize adapters
	nbrbClient, err := nbrb.NewClient(ctx, log,
		nbrb.WithBaseURL(cfg.NBRB.BaseURL),
		nbrb.WithTimeout(cfg.NBRB.Timeout),
	)
	if err != nil {
		return fmt.Errorf("init nbrb client: %w", err)
	}
	log.Infof("Initialized NBRB client with %d currencies", len(nbrbClient.Currencies()))

	// initialize service
	rateService := service.NewRateService(nbrbClient, db, log)
	log.Info("Initialized service layer")

	// initialize usecase
	currencyUsecase := usecase.NewCurrencyUsecase(rateService, log, cfg.NBRB.MaxPeriodDays)
	log.Info("Initialized usecase layer")

	currencyHandler := handler.NewCurrencyHandler(currencyUsecase, log)

	r := gin.Default()

	// cors middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:" + cfg.App.Port, "http://127.0.0.1:" + cfg.App.Port},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}))

	currencyHandler.Register(r)

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Sync.Enabled {
		scheduler, err := newScheduler(gctx, cfg, currencyUsecase, log)
		if err != nil {
			return err
		}
		g.Go(func() error {
			return runCron(gctx, scheduler, log)
		})

		if cfg.Sync.OnStart {
			g.Go(func() error {
				syncRates(gctx, currencyUsecase, log, "server start")
				return nil
			})
		}
	}

	g.Go(func() error {
		return serveHTTP(gctx, ":"+cfg.App.Port, r, log)
	})

	return g.Wait()
}

func newScheduler(ctx context.Context, cfg *config.Config, uc usecase.RateUsecase, log *logrus.Logger) (*cron.Cron, error) {
	loc, err := time.LoadLocation(cfg.Sync.Location)
	if err != nil {
		return nil, fmt.Errorf("load location %s: %w", cfg.Sync.Location, err)
	}

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(cfg.Sync.Cron, func() {
		syncRates(ctx, uc, log, "schedule")
	})
	if err != nil {
		return nil, fmt.Errorf("add sync task to schedule: %w", err)
	}

	log.Infof("Scheduler initialized: syncing rates at %q (%s)", cfg.Sync.Cron, loc)
	return c, nil
}

func syncRates(ctx context.Context, uc usecase.RateUsecase, log *logrus.Logger, trigger string) {
	log.Infof("Syncing rates by %s...", trigger)
	result, err := uc.SyncRates(ctx, "", false)
	if err != nil {
		log.Errorf("Error syncing rates by %s: %v", trigger, err)
		return
	}
	log.Infof("Successfully synced %d rates by %s", result.Stored, trigger)
}

func runCron(ctx context.Context, c *cron.Cron, log *logrus.Logger) error {
	c.Start()
	defer func() {
		stopCtx := c.Stop()
		<-stopCtx.Done()
		log.Info("Scheduler stopped")
	}()

	<-ctx.Done()
	return nil
}

func serveHTTP(ctx context.Context, addr string, h http.Handler, log *logrus.Logger) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: h,
	}

	go func() {
		<-ctx.Done()
		log.Info("Got shutdown signal...")
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			log.Errorf("Error server shutdown: %v", err)
		}
	}()

	log.Infof("Server starting on %s...", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	log.Info("Server stopped")
	return nil
}
