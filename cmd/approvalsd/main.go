package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/avjabalpur/cian-erp-sub001/internal/app"
	"github.com/avjabalpur/cian-erp-sub001/internal/approval/records"
	"github.com/avjabalpur/cian-erp-sub001/internal/auth"
	"github.com/avjabalpur/cian-erp-sub001/internal/collab"
	"github.com/avjabalpur/cian-erp-sub001/internal/observability"
	"github.com/avjabalpur/cian-erp-sub001/internal/options"
	"github.com/avjabalpur/cian-erp-sub001/internal/platform/cache"
	"github.com/avjabalpur/cian-erp-sub001/internal/platform/db"
	"github.com/avjabalpur/cian-erp-sub001/internal/rbac"
	"github.com/avjabalpur/cian-erp-sub001/internal/shared"
	"github.com/avjabalpur/cian-erp-sub001/internal/users"
	"github.com/avjabalpur/cian-erp-sub001/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "approvals_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	userRepo := users.NewRepository(pool)
	authService := auth.NewService(userRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)

	rbacService := rbac.NewService(pool, logger)
	rbacMiddleware := rbac.Middleware{Service: rbacService, Logger: logger}

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	notifier := &jobs.DecisionNotifier{Client: jobClient}

	collabRepo := collab.NewRepository(pool)
	collabService := collab.NewService(collabRepo)
	collabHandler := collab.NewHandler(logger, collabService)

	recordsRepo := records.NewRepository(pool)
	recordsService := records.NewService(recordsRepo, notifier, logger,
		collab.ChatTimelineSource{Service: collabService},
		collab.DocumentTimelineSource{Service: collabService},
	)
	recordsHandler := records.NewHandler(logger, recordsService, rbacService)

	optionsRepo := options.NewRepository(pool)
	optionsService := options.NewService(optionsRepo, redisClient, cfg.OptionsCacheTTL, logger)
	optionsHandler := options.NewHandler(logger, optionsService)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,
		AuthHandler:    authHandler,
		RecordsHandler: recordsHandler,
		CollabHandler:  collabHandler,
		OptionsHandler: optionsHandler,
		JobHandler:     jobHandler,
		RBACHandler:    rbac.NewHandler(logger, rbacService),
		RBACMiddleware: rbacMiddleware,
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exit", slog.Any("error", err))
		os.Exit(1)
	}
}
