package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/workboard-backend-go/internal/config"
	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/submission"
	appHTTP "github.com/cmlabs-hris/workboard-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/workboard-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/workboard-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/workboard-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/workboard-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/workboard-backend-go/internal/pkg/observability"
	"github.com/cmlabs-hris/workboard-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/workboard-backend-go/internal/repository/postgresql"
	redisRepo "github.com/cmlabs-hris/workboard-backend-go/internal/repository/redis"
	analyticsService "github.com/cmlabs-hris/workboard-backend-go/internal/service/analytics"
	"github.com/cmlabs-hris/workboard-backend-go/internal/service/file"
	participantService "github.com/cmlabs-hris/workboard-backend-go/internal/service/participant"
	responsibilityService "github.com/cmlabs-hris/workboard-backend-go/internal/service/responsibility"
	submissionService "github.com/cmlabs-hris/workboard-backend-go/internal/service/submission"
	"github.com/go-chi/httplog/v3"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedisClient(ctx, cache.Options{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer redisClient.Close()

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}

	observability.RegisterMetrics()

	scheduler := cron.NewScheduler()
	scheduler.AddJob(cron.Job{
		Name:     "db_pool_stats",
		Interval: 15 * time.Second,
		Fn: func(ctx context.Context) error {
			for state, n := range db.PoolStats() {
				observability.DBConnections().WithLabelValues(state).Set(float64(n))
			}
			return nil
		},
	})
	scheduler.Start(ctx)
	defer scheduler.Stop()

	submissionRepo := postgresql.NewSubmissionRepository(db)
	assignmentRepo := postgresql.NewAssignmentRepository(db)
	responsibilityRepo := postgresql.NewResponsibilityRepository(db)
	participantRepo := postgresql.NewParticipantRepository(db)
	pendingEdits := redisRepo.NewPendingEditStore(redisClient)
	transactor := postgresql.NewTransactor(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	fileService := file.NewFileService(fileStorage, file.Options{
		Proof: storage.UploadOptions{
			MaxSize:     cfg.Storage.MaxProofSize,
			AllowedExts: submission.ProofExtensions,
		},
		MaxImageBytes: cfg.Storage.MaxImageBytes,
	})
	analyticsSvc := analyticsService.NewAnalyticsService(submissionRepo, assignmentRepo, redisClient, analyticsService.Options{
		CacheTTL:     cfg.Analytics.CacheTTL,
		MaxRangeDays: cfg.Analytics.MaxRangeDays,
		Location:     cfg.Location(),
	})
	submissionSvc := submissionService.NewSubmissionService(
		submissionRepo,
		assignmentRepo,
		transactor,
		fileService,
		analyticsSvc,
	)
	responsibilitySvc := responsibilityService.NewResponsibilityService(responsibilityRepo)
	participantSvc := participantService.NewParticipantService(participantRepo, pendingEdits, cfg.Participant.EditTTL)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Logger:         logger,
			AllowedOrigins: cfg.App.CORSOrigins,
			UploadsPath:    cfg.Storage.BasePath,
			UploadsURL:     cfg.Storage.BaseURL,
		},
		JWTService,
		appHTTP.NewAnalyticsHandler(analyticsSvc),
		appHTTP.NewSubmissionHandler(submissionSvc),
		appHTTP.NewResponsibilityHandler(responsibilitySvc),
		appHTTP.NewParticipantHandler(participantSvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "workboard"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)
}
