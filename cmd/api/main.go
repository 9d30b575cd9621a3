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

	"github.com/cmlabs-hris/daily-report-go/internal/config"
	appHTTP "github.com/cmlabs-hris/daily-report-go/internal/handler/http"
	"github.com/cmlabs-hris/daily-report-go/internal/pkg/database"
	"github.com/cmlabs-hris/daily-report-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/daily-report-go/internal/repository/postgresql"
	approvalService "github.com/cmlabs-hris/daily-report-go/internal/service/approval"
	hierarchyService "github.com/cmlabs-hris/daily-report-go/internal/service/hierarchy"
	reportService "github.com/cmlabs-hris/daily-report-go/internal/service/report"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})).With(slog.String("app", "daily-report"), slog.String("env", cfg.App.Env)))

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		slog.Error("error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	transactor := postgresql.NewTransactor(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	reportRepo := postgresql.NewReportRepository(db)
	approvalRepo := postgresql.NewReportApprovalRepository(db)
	reviewCommentRepo := postgresql.NewReviewCommentRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hierarchy := hierarchyService.NewHierarchyService(employeeRepo, cfg.Review.SupervisorPolicy())
	aggregator := approvalService.NewRatingAggregator(approvalRepo, reportRepo, hierarchy)
	ledger := approvalService.NewApprovalService(
		transactor,
		approvalRepo,
		reportRepo,
		hierarchy,
		aggregator,
		reviewCommentRepo,
		cfg.Review.RatingBounds(),
	)
	coordinator := reportService.NewReportService(transactor, reportRepo, ledger, hierarchy)

	authHandler := appHTTP.NewAuthHandler(JWTService)
	reportHandler := appHTTP.NewReportHandler(coordinator, ledger)
	supervisorHandler := appHTTP.NewSupervisorHandler(hierarchy, ledger)

	router := appHTTP.NewRouter(appHTTP.RouterOptions{
		AllowedOrigins: cfg.App.AllowedOrigins,
		Env:            cfg.App.Env,
		Version:        cfg.App.Version,
		LogLevel:       cfg.SlogLevel(),
	}, JWTService, authHandler, reportHandler, supervisorHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("server stopped with error", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
