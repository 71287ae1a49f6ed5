package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v3"
	"github.com/sikapay/sikapay-backend-go/internal/config"
	appHTTP "github.com/sikapay/sikapay-backend-go/internal/handler/http"
	"github.com/sikapay/sikapay-backend-go/internal/pkg/database"
	"github.com/sikapay/sikapay-backend-go/internal/pkg/document"
	"github.com/sikapay/sikapay-backend-go/internal/pkg/jwt"
	"github.com/sikapay/sikapay-backend-go/internal/pkg/storage"
	"github.com/sikapay/sikapay-backend-go/internal/repository/postgresql"
	payrollService "github.com/sikapay/sikapay-backend-go/internal/service/payroll"
	reportService "github.com/sikapay/sikapay-backend-go/internal/service/report"
	statutoryService "github.com/sikapay/sikapay-backend-go/internal/service/statutory"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.App)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath)
		if err != nil {
			logger.Error("failed to initialize local storage", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case "memory":
		fileStorage = storage.NewMemoryStorage()
	}

	transactor := postgresql.NewTransactor(db)
	tenantRepo := postgresql.NewTenantRepository(db)
	rosterRepo := postgresql.NewRosterRepository(db)
	statutoryRepo := postgresql.NewStatutoryRepository(db)
	elementRepo := postgresql.NewElementRepository(db)
	periodRepo := postgresql.NewPeriodRepository(db)
	payslipRepo := postgresql.NewPayslipRepository(db)
	reportRepo := postgresql.NewReportRepository(db)

	renderers := document.NewRegistry(
		document.NewPDFRenderer(),
		document.NewExcelRenderer(),
		document.NewCSVRenderer(),
	)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	statutorySvc := statutoryService.NewStatutoryService(transactor, statutoryRepo, logger)
	payrollSvc := payrollService.NewPayrollService(
		transactor,
		elementRepo,
		periodRepo,
		payslipRepo,
		rosterRepo,
		tenantRepo,
		statutorySvc,
		fileStorage,
		logger,
		payrollService.Options{
			Workers:          cfg.Payroll.CalcWorkers,
			WithholdingTypes: cfg.Payroll.WithholdingEmploymentTypes,
			Currency:         cfg.Payroll.Currency,
		},
	)
	reportSvc := reportService.NewReportService(reportRepo, periodRepo, tenantRepo, renderers, logger)

	router := appHTTP.NewRouter(
		logger,
		cfg.App.CORSAllowedOrigins,
		JWTService,
		appHTTP.NewStatutoryHandler(statutorySvc),
		appHTTP.NewPayrollHandler(payrollSvc),
		appHTTP.NewReportHandler(reportSvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", slog.String("error", err.Error()))
		}
	}()

	logger.Info("server starting", slog.String("addr", server.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newLogger(app config.AppConfig) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(false)
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       parseLevel(app.LogLevel),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", app.Name),
		slog.String("version", app.Version),
		slog.String("env", app.Env),
	)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
