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

	"github.com/cmlabs-hris/timesheet-reports/internal/config"
	"github.com/cmlabs-hris/timesheet-reports/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-reports/internal/domain/personio"
	"github.com/cmlabs-hris/timesheet-reports/internal/domain/user"
	appHTTP "github.com/cmlabs-hris/timesheet-reports/internal/handler/http"
	"github.com/cmlabs-hris/timesheet-reports/internal/pkg/cache"
	"github.com/cmlabs-hris/timesheet-reports/internal/pkg/cron"
	"github.com/cmlabs-hris/timesheet-reports/internal/pkg/database"
	"github.com/cmlabs-hris/timesheet-reports/internal/pkg/jwt"
	personioClient "github.com/cmlabs-hris/timesheet-reports/internal/pkg/personio"
	"github.com/cmlabs-hris/timesheet-reports/internal/pkg/render"
	"github.com/cmlabs-hris/timesheet-reports/internal/repository/memory"
	"github.com/cmlabs-hris/timesheet-reports/internal/repository/postgresql"
	serviceAuth "github.com/cmlabs-hris/timesheet-reports/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/timesheet-reports/internal/service/dashboard"
	reportService "github.com/cmlabs-hris/timesheet-reports/internal/service/report"
)

const version = "v1.0.0"

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := personioClient.NewClient(
		personio.Credentials{ClientID: cfg.Personio.ClientID, ClientSecret: cfg.Personio.ClientSecret},
		personioClient.WithBaseURL(cfg.Personio.BaseURL),
		personioClient.WithPageSize(cfg.Personio.PageSize),
		personioClient.WithHTTPClient(&http.Client{Timeout: cfg.Personio.Timeout}),
	)
	if err != nil {
		return err
	}

	ttl := cache.TTLPolicy{
		Default:       cfg.Cache.Default,
		CurrentMonth:  cfg.Cache.CurrentMonth,
		PreviousMonth: cfg.Cache.PreviousMonth,
		OlderMonths:   cfg.Cache.OlderMonths,
	}
	responseCache := cache.New(cache.WithDefaultTTL(ttl.Default))
	rules := personio.NamingRules{
		ExternalPrefix:     cfg.Projects.ExternalPrefix,
		ExclusionSubstring: cfg.Projects.ExclusionSubstring,
		DisplayPrefixLen:   cfg.Projects.DisplayPrefixLen,
	}

	userRepo, closeAccounts, err := openAccounts(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeAccounts()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.SecureCookie)
	authService := serviceAuth.NewAuthService(userRepo, JWTService)
	if cfg.Accounts.AdminUsername != "" {
		err := authService.EnsureAdmin(ctx, auth.RegisterRequest{
			Username: cfg.Accounts.AdminUsername,
			Email:    cfg.Accounts.AdminEmail,
			Password: cfg.Accounts.AdminPassword,
		})
		if err != nil {
			return fmt.Errorf("creating admin account: %w", err)
		}
	}

	reportSvc := reportService.NewReportService(client, render.NewRenderer(cfg.App.CompanyName), responseCache, ttl, rules)
	dashboardSvc := dashboardService.NewDashboardService(client, responseCache, ttl, rules)

	scheduler := cron.NewScheduler()
	if cron.RegisterWarmup(scheduler, cfg.Warmup.Interval, dashboardSvc) {
		scheduler.Start()
		defer scheduler.Stop()
	}

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			AllowedOrigins: cfg.App.AllowedOrigins,
			Env:            cfg.App.Env,
			Version:        version,
			LogLevel:       cfg.SlogLevel(),
		},
		JWTService,
		appHTTP.Handlers{
			Auth:      appHTTP.NewAuthHandler(JWTService, authService),
			Personio:  appHTTP.NewPersonioHandler(client),
			Report:    appHTTP.NewReportHandler(reportSvc),
			Dashboard: appHTTP.NewDashboardHandler(dashboardSvc),
		},
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
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

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// openAccounts selects the account store named by ACCOUNTS_DRIVER.
func openAccounts(ctx context.Context, cfg *config.Config) (user.UserRepository, func(), error) {
	switch cfg.Accounts.Driver {
	case "postgres":
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		if err := postgresql.MigrateUsers(ctx, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrating accounts table: %w", err)
		}
		return postgresql.NewUserRepository(db), db.Close, nil
	default:
		slog.Warn("Using in-memory accounts; registrations are lost on restart")
		return memory.NewUserRepository(), func() {}, nil
	}
}
