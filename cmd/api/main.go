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

	"github.com/go-chi/httplog/v3"

	"github.com/cmlabs-hris/employee-portal-go/internal/config"
	"github.com/cmlabs-hris/employee-portal-go/internal/domain/leave"
	"github.com/cmlabs-hris/employee-portal-go/internal/domain/payroll"
	appHTTP "github.com/cmlabs-hris/employee-portal-go/internal/handler/http"
	"github.com/cmlabs-hris/employee-portal-go/internal/pkg/backend"
	"github.com/cmlabs-hris/employee-portal-go/internal/pkg/cron"
	"github.com/cmlabs-hris/employee-portal-go/internal/pkg/database"
	"github.com/cmlabs-hris/employee-portal-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/employee-portal-go/internal/pkg/querycache"
	"github.com/cmlabs-hris/employee-portal-go/internal/pkg/sse"
	"github.com/cmlabs-hris/employee-portal-go/internal/repository/postgresql"
	payrollService "github.com/cmlabs-hris/employee-portal-go/internal/service/payroll"
	vacationService "github.com/cmlabs-hris/employee-portal-go/internal/service/vacation"
)

type repositories struct {
	balances leave.BalanceRepository
	requests leave.RequestRepository
	salaries payroll.SalaryRepository
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(!cfg.App.IsProduction())
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.App.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "employee-portal"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := newRepositories(ctx, cfg)
	if err != nil {
		slog.Error("Error initializing backend", "mode", cfg.Backend.Mode, "error", err)
		os.Exit(1)
	}
	defer repos.close()

	location, err := cfg.Leave.Location()
	if err != nil {
		slog.Error("Invalid leave timezone", "error", err)
		os.Exit(1)
	}

	cache := querycache.New(cfg.Cache.TTL)
	hub := sse.NewHub()
	JWTService := jwt.NewJWTService(cfg.JWT.Secret)

	vacations := vacationService.NewService(repos.balances, repos.requests, cache, hub, vacationConfig(cfg, location))
	payrolls := payrollService.NewPayrollService(repos.salaries, cache, hub, payrollConfig(cfg))

	scheduler := cron.NewScheduler()
	cron.NewSessionJobs(cache, cfg.Session.IdleTimeout, vacations, payrolls).
		RegisterJobs(scheduler, cfg.Session.SweepInterval)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			AllowedOrigins: cfg.App.CORSAllowedOrigins,
			Logger:         logger,
			LogLevel:       cfg.App.SlogLevel(),
		},
		JWTService,
		appHTTP.NewVacationHandler(vacations),
		appHTTP.NewPayrollHandler(payrolls),
		appHTTP.NewEventsHandler(hub, 30*time.Second),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server started", "addr", srv.Addr, "backend_mode", cfg.Backend.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	slog.Info("Server stopped")
}

// Writes are bounded by the backend timeout in every mode.
func vacationConfig(cfg *config.Config, location *time.Location) vacationService.Config {
	return vacationService.Config{
		AllowBackdate: cfg.Leave.AllowBackdate,
		Location:      location,
		WriteTimeout:  cfg.Backend.Timeout,
	}
}

func payrollConfig(cfg *config.Config) payrollService.Config {
	return payrollService.Config{
		WriteTimeout: cfg.Backend.Timeout,
	}
}

// newRepositories wires the leave and salary stores for the configured
// backend mode.
func newRepositories(ctx context.Context, cfg *config.Config) (repositories, error) {
	switch cfg.Backend.Mode {
	case config.BackendModePostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		})
		if err != nil {
			return repositories{}, fmt.Errorf("failed to connect to database: %w", err)
		}
		return repositories{
			balances: postgresql.NewLeaveBalanceRepository(db),
			requests: postgresql.NewVacationRequestRepository(db),
			salaries: postgresql.NewSalaryRepository(db, cfg.MPF.Rule()),
			close:    db.Close,
		}, nil

	default:
		client, err := backend.NewClient(backend.Config{
			BaseURL: cfg.Backend.URL,
			Timeout: cfg.Backend.Timeout,
		})
		if err != nil {
			return repositories{}, err
		}
		leaves := backend.NewLeaveRepository(client)
		return repositories{
			balances: leaves,
			requests: leaves,
			salaries: backend.NewSalaryRepository(client),
			close:    func() {},
		}, nil
	}
}
