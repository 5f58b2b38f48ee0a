package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/teashop/internal/config"
	"github.com/Skotchmaster/teashop/internal/db"
	"github.com/Skotchmaster/teashop/internal/events"
	"github.com/Skotchmaster/teashop/internal/httpserver"
	"github.com/Skotchmaster/teashop/internal/logging"
	loggingmw "github.com/Skotchmaster/teashop/internal/middleware/logging"
	"github.com/Skotchmaster/teashop/internal/repo"
	"github.com/Skotchmaster/teashop/internal/service"
)

func main() {
	config.LoadEnvFile(".env")
	cfg := config.Load()

	logger := logging.New(cfg.ServiceName, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	publisher := events.New(cfg.KafkaBrokers, cfg.OrderEventsTopic)

	orderRepo := &repo.GormRepo{DB: gdb}
	svc := &service.OrderService{Repo: orderRepo, Events: publisher}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(loggingmw.RequestLogger(logger, httpserver.LivePath, httpserver.ReadyPath))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		OrderHandler: &httpserver.OrderHTTP{Svc: svc},
		MenuHandler:  &httpserver.MenuHTTP{},
		Ready:        orderRepo.Ping,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("teashop listening", "addr", srv.Addr, "database", dbKind(cfg.DatabaseURL), "kafka_brokers", cfg.KafkaBrokers)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Error("event publisher close error", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db close error", "error", err)
	}

	logger.Info("teashop stopped")
}

func dbKind(dsn string) string {
	if db.IsPostgres(dsn) {
		return "postgres"
	}
	return "sqlite"
}
