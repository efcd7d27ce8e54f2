package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/card_collection/internal/config"
	"github.com/Skotchmaster/card_collection/internal/hash"
	"github.com/Skotchmaster/card_collection/internal/httpserver"
	"github.com/Skotchmaster/card_collection/internal/metrics"
	"github.com/Skotchmaster/card_collection/internal/middleware"
	"github.com/Skotchmaster/card_collection/internal/mykafka"
	"github.com/Skotchmaster/card_collection/internal/repo"
	"github.com/Skotchmaster/card_collection/internal/service"
	"github.com/Skotchmaster/card_collection/pkg/db"
	"github.com/Skotchmaster/card_collection/pkg/logging"
	"github.com/Skotchmaster/card_collection/pkg/tokens"
)

type eventProducer interface {
	service.EventPublisher
	Close() error
}

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DBDriver, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close(gdb)

	gormRepo := repo.New(gdb)
	if cfg.AutoMigrate {
		migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := gormRepo.Migrate(migrateCtx)
		cancel()
		if err != nil {
			log.Fatalf("db migrate error: %v", err)
		}
	}

	tk, err := tokens.New(cfg.JWTSecret, cfg.RefreshTokenSecret)
	if err != nil {
		log.Fatal(err)
	}
	tk.AccessTTL = cfg.AccessTokenTTL
	tk.RefreshTTL = cfg.RefreshTokenTTL

	var prod eventProducer = mykafka.NopProducer{}
	if len(cfg.KafkaBrokers) > 0 {
		p, err := mykafka.NewProducer(cfg.KafkaBrokers, cfg.EventsTopic, logger)
		if err != nil {
			log.Fatal(err)
		}
		prod = p
	} else {
		logger.Info("kafka disabled, auth events are dropped")
	}
	defer prod.Close()

	m := metrics.New()

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpserver.ErrorHandler
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(httpserver.Common(logger, m)...)

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{
			Svc: &service.AuthService{
				Repo:          gormRepo,
				Tokens:        tk,
				Hasher:        hash.Hasher{},
				Events:        prod,
				Metrics:       m,
				RotateRefresh: cfg.RotateRefreshTokens,
			},
		},
		Auth:    middleware.NewAuthenticator(tk, gormRepo, m),
		Metrics: m,
		Ready:   func(ctx context.Context) error { return db.Ping(ctx, gdb) },
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown", "error", err)
	}
	logger.Info("server stopped")
}
