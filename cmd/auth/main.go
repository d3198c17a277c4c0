package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/kmalov/auth_service/internal/config"
	"github.com/kmalov/auth_service/internal/events"
	"github.com/kmalov/auth_service/internal/httpserver"
	"github.com/kmalov/auth_service/internal/logging"
	"github.com/kmalov/auth_service/internal/mail"
	mw "github.com/kmalov/auth_service/internal/middleware"
	"github.com/kmalov/auth_service/internal/repo"
	"github.com/kmalov/auth_service/internal/service"
)

const purgeInterval = time.Hour

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(initCtx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	gormRepo := &repo.GormRepo{DB: db}

	var producer events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
	} else {
		logger.Warn("KAFKA_BROKERS is not set, audit events are disabled")
	}

	var mailer mail.Mailer
	if cfg.SendGridAPIKey != "" {
		mailer = mail.NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFrom, cfg.SendGridResetTemplate)
	} else {
		logger.Warn("SENDGRID_API_KEY is not set, reset tokens go to the log")
		mailer = &mail.LogMailer{Logger: logger}
	}

	svc := &service.AuthService{
		Repo:      gormRepo,
		Producer:  producer,
		Mailer:    mailer,
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
		Debug:     cfg.Debug,
	}

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(mw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:   &httpserver.AuthHTTP{Svc: svc},
		UserHandler:   &httpserver.UserHTTP{},
		HealthHandler: &httpserver.HealthHTTP{Repo: gormRepo},
		TokenAuth:     mw.NewTokenAuth(svc),
	})

	purgeCtx, purgeCancel := context.WithCancel(context.Background())
	go purgeRevokedTokens(purgeCtx, gormRepo, logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("auth listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	purgeCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Printf("producer close: %v", err)
		}
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Println("auth stopped")
}

// purgeRevokedTokens trims denylist rows for tokens that have expired on
// their own. Runs until ctx is canceled.
func purgeRevokedTokens(ctx context.Context, r *repo.GormRepo, logger *slog.Logger) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := r.PurgeExpiredTokens(ctx, time.Now().UTC().Unix())
			if err != nil {
				logger.Warn("revoked_token_purge_failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("revoked_tokens_purged", "count", n)
			}
		}
	}
}
