package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/justsurfingit/careers-portal/internal/auth"
	"github.com/justsurfingit/careers-portal/internal/config"
	"github.com/justsurfingit/careers-portal/internal/database"
	"github.com/justsurfingit/careers-portal/internal/handlers"
	"github.com/justsurfingit/careers-portal/internal/logging"
	"github.com/justsurfingit/careers-portal/internal/services"
)

func main() {
	// 1. Configuration and logging
	cfg, err := config.Load(".env", ".env.local")
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	gin.SetMode(cfg.GinMode)
	log := logging.New(cfg.LogLevel, cfg.Production())

	// 2. Submission ledger (optional)
	var ledger services.SubmissionLedger
	if cfg.DatabaseDSN != "" {
		db, err := database.Connect(cfg.DatabaseDSN, log)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to database")
		}
		ledger = services.NewLedgerService(db)
	} else {
		log.Info("DATABASE_DSN not set, submission ledger disabled")
	}

	// 3. Recruiter notices (optional)
	var mailer services.RecruiterNotifier
	if cfg.Gmail.Enabled() {
		mailer = newRecruiterMailer(cfg, log)
	}

	// 4. Core services
	endpoint := services.NewSheetClient(cfg.Endpoint.URL, cfg.Endpoint.Timeout, log)
	sessions := services.NewSessionStore(cfg.SessionTTL, services.FormDeps{
		Endpoint:        endpoint,
		NotificationTTL: cfg.NotificationTTL,
		Log:             log,
		Ledger:          ledger,
		Mailer:          mailer,
	})
	defer sessions.Close()

	// 5. Router
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	r := handlers.NewRouter(handlers.RouterConfig{
		Sessions:       sessions,
		SessionTTL:     cfg.SessionTTL,
		SecureCookies:  cfg.Production(),
		MaxUploadSize:  cfg.MaxUploadSize,
		AllowedOrigins: cfg.AllowedOrigins,
		MetricsPath:    metricsPath,
		Log:            log,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"port":     cfg.Port,
			"endpoint": cfg.Endpoint.URL,
		}).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed to start")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
	log.Info("Gracefully shut down")
}

func newRecruiterMailer(cfg *config.Configuration, log *logrus.Logger) services.RecruiterNotifier {
	ctx := context.Background()
	prompt := struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}

	httpClient, err := auth.GetGmailClient(ctx, cfg.Gmail.CredentialsFile, cfg.Gmail.TokenFile, prompt)
	if err != nil {
		log.WithError(err).Warn("Gmail client unavailable, recruiter notices disabled")
		return nil
	}
	gmailService, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		log.WithError(err).Warn("Failed to create Gmail service, recruiter notices disabled")
		return nil
	}
	log.WithField("to", cfg.Gmail.RecruiterEmail).Info("Gmail service connected")
	return services.NewRecruiterMailer(gmailService, cfg.Gmail.RecruiterEmail, log)
}
