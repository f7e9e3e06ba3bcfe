package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/classroom-accounts/internal/application/account"
	"github.com/classroom-accounts/internal/application/audit"
	"github.com/classroom-accounts/internal/application/notification"
	"github.com/classroom-accounts/internal/config"
	"github.com/classroom-accounts/internal/domain"
	"github.com/classroom-accounts/internal/infrastructure/dynamo"
	jwtinfra "github.com/classroom-accounts/internal/infrastructure/jwt"
	s3infra "github.com/classroom-accounts/internal/infrastructure/s3"
	"github.com/classroom-accounts/internal/infrastructure/smtp"
	"github.com/classroom-accounts/internal/infrastructure/sns"
	"github.com/classroom-accounts/internal/pkg/credential"
	"github.com/classroom-accounts/internal/pkg/logger"
	transporthttp "github.com/classroom-accounts/internal/transport/http"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type auditSink interface {
	Append(ctx context.Context, e *domain.AuditEvent) error
}

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.AppEnv, cfg.LogLevel)
	if envErr != nil {
		log.Info().Msg("no .env file found, reading from environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	dynamoClient, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		return err
	}
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables, log)

	sink, err := newAuditSink(ctx, cfg, dynamoClient)
	if err != nil {
		return err
	}

	// SNS is optional; without it phone recipients are logged and skipped.
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(ctx, cfg); err == nil {
		smsSender = sender
	} else {
		log.Warn().Err(err).Msg("SNS sender not available")
	}

	// Admin routes stay closed when no verification key is present.
	var verifier *jwtinfra.Verifier
	if v, err := jwtinfra.NewVerifierFromFile(cfg.JWTPublicKeyPath); err == nil {
		verifier = v
	} else {
		log.Warn().Err(err).Msg("JWT verifier not available; admin routes disabled")
	}

	accounts := account.NewService(account.ServiceDeps{
		Store:           dynamo.NewAccountRepo(dynamoClient, cfg.DynamoTables.Accounts, cfg.DynamoTables.AccountUniques),
		Hasher:          credential.NewBcrypt(cfg.BcryptCost),
		Notifier:        notification.NewService(smtp.NewMailer(cfg), smsSender, log),
		Audit:           audit.NewService(sink, log),
		AdminRecipients: cfg.AdminRecipients,
		OTPTTL:          cfg.OTPTTL,
		Logger:          log,
	})

	router := transporthttp.NewRouter(ctx, cfg, &transporthttp.Deps{
		Accounts:  accounts,
		Verifier:  verifier,
		Readiness: dynamo.NewTableCheck(dynamoClient, cfg.DynamoTables.Accounts, cfg.DynamoTables.AccountUniques),
		Logger:    log,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.AppPort).Str("env", cfg.AppEnv).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}

func newAuditSink(ctx context.Context, cfg *config.Config, dynamoClient dynamo.API) (auditSink, error) {
	switch cfg.AuditBackend {
	case "dynamo", "":
		return dynamo.NewAuditRepo(dynamoClient, cfg.DynamoTables.AuditEvents), nil
	case "s3":
		s3Client, err := s3infra.NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s3infra.NewAuditArchive(s3Client, cfg.S3AuditBucket), nil
	default:
		return nil, fmt.Errorf("unknown AUDIT_BACKEND %q", cfg.AuditBackend)
	}
}
