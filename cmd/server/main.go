package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tics/site-backend-go/internal/config"
	"github.com/tics/site-backend-go/internal/database"
	"github.com/tics/site-backend-go/internal/handler"
	"github.com/tics/site-backend-go/internal/jobs"
	"github.com/tics/site-backend-go/internal/middleware"
	"github.com/tics/site-backend-go/internal/notify"
	"github.com/tics/site-backend-go/internal/redis"
	"github.com/tics/site-backend-go/internal/repository"
	"github.com/tics/site-backend-go/internal/service"
	"github.com/tics/site-backend-go/internal/token"
	"github.com/tics/site-backend-go/internal/upload"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	isProduction := cfg.IsProduction()
	if err := cfg.Validate(isProduction); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	ttl, err := cfg.TokenTTL()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid JWT_EXPIRE")
	}
	tokens, err := token.NewService(cfg.JWTSecret, ttl)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create token service")
	}

	uploadDir, err := upload.ResolveDir(cfg.UploadDirCandidates()...)
	if err != nil {
		log.Fatal().Err(err).Msg("no usable upload directory")
	}
	log.Info().Str("dir", uploadDir).Msg("storing uploads")
	gate := upload.NewGate(uploadDir, config.MaxUploadBytes)

	// The pool is opened lazily; the storage monitor establishes readiness.
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid database configuration")
	}
	defer db.Close()

	adminRepo := repository.NewAdminRepository(db)
	contactRepo := repository.NewContactRepository(db)
	jobRepo := repository.NewJobRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)

	mailer := notify.NewSMTPMailer(notify.SMTPConfig{
		Host:     cfg.EmailHost,
		Port:     cfg.EmailPort,
		User:     cfg.EmailUser,
		Password: cfg.EmailPass,
		From:     cfg.MailFrom(),
	})
	if !mailer.Enabled() {
		log.Warn().Msg("EMAIL_HOST not set, notification emails are disabled")
	}

	var notifierOpts []notify.NotifierOption
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		log.Info().Msg("redis connected, notifications are queued")

		queue := notify.NewQueue(redisClient, config.MailQueueKey)
		notifierOpts = append(notifierOpts, notify.WithQueue(queue))

		mailWorker := jobs.NewMailWorker(queue, mailer, config.MailQueueBlockOn, config.MailSendTimeout,
			func(err error) bool { return errors.Is(err, redis.ErrQueueEmpty) })
		mailWorker.Start()
		defer mailWorker.Stop()
	}
	notifier := notify.NewNotifier(mailer, cfg.MailTo(), config.MailSendTimeout, notifierOpts...)
	defer notifier.Wait()

	credentials := service.NewCredentialStore(adminRepo)
	bootstrap := service.NewBootstrap(credentials, service.AdminSeed{
		Username:     cfg.AdminUsername,
		Password:     cfg.AdminPassword,
		PasswordHash: cfg.AdminPasswordHash,
	}, func(ctx context.Context) error {
		return database.Migrate(ctx, db)
	})

	storageMonitor := jobs.NewStorageMonitor(db, bootstrap.Run,
		config.DBConnectAttempts, config.DBConnectInterval, config.DBHealthCheckPeriod)
	storageMonitor.Start()
	defer storageMonitor.Stop()

	authService := service.NewAuthService(credentials, tokens)
	contactService := service.NewContactService(contactRepo, notifier)
	careersService := service.NewCareersService(jobRepo, applicationRepo, gate, notifier)
	proposalService := service.NewProposalService(notifier)

	router := handler.NewRouter(handler.RouterConfig{
		AllowedOrigin:     cfg.FrontendURL,
		IsProduction:      isProduction,
		RequestTimeout:    config.ServerRequestTimeout,
		MaxBodyBytes:      config.MaxJSONBodyBytes,
		MaxMultipartBytes: config.MaxMultipartBodyBytes,
	}, handler.Handlers{
		Admin:    handler.NewAdminHandler(authService, gate, isProduction),
		Careers:  handler.NewCareersHandler(careersService, gate, isProduction),
		Contact:  handler.NewContactHandler(contactService, isProduction),
		Services: handler.NewServicesHandler(proposalService, isProduction),
		Health:   handler.NewHealthHandler(db),
	}, middleware.NewAuthMiddleware(tokens), db)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("env", cfg.AppEnv).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
