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

	"github.com/jackc/pgx/v5/pgxpool"
	natsclient "github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/0xsj/overwatch-pkg/log"

	opsgrpc "github.com/0xsj/overwatch-profile/internal/adapter/inbound/grpc"
	httpapi "github.com/0xsj/overwatch-profile/internal/adapter/inbound/http"
	"github.com/0xsj/overwatch-profile/internal/adapter/outbound/minio"
	natsadapter "github.com/0xsj/overwatch-profile/internal/adapter/outbound/nats"
	"github.com/0xsj/overwatch-profile/internal/adapter/outbound/postgres"
	rediscache "github.com/0xsj/overwatch-profile/internal/adapter/outbound/redis"
	appcommand "github.com/0xsj/overwatch-profile/internal/app/command"
	"github.com/0xsj/overwatch-profile/internal/app/query"
	"github.com/0xsj/overwatch-profile/internal/app/service"
	"github.com/0xsj/overwatch-profile/internal/config"
	"github.com/0xsj/overwatch-profile/internal/port/inbound/command"
	"github.com/0xsj/overwatch-profile/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := log.NewPretty(log.DefaultConfig())

	logger.Info("starting profile service",
		log.String("version", "1.0.0"),
		log.String("address", cfg.Server.Address()),
	)

	// Initialize tracing
	shutdownTracing, err := telemetry.InitTracing(ctx, telemetry.TracingConfig{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  cfg.Tracing.ServiceName,
		OTLPEndpoint: cfg.Tracing.Endpoint,
		Insecure:     cfg.Tracing.Insecure,
		SampleRatio:  cfg.Tracing.SampleRatio(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("failed to flush traces", log.String("error", err.Error()))
		}
	}()

	metrics := telemetry.NewMetrics(prometheus.DefaultRegisterer)

	// Connect to PostgreSQL
	pool, err := connectPostgres(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer pool.Close()

	if err := telemetry.RegisterDBPoolMetrics(pool, prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("failed to register pool metrics: %w", err)
	}

	// Connect to Redis
	redisClient, err := connectRedis(ctx, cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisClient.Close()

	// Connect to NATS
	natsConn, err := connectNATS(cfg.NATS, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to nats: %w", err)
	}
	defer natsConn.Close()

	js, err := natsConn.JetStream()
	if err != nil {
		return fmt.Errorf("failed to open jetstream: %w", err)
	}
	if err := natsadapter.EnsureEmailStream(js, cfg.NATS.SubjectPrefix); err != nil {
		return fmt.Errorf("failed to ensure email stream: %w", err)
	}

	// Connect to object storage
	objects, err := minio.NewObjectStore(minio.Config{
		Endpoint:  cfg.ObjectStore.Endpoint,
		AccessKey: cfg.ObjectStore.AccessKey,
		SecretKey: cfg.ObjectStore.SecretKey,
		Region:    cfg.ObjectStore.Region,
		UseSSL:    cfg.ObjectStore.UseSSL,
		PublicURL: cfg.ObjectStore.PublicURL,
	})
	if err != nil {
		return fmt.Errorf("failed to create object store: %w", err)
	}
	if err := objects.EnsureBucket(ctx, cfg.ObjectStore.Container); err != nil {
		return fmt.Errorf("failed to ensure bucket: %w", err)
	}

	// Initialize outbound adapters
	accountRepo := postgres.NewAccountRepository(pool, metrics, cfg.Database.BcryptCost)
	profileCache := rediscache.NewProfileCache(redisClient, cfg.Redis.ProfileTTL)
	eventPublisher := natsadapter.NewEventPublisher(natsConn, cfg.NATS.SubjectPrefix)
	notificationQueue := natsadapter.NewNotificationQueue(js, cfg.NATS.SubjectPrefix)

	// Initialize services
	tokens, err := service.NewConfirmationTokens(service.ConfirmationTokenConfig{
		Issuer:     cfg.Email.Issuer,
		Audience:   cfg.Email.Issuer,
		TTL:        cfg.Email.TokenTTL,
		SigningKey: []byte(cfg.Email.SigningKey),
	})
	if err != nil {
		return fmt.Errorf("failed to create confirmation tokens: %w", err)
	}
	checker := service.NewUniquenessChecker(accountRepo)
	notifier := service.NewEmailChangeNotifier(notificationQueue, tokens, cfg.Email.ConfirmURL)
	avatarPolicy := service.AvatarPolicy{MaxBytes: cfg.Avatar.MaxBytes}

	// Initialize command handlers
	updateProfileHandler := appcommand.Instrument[command.UpdateProfile, command.UpdateProfileResult](
		appcommand.NewUpdateProfileHandler(
			accountRepo,
			checker,
			notifier,
			profileCache,
			eventPublisher,
			logger,
		),
		metrics,
	)
	replaceAvatarHandler := appcommand.Instrument[command.ReplaceAvatar, command.ReplaceAvatarResult](
		appcommand.NewReplaceAvatarHandler(
			accountRepo,
			objects,
			cfg.ObjectStore.Container,
			avatarPolicy,
			profileCache,
			eventPublisher,
			logger,
		),
		metrics,
	)
	confirmEmailHandler := appcommand.Instrument[command.ConfirmEmail, command.ConfirmEmailResult](
		appcommand.NewConfirmEmailHandler(
			accountRepo,
			profileCache,
			eventPublisher,
		),
		metrics,
	)
	deleteAccountHandler := appcommand.Instrument[command.DeleteAccount, command.DeleteAccountResult](
		appcommand.NewDeleteAccountHandler(
			accountRepo,
			objects,
			cfg.ObjectStore.Container,
			profileCache,
			eventPublisher,
			logger,
		),
		metrics,
	)

	// Initialize query handlers
	getProfileHandler := query.NewGetProfileHandler(accountRepo, profileCache)

	// Initialize HTTP API
	handler := httpapi.NewHandler(httpapi.HandlerConfig{
		UpdateProfileHandler: updateProfileHandler,
		ReplaceAvatarHandler: replaceAvatarHandler,
		ConfirmEmailHandler:  confirmEmailHandler,
		DeleteAccountHandler: deleteAccountHandler,
		GetProfileHandler:    getProfileHandler,
		Tokens:               tokens,
		MaxAvatarBytes:       cfg.Avatar.MaxBytes,
		Logger:               logger,
	})

	httpServer := httpapi.NewServer(logger, metrics,
		httpapi.ServerConfig{
			Address:      cfg.Server.Address(),
			BodyLimit:    cfg.Server.BodyLimit,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		httpapi.AuthConfig{
			Issuer:     cfg.Auth.Issuer,
			Audience:   cfg.Auth.Audience,
			SigningKey: []byte(cfg.Auth.SigningKey),
		},
		handler,
	)

	// Initialize ops servers
	opsServer, err := opsgrpc.NewServer(opsgrpc.ServerConfig{
		Host:              cfg.Ops.GRPCHost,
		Port:              cfg.Ops.GRPCPort,
		EnableReflection:  cfg.Ops.EnableReflection,
		EnableHealthCheck: cfg.Ops.EnableHealthCheck,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create ops server: %w", err)
	}

	metricsServer := &http.Server{
		Addr:              cfg.Ops.MetricsAddr,
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Handle graceful shutdown
	errChan := make(chan error, 3)
	go func() {
		errChan <- httpServer.Start()
	}()
	go func() {
		errChan <- opsServer.Start()
	}()
	go func() {
		logger.Info("metrics server starting", log.String("address", cfg.Ops.MetricsAddr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	opsServer.SetServingStatus(true)

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("profile service started", log.String("address", cfg.Server.Address()))

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.Info("received shutdown signal", log.String("signal", sig.String()))
		cancel()
		opsServer.SetServingStatus(false)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		var errs []error
		if err := httpServer.Stop(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop http server: %w", err))
		}
		if err := opsServer.Stop(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop ops server: %w", err))
		}
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop metrics server: %w", err))
		}
		if err := errors.Join(errs...); err != nil {
			return err
		}

		logger.Info("profile service stopped gracefully")
		return nil
	}
}

func connectPostgres(ctx context.Context, cfg config.DatabaseConfig, logger log.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	poolCfg.MaxConns = int32(cfg.MaxConns)
	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolCfg.HealthCheckPeriod = cfg.HealthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("connected to postgres",
		log.String("host", cfg.Host),
		log.String("database", cfg.Database),
	)

	return pool, nil
}

func connectRedis(ctx context.Context, cfg config.RedisConfig, logger log.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Info("connected to redis",
		log.String("address", cfg.Address()),
	)

	return client, nil
}

func connectNATS(cfg config.NATSConfig, logger log.Logger) (*natsclient.Conn, error) {
	opts := []natsclient.Option{
		natsclient.Name("overwatch-profile"),
		natsclient.MaxReconnects(cfg.MaxReconnects),
		natsclient.ReconnectWait(cfg.ReconnectWait),
		natsclient.DisconnectErrHandler(func(nc *natsclient.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", log.String("error", err.Error()))
			}
		}),
		natsclient.ReconnectHandler(func(nc *natsclient.Conn) {
			logger.Info("nats reconnected", log.String("url", nc.ConnectedUrl()))
		}),
	}

	conn, err := natsclient.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	logger.Info("connected to nats",
		log.String("url", conn.ConnectedUrl()),
	)

	return conn, nil
}
