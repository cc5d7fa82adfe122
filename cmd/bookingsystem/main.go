package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"bookingsystem/internal/app/middleware"
	"bookingsystem/internal/app/policies"
	"bookingsystem/internal/app/uow"
	"bookingsystem/internal/infra/broker/kafka"
	rediscache "bookingsystem/internal/infra/cache/redis"
	"bookingsystem/internal/infra/config"
	mongostore "bookingsystem/internal/infra/db/mongo"
	"bookingsystem/internal/infra/db/postgres"
	ginserver "bookingsystem/internal/infra/http/gin"
	"bookingsystem/internal/infra/jobs"
	"bookingsystem/internal/infra/obs"
	infraoutbox "bookingsystem/internal/infra/outbox"
	"bookingsystem/internal/infra/storage/memory"
	"bookingsystem/internal/infra/storage/s3"
)

const serviceName = "bookingsystem"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)
	slog.SetDefault(logger)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("bookingsystem stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("bookingsystem stopped")
}

type infrastructure struct {
	factory     uow.UoWFactory
	outboxStore infraoutbox.Store
	idempotency middleware.IdempotencyStore
	inbox       kafka.Inbox
	paid        policies.PaidPeriodStore
	holidays    policies.HolidayCache
	uploader    policies.ExportUploader
	producer    infraoutbox.Producer
	checks      []obs.Check
	closers     []func()
}

func (i *infrastructure) close() {
	for idx := len(i.closers) - 1; idx >= 0; idx-- {
		i.closers[idx]()
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	infra, err := connect(ctx, cfg, logger)
	defer infra.close()
	if err != nil {
		return err
	}

	worker := infraoutbox.NewWorker(infra.outboxStore, infra.producer)
	worker.Logger = logger
	worker.Interval = cfg.OutboxPollInterval
	worker.Backoff = cfg.RetryBackoff
	worker.TopicPrefix = cfg.KafkaTopicPrefix

	app := buildApplication(dependencies{
		Factory:      infra.factory,
		Idempotency:  infra.idempotency,
		PaidPeriods:  infra.paid,
		HolidayCache: infra.holidays,
		Uploader:     infra.uploader,
		Flusher:      worker,
		Logger:       logger,
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("outbox worker stopped", "error", err)
		}
	}()

	if len(cfg.KafkaBrokers) > 0 {
		handler := &kafka.EventHandler{Inbox: infra.inbox, Sinks: []kafka.EventSink{app.sink}, Logger: logger}
		consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, handler, logger)
		if err != nil {
			logger.Warn("kafka consumer unavailable, holiday cache relies on local invalidation", "error", err)
		} else {
			topic := cfg.KafkaTopicPrefix + "holiday.events.v1"
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := consumer.Run(ctx, []string{topic}); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("kafka consumer stopped", "error", err)
				}
			}()
			defer func() {
				if err := consumer.Close(); err != nil {
					logger.Warn("kafka consumer close failed", "error", err)
				}
			}()
		}
	}

	scheduler := jobs.NewCron(logger)
	var entries []jobs.Entry
	if app.refresh != nil {
		entries = append(entries, jobs.Entry{Spec: cfg.HolidayCacheRefresh, Job: app.refresh})
	}
	if err := jobs.InitCronJobs(scheduler, entries...); err != nil {
		return err
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Checks: infra.checks}, app.handlers)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
		scheduler.Stop(shutdownCtx)
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageDriver)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	wg.Wait()
	return nil
}

// connect opens the configured backends. Optional ones that are unset or
// unreachable fall back to in-memory adapters.
func connect(ctx context.Context, cfg config.Config, logger *slog.Logger) (*infrastructure, error) {
	infra := &infrastructure{
		idempotency: memory.NewIdempotencyStore(cfg.IdempotencyTTL),
		inbox:       memory.NewInboxStore(),
		paid:        memory.NewPaidPeriodStore(),
		holidays:    &memory.HolidayCache{},
		producer:    infraoutbox.LogProducer{Logger: logger},
	}

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return infra, fmt.Errorf("postgres: %w", err)
		}
		infra.closers = append(infra.closers, pool.Close)
		if err := postgres.Migrate(ctx, pool); err != nil {
			return infra, fmt.Errorf("postgres migrate: %w", err)
		}
		infra.factory = postgres.Factory{Pool: pool}
		infra.outboxStore = postgres.NewOutboxStore(pool)
		infra.checks = append(infra.checks, obs.Check{Name: "postgres", Ping: pool.Ping})
	default:
		factory := memory.NewFactory()
		infra.factory = factory
		infra.outboxStore = factory.OutboxStore
		logger.Warn("using in-memory storage, data is lost on restart")
	}

	connectMongo(ctx, cfg, logger, infra)
	connectRedis(ctx, cfg, logger, infra)

	if cfg.S3Endpoint == "" {
		logger.Warn("S3_ENDPOINT not set, payment plan export disabled")
	} else if client, err := s3.NewClient(s3.Config{
		Endpoint:       cfg.S3Endpoint,
		PublicEndpoint: cfg.S3PublicEndpoint,
		AccessKey:      cfg.S3AccessKey,
		SecretKey:      cfg.S3SecretKey,
		Bucket:         cfg.S3Bucket,
		UseSSL:         cfg.S3UseSSL,
	}, logger); err != nil {
		logger.Warn("s3 unavailable, payment plan export disabled", "error", err)
	} else {
		infra.uploader = client
		infra.checks = append(infra.checks, obs.Check{Name: "s3", Ping: client.Ping})
	}

	if len(cfg.KafkaBrokers) == 0 {
		logger.Warn("KAFKA_BROKERS not set, outbox events are only logged")
	} else if producer, err := kafka.NewProducer(cfg.KafkaBrokers, serviceName); err != nil {
		logger.Warn("kafka producer unavailable, outbox events are only logged", "error", err)
	} else {
		infra.producer = producer
		infra.closers = append(infra.closers, func() {
			if err := producer.Close(); err != nil {
				logger.Warn("kafka producer close failed", "error", err)
			}
		})
	}
	return infra, nil
}

func connectMongo(ctx context.Context, cfg config.Config, logger *slog.Logger, infra *infrastructure) {
	if cfg.MongoURI == "" {
		logger.Warn("MONGO_URI not set, idempotency keys and inbox kept in memory")
		return
	}
	client, err := mongostore.New(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Warn("mongo unavailable, idempotency keys and inbox kept in memory", "error", err)
		return
	}
	infra.closers = append(infra.closers, func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Close(closeCtx)
	})
	infra.checks = append(infra.checks, obs.Check{Name: "mongo", Ping: client.Ping})

	if store, err := mongostore.NewIdempotencyStore(ctx, client.DB, cfg.IdempotencyTTL); err != nil {
		logger.Warn("mongo idempotency store unavailable", "error", err)
	} else {
		infra.idempotency = store
	}
	if inbox, err := mongostore.NewInboxStore(ctx, client.DB, cfg.KafkaGroupID); err != nil {
		logger.Warn("mongo inbox unavailable", "error", err)
	} else {
		infra.inbox = inbox
	}
}

func connectRedis(ctx context.Context, cfg config.Config, logger *slog.Logger, infra *infrastructure) {
	if cfg.RedisAddr == "" {
		logger.Warn("REDIS_ADDR not set, paid periods and holiday cache kept in memory")
		return
	}
	rdb, err := rediscache.Connect(ctx, rediscache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err != nil {
		logger.Warn("redis unavailable, paid periods and holiday cache kept in memory", "error", err)
		return
	}
	infra.closers = append(infra.closers, func() { _ = rdb.Close() })
	infra.checks = append(infra.checks, obs.Check{Name: "redis", Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }})
	infra.paid = rediscache.NewPaidPeriodStore(rdb, cfg.PaidPeriodsTTL)
	infra.holidays = rediscache.NewHolidayCache(rdb, cfg.HolidayCacheTTL)
}
