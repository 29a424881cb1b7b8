package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"council/internal/audit"
	"council/internal/enrichment"
	"council/internal/governance"
	"council/internal/platform/config"
	"council/internal/platform/httpserver"
	"council/internal/platform/kafka"
	"council/internal/platform/logger"
	"council/internal/platform/metrics"
	"council/internal/platform/postgres"
	"council/internal/platform/redis"
	"council/internal/proposal"
	httptransport "council/internal/transport/http"
	"council/internal/vote"
	"council/pkg/platform/tx"
)

const auditConsumerGroup = "council-audit-materializer"

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage.
	var (
		proposals proposal.Store
		votes     vote.Store
		auditLog  audit.Store
		runner    tx.Runner
	)
	checks := map[string]httptransport.HealthCheck{}

	switch cfg.StorageDriver {
	case "postgres":
		db, err := postgres.Open(ctx, cfg.PostgresURL)
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			log.Error("schema migration failed", "error", err)
			os.Exit(1)
		}
		proposals = proposal.NewPostgres(db)
		votes = vote.NewPostgres(db)
		auditLog = audit.NewPostgresStore(db)
		runner = tx.NewSQLRunner(db)
		checks["postgres"] = db.PingContext
	case "memory":
		proposals = proposal.NewInMemory()
		votes = vote.NewInMemory()
		auditLog = audit.NewInMemoryStore()
		runner = tx.NewMemoryRunner()
	default:
		log.Error("unknown storage driver", "driver", cfg.StorageDriver)
		os.Exit(1)
	}

	// Audit pipeline. The synchronous store append is the source of truth;
	// Kafka is an optional downstream feed.
	publisherOpts := []audit.Option{audit.WithLogger(log)}
	var consumer *kafka.Consumer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Error("kafka producer setup failed", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		if err := producer.EnsureTopic(ctx, cfg.AuditTopic); err != nil {
			log.Error("audit topic setup failed", "topic", cfg.AuditTopic, "error", err)
			os.Exit(1)
		}
		publisherOpts = append(publisherOpts, audit.WithStream(audit.NewKafkaStream(producer, cfg.AuditTopic)))

		consumer, err = kafka.NewConsumer(cfg.KafkaBrokers, auditConsumerGroup, []string{cfg.AuditTopic}, audit.NewMaterializer(auditLog, log), log)
		if err != nil {
			log.Error("kafka consumer setup failed", "error", err)
			os.Exit(1)
		}
	}
	publisher := audit.NewPublisher(auditLog, publisherOpts...)

	// Bill metadata enrichment.
	enrichOpts := []enrichment.Option{enrichment.WithLogger(log)}
	if cfg.RedisURL != "" {
		redisClient, err := redis.New(ctx, cfg.RedisURL)
		if err != nil {
			log.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		enrichOpts = append(enrichOpts, enrichment.WithCache(enrichment.NewRedisCache(redisClient), cfg.BillCacheTTL))
		checks["redis"] = redisClient.Health
	} else {
		enrichOpts = append(enrichOpts, enrichment.WithCache(enrichment.NewMemoryCache(), cfg.BillCacheTTL))
	}
	enrich := enrichment.New(
		enrichment.NewCongressClient(cfg.CongressBaseURL, cfg.CongressAPIKey),
		enrichOpts...,
	)

	svc := governance.New(proposals, votes, publisher, runner,
		governance.WithLogger(log),
		governance.WithMetrics(m),
	)

	handler := httptransport.NewHandler(svc, enrich, log)
	router := httptransport.NewRouter(handler, httptransport.RouterConfig{
		Logger:  log,
		Metrics: m,
		Checks:  checks,
	})
	srv := httpserver.New(cfg.Addr, router)

	if consumer != nil {
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("audit consumer stopped", "error", err)
			}
		}()
	}

	go func() {
		log.Info("starting council server", "addr", cfg.Addr, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
