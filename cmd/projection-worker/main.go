package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"payflow/config"
	"payflow/database"
	"payflow/kafka"
	"payflow/logger"
	"payflow/metrics"
	"payflow/repository"
	"payflow/services"
)

func main() {
	cfg, err := config.LoadProjection()
	if err != nil {
		log.Fatal("[ProjectionWorker] failed to load config: ", err)
	}

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatal("[ProjectionWorker] failed to initialize logger: ", err)
	}
	defer zlog.Sync()

	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		zlog.Fatal("failed to connect to Redis", zap.Error(err))
	}

	statuses := repository.NewRedisStatusStore(redisClient)
	projector := services.NewStatusProjector(statuses, zlog)
	consumer := services.NewStatusConsumer(cfg.KafkaBrokers, kafka.TopicPaymentStatus, cfg.ConsumerGroup, projector, zlog)
	defer consumer.Close()

	go func() {
		addr := ":" + cfg.MetricsPort
		zlog.Info("metrics listener starting", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, metrics.Handler()); err != nil {
			zlog.Warn("metrics listener stopped", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer.Start(ctx)
}
