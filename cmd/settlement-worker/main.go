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
	"payflow/models"
	"payflow/repository"
	"payflow/services"
)

func main() {
	cfg, err := config.LoadSettlement()
	if err != nil {
		log.Fatal("[SettlementWorker] failed to load config: ", err)
	}

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatal("[SettlementWorker] failed to initialize logger: ", err)
	}
	defer zlog.Sync()

	db, err := database.ConnectPostgres(cfg.Postgres, zlog, &models.Payment{})
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	payments := repository.NewGormPaymentRepository(db)
	gateway := services.NewStripeGateway(cfg.StripeSecretKey)

	producer := kafka.NewProducer(cfg.KafkaBrokers, kafka.TopicPaymentStatus, zlog)
	defer producer.Close()

	processor := services.NewSettlementProcessor(gateway, producer, payments, zlog)
	consumer := services.NewSettlementConsumer(cfg.KafkaBrokers, kafka.TopicTransactions, cfg.ConsumerGroup, processor, zlog)
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
