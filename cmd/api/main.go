package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"payflow/apperrors"
	"payflow/config"
	"payflow/controllers"
	"payflow/database"
	"payflow/kafka"
	"payflow/logger"
	"payflow/middleware"
	"payflow/repository"
	"payflow/routes"
	"payflow/services"
)

func main() {
	cfg, err := config.LoadAPI()
	if err != nil {
		log.Fatal("[API] failed to load config: ", err)
	}

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatal("[API] failed to initialize logger: ", err)
	}
	defer zlog.Sync()

	tokens, err := services.NewTokenService(cfg.JWTSecret)
	if err != nil {
		zlog.Fatal("failed to initialize token service", zap.Error(err))
	}
	credentials, err := services.NewCredentialChecker(cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		zlog.Fatal("failed to initialize credential checker", zap.Error(err))
	}

	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		zlog.Fatal("failed to connect to Redis", zap.Error(err))
	}

	producer := kafka.NewProducer(cfg.KafkaBrokers, kafka.TopicTransactions, zlog)
	defer producer.Close()

	idempotency := repository.NewRedisIdempotencyStore(redisClient)
	statuses := repository.NewRedisStatusStore(redisClient)

	ac := controllers.NewAuthController(tokens, credentials, zlog)
	cc := controllers.NewCommandController(producer, idempotency, cfg.IdempotencyTTL, zlog)
	qc := controllers.NewQueryController(statuses, zlog)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(zlog))
	r.Use(apperrors.ErrorMiddleware())
	routes.Register(r, tokens, ac, cc, qc)

	zlog.Info("API server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		zlog.Fatal("server failed", zap.Error(err))
	}
}
