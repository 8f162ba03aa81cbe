package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/casalivre/listing-service/internal/adapter/httpapi"
	"github.com/casalivre/listing-service/internal/adapter/messaging/nats"
	"github.com/casalivre/listing-service/internal/adapter/repository/cache"
	"github.com/casalivre/listing-service/internal/adapter/repository/mongodb"
	"github.com/casalivre/listing-service/internal/adapter/storage/s3"
	"github.com/casalivre/listing-service/internal/config"
	"github.com/casalivre/listing-service/internal/listing/domain"
	"github.com/casalivre/listing-service/internal/listing/usecase"
	"github.com/casalivre/listing-service/internal/mailer"
	"github.com/casalivre/listing-service/internal/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLogger := logger.New()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	cancel()
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())

	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	err = mongoClient.Ping(ctx, readpref.Primary())
	cancel()
	if err != nil {
		log.Fatalf("failed to ping mongodb: %v", err)
	}

	db := mongoClient.Database(cfg.MongoDB)
	listingRepo := mongodb.NewListingRepository(db)
	ownerRepo := mongodb.NewOwnerRepository(db)

	views, err := cache.NewViewCache(cfg.RedisAddress)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}

	storage, err := s3.NewStorage(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL, appLogger)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	var events domain.EventPublisher
	if cfg.NATSURL != "" {
		publisher, err := nats.NewPublisher(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer publisher.Close()
		events = publisher
	}

	var mail usecase.Mailer
	if cfg.SMTPHost != "" {
		mail = mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword)
	}

	uc := usecase.NewListingUsecase(listingRepo, ownerRepo, storage, views, events, mail, appLogger)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           httpapi.NewRouter(uc, cfg.JWTSecret, appLogger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		appLogger.Info("http server listening", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server failed: %v", err)
		}
	}()

	<-shutdownCtx.Done()
	appLogger.Info("shutting down")

	ctx, cancel = context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("shutdown did not complete cleanly", "error", err.Error())
	}
}
