package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/BloggingApp/posts-service/internal/config"
	"github.com/BloggingApp/posts-service/internal/handler"
	"github.com/BloggingApp/posts-service/internal/rabbitmq"
	"github.com/BloggingApp/posts-service/internal/repository"
	"github.com/BloggingApp/posts-service/internal/repository/postgres"
	"github.com/BloggingApp/posts-service/internal/server"
	"github.com/BloggingApp/posts-service/internal/service"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	logger, _ := zap.NewProduction()

	if err := loadEnv(); err != nil {
		logger.Sugar().Panicf("failed to load environment variables: %s", err.Error())
	}

	if err := initConfig(); err != nil {
		logger.Sugar().Panicf("failed to initialize yaml config: %s", err.Error())
	}

	cfg, err := config.Load(viper.GetViper(), os.Getenv)
	if err != nil {
		logger.Sugar().Panicf("failed to load config: %s", err.Error())
	}

	if cfg.IsDevelopment() {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	db, err := postgres.DB(ctx, cfg.DB)
	if err != nil {
		logger.Sugar().Panicf("failed to connect to postgres: %s", err.Error())
	}
	defer db.Close()
	if err := db.Ping(ctx); err != nil {
		logger.Sugar().Panicf("failed to ping postgres: %s", err.Error())
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		logger.Sugar().Panicf("failed to migrate postgres schema: %s", err.Error())
	}
	logger.Info("Successfully connected to PostgreSQL")

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})
	defer rdb.Close()
	pong, err := rdb.Ping(ctx).Result()
	if err != nil {
		logger.Sugar().Panicf("failed to ping redis: %s", err.Error())
	}
	logger.Sugar().Infof("Successfully connected to Redis: %s", pong)

	var publisher service.Publisher
	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.New(cfg.RabbitMQURL)
		if err != nil {
			logger.Sugar().Panicf("failed to connect to rabbitmq: %s", err.Error())
		}
		defer mq.Close()
		publisher = mq
		logger.Info("Successfully connected to RabbitMQ")
	} else {
		logger.Info("RABBITMQ_CONN_STRING is not set, post events are disabled")
	}

	repos := repository.New(db, rdb)
	services := service.New(logger, repos, cfg.Auth, publisher)
	handlers := handler.New(logger, services, cfg.RateLimit)

	srv := server.New()
	serverConfig := config.ServerConfig{
		Port:           cfg.Port,
		Handler:        handlers.InitRoutes(cfg.ClientOrigin),
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
	}
	go func() {
		if err := srv.Run(serverConfig); err != nil {
			logger.Sugar().Panicf("failed to run http server: %s", err.Error())
		}
	}()

	logger.Sugar().Infof("Server started on port %s", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Server shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("failed to shut down http server: %s", err.Error())
	}
}

// loadEnv reads .env when present. Deployments may set the variables directly.
func loadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func initConfig() error {
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")
	viper.SetConfigName("app")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}
