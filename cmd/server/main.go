package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/inkwell/inkwell/internal/config"
	"github.com/inkwell/inkwell/internal/handlers"
	"github.com/inkwell/inkwell/internal/middleware"
	"github.com/inkwell/inkwell/internal/repository"
	"github.com/inkwell/inkwell/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	db, err := repository.OpenPostgres(cfg.Database, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	if err := repository.Migrate(db); err != nil {
		logger.WithError(err).Fatal("Failed to migrate database")
	}

	redisClient, err := initRedis(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisClient.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db, logger)
	otpRepo := repository.NewOTPRepository(db, logger)
	categoryRepo := repository.NewCategoryRepository(db, logger)
	blogRepo := repository.NewBlogRepository(db, logger)
	commentRepo := repository.NewCommentRepository(db, logger)

	refreshStore, err := initRefreshTokenStore(cfg, redisClient, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize refresh token store")
	}

	// Initialize services
	jwtService, err := service.NewJWTService(&cfg.JWT, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize JWT service")
	}

	tokenService := service.NewTokenService(jwtService, refreshStore, userRepo, logger)
	otpService := service.NewOTPService(
		userRepo,
		otpRepo,
		service.NewRedisCodeCache(redisClient, cfg.OTP.CachePrefix, logger),
		service.NewLogSender(logger),
		tokenService,
		&cfg.OTP,
		logger,
	)
	blogService := service.NewBlogService(blogRepo, logger)
	commentService := service.NewCommentService(commentRepo, blogRepo, categoryRepo, logger)

	validator, err := handlers.NewValidator()
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize validator")
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtService, userRepo, logger)
	router := handlers.NewRouter(handlers.Set{
		Auth:       handlers.NewAuthHandlers(otpService, tokenService, validator, logger),
		Users:      handlers.NewUserHandlers(userRepo, validator, logger),
		Categories: handlers.NewCategoryHandlers(categoryRepo, validator, logger),
		Blogs:      handlers.NewBlogHandlers(blogService, validator, logger),
		Comments:   handlers.NewCommentHandlers(commentService, validator, logger),
	}, authMiddleware, cfg.Server.AllowedOrigins, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

func initRedis(cfg *config.Config, logger *logrus.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Endpoint,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.WithField("endpoint", cfg.Redis.Endpoint).Info("Redis client initialized")
	return client, nil
}

func initRefreshTokenStore(cfg *config.Config, redisClient *redis.Client, logger *logrus.Logger) (service.RefreshTokenStore, error) {
	if cfg.TokenStore != config.TokenStoreDynamoDB {
		return service.NewRefreshTokenService(redisClient, logger), nil
	}

	dynamoClient, err := initDynamoDB(cfg, logger)
	if err != nil {
		return nil, err
	}
	return repository.NewDynamoRefreshTokenRepository(dynamoClient, cfg.DynamoDB.TableName, logger), nil
}

func initDynamoDB(cfg *config.Config, logger *logrus.Logger) (*dynamodb.Client, error) {
	var awsCfg aws.Config
	var err error

	if cfg.DynamoDB.Endpoint != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.TODO(),
			awsconfig.WithRegion(cfg.DynamoDB.Region),
			awsconfig.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
				func(service, region string, options ...interface{}) (aws.Endpoint, error) {
					return aws.Endpoint{
						URL:           cfg.DynamoDB.Endpoint,
						SigningRegion: cfg.DynamoDB.Region,
					}, nil
				})),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(cfg.DynamoDB.Region))
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg)
	logger.Info("DynamoDB client initialized")
	return client, nil
}
