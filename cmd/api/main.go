package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/infra/blob"
	"storefront/internal/infra/db"
	"storefront/internal/infra/queue"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/infra/session"
	"storefront/internal/logger"
	"storefront/internal/server"
	"storefront/internal/usecase"
	"storefront/internal/validator"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	//.envは無くてもよい
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg.GoEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}

	//セッション（カート）
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("redis ping failed")
	}
	cancel()

	//通知キュー。トピックが作れなくても起動は続ける
	orderQueue := queue.NewKafkaQueue(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer orderQueue.Close()
	if err := orderQueue.EnsureExists(ctx); err != nil {
		log.Warn().Err(err).Str("topic", cfg.KafkaTopic).Msg("queue ensure failed")
	}

	blobs, err := blob.NewLocalBlobStore(cfg.BlobDir)
	if err != nil {
		log.Fatal().Err(err).Msg("blob store init failed")
	}

	//Repository
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	customerRepo := infraRepo.NewCustomerGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	sessions := session.NewRedisSessionStore(rdb, cfg.SessionTTL)

	//Usecase
	authUC := usecase.NewAuthUsecase(cfg, userRepo, customerRepo, sessions, validator.NewAuthValidator(userRepo), log)
	cartUC := usecase.NewCartUsecase(sessions, productRepo, log)
	orderUC := usecase.NewOrderUsecase(orderRepo, productRepo, customerRepo, orderQueue, cartUC, cfg.NotifyOnCheckout, log)
	adminOrderUC := usecase.NewAdminOrderUsecase(orderRepo, productRepo, customerRepo, userRepo, orderQueue, auditRepo, log)
	productUC := usecase.NewProductUsecase(productRepo, blobs, auditRepo, log)
	customerUC := usecase.NewCustomerUsecase(customerRepo)
	fileUC := usecase.NewFileUsecase(blobs)
	auditUC := usecase.NewAuditLogUsecase(auditRepo)

	if err := authUC.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("admin bootstrap failed")
	}

	//Handler
	e := server.New(log)
	server.RegisterRoutes(e, cfg, userRepo,
		handler.NewAuthHandler(authUC, cfg),
		handler.NewProductHandler(productUC),
		handler.NewAdminProductHandler(productUC),
		handler.NewCartHandler(cartUC, orderUC),
		handler.NewOrderHandler(orderUC),
		handler.NewAdminOrderHandler(adminOrderUC, auditUC),
		handler.NewCustomerHandler(customerUC),
		handler.NewFileHandler(fileUC),
	)

	//Server起動
	addr := cfg.Port
	if addr != "" && addr[0] != ':' {
		addr = ":" + addr
	}
	if err := server.Start(ctx, e, addr, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("closed completed")
}
