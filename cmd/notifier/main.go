package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/internal/infra/queue"
	"storefront/internal/logger"
	"storefront/internal/usecase"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

// 注文受付キューを読んでログに出す
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg.GoEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := queue.NewKafkaConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("topic", cfg.KafkaTopic).Str("group", cfg.KafkaGroupID).Msg("notifier starting")
		return consumer.Run(gctx, usecase.HandleOrderReceived(log))
	})
	g.Go(func() error {
		<-gctx.Done()
		return consumer.Close()
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("notifier stopped")
	}
	log.Info().Msg("closed completed")
}
