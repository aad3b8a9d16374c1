package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"filmbot/internal/config"
	"filmbot/internal/service"
	"filmbot/pkg/log"
)

func main() {
	_ = godotenv.Load()
	log.InitLogger(log.ParseLevel(os.Getenv("LOG_LEVEL")))

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatal("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := cron.New()
	svc, err := service.NewRunnablePromoService(*cfg, c)
	if err != nil {
		log.Fatal("Failed to build service: %v", err)
	}
	defer svc.Close()

	if err := svc.Schedule(ctx); err != nil {
		log.Fatal("Failed to schedule runs: %v", err)
	}
	c.Start()

	// One immediate pass at startup, then wait for the schedule.
	svc.Run(ctx)

	<-ctx.Done()
	log.Info("Shutting down")
	<-c.Stop().Done()
}
