package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"realty_leads_backend/internal/crm"
	"realty_leads_backend/platform/config"
	"realty_leads_backend/platform/db"
	"realty_leads_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting CRM sync worker", "env", cfg.Env, "queue", cfg.GetSyncQueueName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	worker, err := crm.NewWorker(cfg, pool, log)
	if err != nil {
		log.Error("failed to initialize CRM sync worker", "error", err)
		panic("failed to initialize CRM sync worker: " + err.Error())
	}

	worker.Run(ctx)
	log.Info("CRM sync worker stopped")
}
