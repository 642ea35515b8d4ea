package main

import (
	"context"
	"log"

	"golang.org/x/time/rate"

	"github.com/reimagineddocs/dip-backend/config"
	diphttp "github.com/reimagineddocs/dip-backend/internal/api/http/dip"
	"github.com/reimagineddocs/dip-backend/internal/bootstrap"
	"github.com/reimagineddocs/dip-backend/internal/dip/approval"
	"github.com/reimagineddocs/dip-backend/internal/dip/cleaner"
	cronjob "github.com/reimagineddocs/dip-backend/internal/dip/cron"
	"github.com/reimagineddocs/dip-backend/internal/dip/repository"
	"github.com/reimagineddocs/dip-backend/internal/dip/trace"
	"github.com/reimagineddocs/dip-backend/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: postgres.DSN(&cfg.Database)})
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	sqlDB, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("postgres (sql): %v", err)
	}
	defer sqlDB.Close()

	redisClient, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()

	tracer := trace.NewLogTracer(cfg.App.Debug)

	docs := repository.NewDocumentStore(pool)
	specs := repository.NewSpecRepository(pool)
	goldens := repository.NewGoldenRepository(sqlDB)
	playbooks := repository.NewPlaybookRepository(redisClient)
	intents := repository.NewIntentRepository(pool)

	orchestrator := approval.NewOrchestrator(docs, specs, goldens, playbooks, intents, tracer)
	handler := diphttp.NewHandler(cleaner.New(tracer), orchestrator, playbooks)

	scheduler := cronjob.NewScheduler(map[string]cronjob.StaleStore{
		"spec":     specs,
		"golden":   goldens,
		"playbook": playbooks,
		"intent":   intents,
	})
	scheduler.Start()

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "dip-backend",
		Version:     cfg.App.Version,
		DB:          pool,
		Handler:     handler,
		RateRPS:     rate.Limit(10),
		RateBurst:   20,
	})

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
