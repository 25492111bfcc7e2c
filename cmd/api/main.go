package main

import (
	"context"
	"log"
	"time"

	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/windscape-energy/windscape-backend/config"
	"github.com/windscape-energy/windscape-backend/internal/bootstrap"
	"github.com/windscape-energy/windscape-backend/internal/projects/cache"
	cronjob "github.com/windscape-energy/windscape-backend/internal/projects/cron"
	"github.com/windscape-energy/windscape-backend/internal/projects/notify"
	"github.com/windscape-energy/windscape-backend/internal/projects/retry"
	"github.com/windscape-energy/windscape-backend/internal/projects/service"
	"github.com/windscape-energy/windscape-backend/internal/projects/storage"
	"github.com/windscape-energy/windscape-backend/internal/projects/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()
	awsConfig, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(cfg.Storage.Region))
	if err != nil {
		log.Fatalf("aws config load: %v", err)
	}

	backend := storage.NewS3ObjectStore(s3.NewFromConfig(awsConfig), cfg.Storage.Bucket)
	recordCache := cache.New(cfg.Cache.TTL)

	opts := store.Options{
		Namespace: cfg.Storage.Namespace,
		RetryPolicy: retry.Policy{
			MaxRetries:   cfg.Retry.MaxRetries,
			InitialDelay: cfg.Retry.InitialDelay,
			MaxDelay:     cfg.Retry.MaxDelay,
			Multiplier:   cfg.Retry.BackoffMultiplier,
		},
		ListLimiter: rate.NewLimiter(rate.Limit(cfg.Storage.ListRateLimit), cfg.Storage.ListBurst),
	}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		notifier := notify.New(client, cfg.Redis.Channel, recordCache)
		opts.Notifier = notifier

		go func() {
			if err := notifier.Listen(ctx); err != nil && ctx.Err() == nil {
				log.Printf("invalidation listener stopped: %v", err)
			}
		}()
	}

	projectStore := store.New(backend, recordCache, opts)

	sweeper := cronjob.NewScheduler(recordCache, cfg.Cache.SweepSpec,
		time.Duration(cfg.Cache.RetentionFactor)*cfg.Cache.TTL)
	if err := sweeper.Start(); err != nil {
		log.Fatalf("cache sweep scheduler: %v", err)
	}
	defer sweeper.Stop()

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "windscape-backend",
		Version:     cfg.App.Version,
		Projects:    service.NewProjectService(projectStore),
	})

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
