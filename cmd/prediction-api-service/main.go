package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Spikeyfun/prediction/cmd/prediction-api-service/cli"
	"github.com/Spikeyfun/prediction/internal/api"
	"github.com/Spikeyfun/prediction/internal/cache"
	"github.com/Spikeyfun/prediction/internal/config"
	"github.com/Spikeyfun/prediction/internal/db/model"
	"github.com/Spikeyfun/prediction/internal/observability/healthcheck"
	"github.com/Spikeyfun/prediction/internal/observability/metrics"
	"github.com/Spikeyfun/prediction/internal/queue"
	"github.com/Spikeyfun/prediction/internal/services"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("failed to load .env file")
	}
}

func main() {
	ctx := context.Background()

	// setup cli commands and flags
	if err := cli.Setup(); err != nil {
		log.Fatal().Err(err).Msg("error while setting up cli")
	}

	// load config
	cfgPath := cli.GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg(fmt.Sprintf("error while loading config file: %s", cfgPath))
	}

	// initialize metrics with the metrics port from config
	metricsPort := cfg.Metrics.GetMetricsPort()
	metrics.Init(metricsPort)

	err = model.Setup(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up ledger db model")
	}

	services, err := services.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up ledger services layer")
	}
	if err := services.BootstrapLedger(ctx, cfg.Ledger.AdminIdentity); err != nil {
		log.Fatal().Err(err).Msg("error while bootstrapping ledger root")
	}

	if cfg.Queue.Enabled {
		queues, err := queue.New(&cfg.Queue)
		if err != nil {
			log.Fatal().Err(err).Msg("error while setting up event queues")
		}
		services.Queues = queues
	}

	if cfg.Cache.Enabled {
		slotCache, err := cache.New(&cfg.Cache)
		if err != nil {
			log.Fatal().Err(err).Msg("error while setting up slot cache")
		}
		services.SlotCache = slotCache
	}

	healthcheck.StartHealthCheckCron(ctx, services, services.Queues, cfg.Server.HealthCheckInterval)

	apiServer, err := api.New(ctx, cfg, services)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up prediction api service")
	}
	if err = apiServer.Start(); err != nil {
		log.Fatal().Err(err).Msg("error while starting prediction api service")
	}
}
