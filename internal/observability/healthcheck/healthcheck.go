package healthcheck

import (
	"context"
	"fmt"
	"os"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Spikeyfun/prediction/internal/queue"
	"github.com/Spikeyfun/prediction/internal/services"
)

var logger zerolog.Logger = log.Logger

func SetLogger(customLogger zerolog.Logger) {
	logger = customLogger
}

// StartHealthCheckCron periodically pings storage and, when event publishing
// is enabled, the queue connections. A failed check terminates the process so
// the supervisor can restart it.
func StartHealthCheckCron(ctx context.Context, svc *services.Services, queues *queue.Queues, cronTime int) error {
	c := cron.New()
	logger.Info().Msg("Initiated Health Check Cron")

	if cronTime == 0 {
		cronTime = 60
	}

	cronSpec := fmt.Sprintf("@every %ds", cronTime)

	_, err := c.AddFunc(cronSpec, func() {
		healthCheck(ctx, svc, queues)
	})

	if err != nil {
		return err
	}

	c.Start()

	go func() {
		<-ctx.Done()
		logger.Info().Msg("Stopping Health Check Cron")
		c.Stop()
	}()

	return nil
}

func healthCheck(ctx context.Context, svc *services.Services, queues *queue.Queues) {
	if err := svc.DoHealthCheck(ctx); err != nil {
		logger.Error().Err(err).Msg("Database is not healthy.")
		terminateService()
	}
	if queues != nil {
		if err := queues.IsConnectionHealthy(); err != nil {
			logger.Error().Err(err).Msg("One or more queue connections are not healthy.")
			terminateService()
		}
	}
}

func terminateService() {
	logger.Fatal().Msg("Terminating service due to health check failure.")
	os.Exit(1)
}
