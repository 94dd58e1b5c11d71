package services

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/Spikeyfun/prediction/internal/cache"
	"github.com/Spikeyfun/prediction/internal/clock"
	"github.com/Spikeyfun/prediction/internal/config"
	"github.com/Spikeyfun/prediction/internal/db"
	"github.com/Spikeyfun/prediction/internal/queue"
	"github.com/Spikeyfun/prediction/internal/types"
)

// Service layer contains the business logic of the prediction ledger: slot
// lifecycle, escrow custody, winner-set computation and proportional payout.
// It interacts with storage through the DBClient contract and, optionally,
// publishes events and caches resolved slots.
type Services struct {
	DbClient  db.DBClient
	Clock     clock.Clock
	Queues    *queue.Queues
	SlotCache *cache.SlotCache
	cfg       *config.Config
	admin     string
}

func New(ctx context.Context, cfg *config.Config) (*Services, error) {
	dbClient, err := db.New(ctx, cfg.Db)
	if err != nil {
		log.Ctx(ctx).Fatal().Err(err).Msg("error while creating db client")
		return nil, err
	}
	return &Services{
		DbClient: dbClient,
		Clock:    clock.System(),
		cfg:      cfg,
	}, nil
}

// NewWithClient builds a service layer on an externally owned storage handle.
// Embedders use this to run the ledger against memdb or an already connected
// database; the embedding application controls the handle's lifecycle.
func NewWithClient(cfg *config.Config, dbClient db.DBClient, clk clock.Clock) *Services {
	return &Services{
		DbClient: dbClient,
		Clock:    clk,
		cfg:      cfg,
	}
}

// BootstrapLedger creates the singleton ledger root, binding adminIdentity as
// the administrator. Against an already bootstrapped store the stored identity
// wins and a differing adminIdentity is only logged.
func (s *Services) BootstrapLedger(ctx context.Context, adminIdentity string) error {
	root, err := s.DbClient.InitLedgerRoot(ctx, adminIdentity, s.Clock.Now())
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("error while initializing ledger root")
		return err
	}
	if root.AdminIdentity != adminIdentity {
		log.Ctx(ctx).Warn().
			Str("configured", adminIdentity).
			Str("stored", root.AdminIdentity).
			Msg("ledger root already bootstrapped with a different admin identity, keeping stored identity")
	}
	s.admin = root.AdminIdentity
	return nil
}

// requireAdmin compares the caller identity for equality against the
// administrator bound at bootstrap.
func (s *Services) requireAdmin(caller string) *types.Error {
	if caller == "" || caller != s.admin {
		return types.NewErrorWithMsg(
			http.StatusForbidden, types.Unauthorized, "caller is not the administrator",
		)
	}
	return nil
}

// DoHealthCheck checks the health of the services by ping the database.
func (s *Services) DoHealthCheck(ctx context.Context) error {
	return s.DbClient.Ping(ctx)
}
