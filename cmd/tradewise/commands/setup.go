package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/wonny/tradewise/backend/internal/contracts"
	"github.com/wonny/tradewise/backend/internal/engine"
	"github.com/wonny/tradewise/backend/internal/engine/gbt"
	"github.com/wonny/tradewise/backend/internal/engine/trainer"
	"github.com/wonny/tradewise/backend/internal/modelstore"
	"github.com/wonny/tradewise/backend/internal/strategyconfig"
	"github.com/wonny/tradewise/backend/internal/tradedata"
	"github.com/wonny/tradewise/backend/pkg/config"
	"github.com/wonny/tradewise/backend/pkg/database"
	"github.com/wonny/tradewise/backend/pkg/logger"
)

// app bundles the wiring every command shares.
type app struct {
	cfg      *config.Config
	strategy *strategyconfig.Config
	log      *logger.Logger
	db       *database.DB // nil in file/csv mode
	store    modelstore.Store
	service  *engine.Service
}

// newApp loads config and strategy, opens the stores and builds the engine.
// needsDB forces a database connection even in file mode.
func newApp(needsDB bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	log := logger.New(cfg)

	strategyPath := strategyFile
	if strategyPath == "" {
		strategyPath = cfg.Model.StrategyFile
	}
	strategy, strategyYAML, err := strategyconfig.Load(strategyPath)
	if err != nil {
		return nil, fmt.Errorf("load strategy %s: %w", strategyPath, err)
	}

	a := &app{cfg: cfg, strategy: strategy, log: log}

	if needsDB || cfg.Model.StoreBackend == "postgres" || strategy.Data.Source == "postgres" {
		db, err := database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.db = db
	}

	switch cfg.Model.StoreBackend {
	case "postgres":
		a.store = modelstore.NewPostgresStore(a.db.Pool)
	default:
		store, err := modelstore.NewFileStore(cfg.Model.StoreDir, log)
		if err != nil {
			return nil, err
		}
		a.store = store
	}

	tr := trainer.New(trainerConfig(strategy, cfg), log)
	auditor := strategyconfig.NewSnapshotWriter(strategy, strategyYAML, cfg.Model.StoreDir)
	a.service = engine.NewService(tr, a.store, cfg.Model.BundleKey, auditor, log)
	return a, nil
}

// restore loads the persisted bundle; a cold store is not an error.
func (a *app) restore(ctx context.Context) error {
	err := a.service.Restore(ctx)
	if errors.Is(err, contracts.ErrBundleNotFound) {
		a.log.Info("No persisted model bundle, starting cold")
		return nil
	}
	return err
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
}

// tableSource returns the training data loader named by the strategy file.
func (a *app) tableSource() (interface {
	LoadTable(ctx context.Context) (*contracts.Table, error)
}, error) {
	switch a.strategy.Data.Source {
	case "postgres":
		return tradedata.NewRepository(a.db.Pool), nil
	default:
		return csvSource{path: a.strategy.Data.CSVPath}, nil
	}
}

// csvSource adapts a CSV file to the table-loader interfaces.
type csvSource struct {
	path string
}

func (s csvSource) LoadTable(_ context.Context) (*contracts.Table, error) {
	return tradedata.LoadCSV(s.path)
}

// dealerSource returns the dealer pool provider. Without a database a small
// seeded synthetic pool keeps the ranking endpoints usable in development.
func (a *app) dealerSource() interface {
	List(ctx context.Context) ([]contracts.DealerSummary, error)
} {
	if a.db != nil {
		return tradedata.NewDealerRepository(a.db.Pool)
	}
	return staticDealers{}
}

type staticDealers struct{}

const devDealerSeed = 7

func (staticDealers) List(_ context.Context) ([]contracts.DealerSummary, error) {
	return tradedata.GenerateDealers(30, devDealerSeed), nil
}

// trainerConfig maps the strategy file onto the trainer configuration.
func trainerConfig(strategy *strategyconfig.Config, cfg *config.Config) trainer.Config {
	tc := trainer.DefaultConfig()
	if strategy.Training.ProfitParams != (gbt.Params{}) {
		tc.ProfitParams = strategy.Training.ProfitParams
	}
	if strategy.Training.DeliveryParams != (gbt.Params{}) {
		tc.DeliveryParams = strategy.Training.DeliveryParams
	}
	tc.MinTrainingRows = strategy.Training.MinTrainingRows
	if cfg.Model.MinTrainingRows > 0 {
		tc.MinTrainingRows = cfg.Model.MinTrainingRows
	}
	tc.HoldoutFraction = strategy.Training.HoldoutFraction
	tc.Seed = strategy.Training.Seed
	return tc
}
