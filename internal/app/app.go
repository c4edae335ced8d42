package app

import (
	"github.com/simaogato/wealthflow-engine/internal/config"
	"github.com/simaogato/wealthflow-engine/internal/domain"
	"github.com/simaogato/wealthflow-engine/internal/logger"
	"github.com/simaogato/wealthflow-engine/internal/usecase/holdings"
	"github.com/simaogato/wealthflow-engine/internal/usecase/manualsnapshot"
	"github.com/simaogato/wealthflow-engine/internal/usecase/valuation"
	"go.uber.org/zap"
)

// App holds the calculators configured for one process
type App struct {
	Config    config.Config
	Logger    *zap.Logger
	Holdings  *holdings.Calculator
	Valuation *valuation.Calculator
}

// New builds the logger and calculators described by cfg
func New(cfg config.Config) (*App, error) {
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	method, err := cfg.Holdings.Method()
	if err != nil {
		return nil, err
	}

	log.Debug("engine configured",
		zap.String("cost_basis_method", method.String()),
		zap.String("base_currency", cfg.Valuation.BaseCurrency))

	return &App{
		Config:    cfg,
		Logger:    log,
		Holdings:  holdings.NewCalculator(method, log.Named("holdings")),
		Valuation: valuation.NewCalculator(log.Named("valuation")),
	}, nil
}

// ManualSnapshots wires the manual ingestion service to the given stores
func (a *App) ManualSnapshots(
	assets domain.AssetRepository,
	fx domain.FxPairRegistry,
	snapshots domain.SnapshotRepository,
	events domain.EventSink,
) *manualsnapshot.Service {
	return manualsnapshot.NewService(assets, fx, snapshots, events, a.Logger.Named("manualsnapshot"))
}

// Close flushes buffered log entries
func (a *App) Close() {
	_ = a.Logger.Sync()
}
