package domain

import (
	"context"
	"time"
)

// AssetRepository defines the asset resolution capability used by manual ingestion
type AssetRepository interface {
	// GetBySymbol retrieves an asset by its symbol
	// Returns ErrAssetNotFound when no asset matches
	GetBySymbol(ctx context.Context, symbol string) (*Asset, error)

	// Create creates a new minimal asset
	Create(ctx context.Context, asset *Asset) error
}

// FxPairRegistry registers currency pairs with the FX subsystem so future
// valuations can resolve them
type FxPairRegistry interface {
	// Register ensures the pair is tracked; registering a known pair is a no-op
	Register(ctx context.Context, pair CurrencyPair) error
}

// SnapshotRepository defines the interface for snapshot persistence operations
type SnapshotRepository interface {
	// GetByAccountAndDate retrieves the snapshot of an account for a date
	// Returns ErrSnapshotNotFound when none exists
	GetByAccountAndDate(ctx context.Context, accountID string, date time.Time) (*AccountSnapshot, error)

	// Save creates or replaces the snapshot of its (account, date)
	Save(ctx context.Context, snapshot *AccountSnapshot) error
}

// EventSink receives domain signals consumed outside the core
type EventSink interface {
	// ManualSnapshotSaved signals that a manual snapshot was persisted
	ManualSnapshotSaved(ctx context.Context, event ManualSnapshotSaved) error
}

// MarketData supplies the quotes and rates of one date to valuation history
type MarketData interface {
	// QuotesOn returns the best available quote per asset id for date
	QuotesOn(ctx context.Context, date time.Time) (map[string]Quote, error)

	// RatesOn returns the FX cache for date
	RatesOn(ctx context.Context, date time.Time) (*DailyFxRates, error)
}
