package domain

import "errors"

// Asset represents the minimal instrument record the engine needs
type Asset struct {
	ID       string
	Symbol   string
	Currency string
}

// Validate ensures the asset can be referenced by a position
func (a *Asset) Validate() error {
	if a.Symbol == "" {
		return errors.New("asset symbol cannot be empty")
	}
	if IsCashAsset(a.Symbol) {
		return errors.New("asset symbol cannot be a cash sentinel")
	}
	return ValidateCurrency(a.Currency)
}

// ManualSnapshotSaved is signalled after a manual or imported snapshot is persisted,
// so dependent valuations can be recomputed by the orchestration layer
type ManualSnapshotSaved struct {
	EventID      string
	AccountID    string
	SnapshotID   string
	SnapshotDate string // YYYY-MM-DD
	Source       SnapshotSource
	Currencies   []string // currencies registered for conversion
}
