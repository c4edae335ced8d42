package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// SnapshotSource records where a snapshot's content came from
type SnapshotSource string

const (
	SnapshotSourceCalculated     SnapshotSource = "CALCULATED"
	SnapshotSourceManualEntry    SnapshotSource = "MANUAL_ENTRY"
	SnapshotSourceBrokerImported SnapshotSource = "BROKER_IMPORTED"
	SnapshotSourceCsvImport      SnapshotSource = "CSV_IMPORT"
	SnapshotSourceSynthetic      SnapshotSource = "SYNTHETIC"
)

// Valid reports whether s is one of the known sources
func (s SnapshotSource) Valid() bool {
	switch s {
	case SnapshotSourceCalculated, SnapshotSourceManualEntry, SnapshotSourceBrokerImported,
		SnapshotSourceCsvImport, SnapshotSourceSynthetic:
		return true
	}
	return false
}

// AccountSnapshot represents the frozen state of one account on one date.
// Rows for different dates are independent and only share AccountID.
type AccountSnapshot struct {
	ID                       string                     `json:"id"`
	AccountID                string                     `json:"account_id"`
	SnapshotDate             time.Time                  `json:"snapshot_date"`
	Currency                 string                     `json:"currency"`  // account reporting currency
	Positions                map[string]Position        `json:"positions"` // keyed by asset id
	CashBalances             map[string]decimal.Decimal `json:"cash_balances"`
	CostBasis                decimal.Decimal            `json:"cost_basis"`       // account currency
	NetContribution          decimal.Decimal            `json:"net_contribution"` // account currency
	NetContributionBase      decimal.Decimal            `json:"net_contribution_base"`
	CashTotalAccountCurrency decimal.Decimal            `json:"cash_total_account_currency"`
	CashTotalBaseCurrency    decimal.Decimal            `json:"cash_total_base_currency"`
	CalculatedAt             time.Time                  `json:"calculated_at"`
	Source                   SnapshotSource             `json:"source"`
}

// Validate ensures the snapshot has the fields stores rely on
func (s *AccountSnapshot) Validate() error {
	if s.AccountID == "" {
		return errors.New("snapshot account id cannot be empty")
	}
	if s.SnapshotDate.IsZero() {
		return errors.New("snapshot date cannot be empty")
	}
	if s.Currency == "" {
		return errors.New("snapshot currency cannot be empty")
	}
	if !s.Source.Valid() {
		return errors.New("snapshot source is invalid")
	}
	return nil
}

// ContentEqual reports whether two snapshots hold the same positions and cash.
// Lots, timestamps, ids and source are ignored; missing cash entries count as zero.
func (s *AccountSnapshot) ContentEqual(other *AccountSnapshot) bool {
	if s == nil || other == nil {
		return s == other
	}
	if len(s.Positions) != len(other.Positions) {
		return false
	}
	for assetID, p := range s.Positions {
		o, ok := other.Positions[assetID]
		if !ok {
			return false
		}
		if p.Currency != o.Currency ||
			!p.Quantity.Equal(o.Quantity) ||
			!p.AverageCost.Equal(o.AverageCost) ||
			!p.TotalCostBasis.Equal(o.TotalCostBasis) {
			return false
		}
	}
	return cashEqual(s.CashBalances, other.CashBalances) && cashEqual(other.CashBalances, s.CashBalances)
}

func cashEqual(a, b map[string]decimal.Decimal) bool {
	for currency, amount := range a {
		if !amount.Equal(b[currency]) {
			return false
		}
	}
	return true
}

// Warning describes a non-fatal anomaly met while replaying one activity
type Warning struct {
	ActivityID string    `json:"activity_id"`
	AccountID  string    `json:"account_id"`
	Date       time.Time `json:"date"`
	Message    string    `json:"message"`
}

// HoldingsCalculationResult pairs a computed snapshot with the warnings of its replay.
// Warnings never invalidate the snapshot.
type HoldingsCalculationResult struct {
	Snapshot AccountSnapshot `json:"snapshot"`
	Warnings []Warning       `json:"warnings"`
}

// HoldingType distinguishes instrument holdings from cash holdings
type HoldingType string

const (
	HoldingTypeSecurity HoldingType = "SECURITY"
	HoldingTypeCash     HoldingType = "CASH"
)

// Holding represents one finalized line of an account's holdings
type Holding struct {
	AccountID      string          `json:"account_id"`
	HoldingType    HoldingType     `json:"holding_type"`
	AssetID        string          `json:"asset_id"`
	Currency       string          `json:"currency"`
	Quantity       decimal.Decimal `json:"quantity"`
	AverageCost    decimal.Decimal `json:"average_cost"`
	TotalCostBasis decimal.Decimal `json:"total_cost_basis"`
	Lots           []Lot           `json:"lots"`
	InceptionDate  time.Time       `json:"inception_date"`
	AsOfDate       time.Time       `json:"as_of_date"`
}
