package holdings

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-engine/internal/domain"
)

// accountState accumulates one account's holdings during a single replay.
// It is owned by the calculator call that created it and never shared.
type accountState struct {
	accountID       string
	currency        string // account currency, first valid activity currency when not supplied
	positions       map[string]*domain.Position
	cash            map[string]decimal.Decimal
	netContribution decimal.Decimal
	warnings        []domain.Warning
}

func newAccountState(accountID, currency string) *accountState {
	return &accountState{
		accountID: accountID,
		currency:  domain.NormalizeCurrency(currency),
		positions: make(map[string]*domain.Position),
		cash:      make(map[string]decimal.Decimal),
	}
}

// addCash moves the balance of a currency by delta
func (s *accountState) addCash(currency string, delta decimal.Decimal) {
	s.cash[currency] = s.cash[currency].Add(delta)
}

// warn records a non-fatal anomaly for an activity
func (s *accountState) warn(a *domain.Activity, format string, args ...any) {
	s.warnings = append(s.warnings, domain.Warning{
		ActivityID: a.ID,
		AccountID:  s.accountID,
		Date:       a.ActivityDate,
		Message:    fmt.Sprintf(format, args...),
	})
}

// currencyOf validates the activity currency and adopts it as the account
// currency when none was supplied
func (s *accountState) currencyOf(a *domain.Activity) (string, error) {
	currency := domain.NormalizeCurrency(a.Currency)
	if err := domain.ValidateCurrency(currency); err != nil {
		return "", err
	}
	if s.currency == "" {
		s.currency = currency
	}
	return currency, nil
}

// contributionDelta converts an activity amount into the account currency for the
// net contribution accumulator, using the activity's own FX rate
func (s *accountState) contributionDelta(a *domain.Activity, currency string, amount decimal.Decimal) (decimal.Decimal, error) {
	if currency == s.currency {
		return amount, nil
	}
	if !a.FxRate.IsPositive() {
		return decimal.Zero, fmt.Errorf("contribution in %s needs an fx rate to %s", currency, s.currency)
	}
	return amount.Mul(a.FxRate), nil
}

// holdings finalizes the state into a deterministic holdings list:
// open positions sorted by asset id, then non-zero cash sorted by currency.
// An account left with nothing still yields one zero cash line dated asOf.
func (s *accountState) holdings(asOf time.Time) []domain.Holding {
	result := make([]domain.Holding, 0, len(s.positions)+len(s.cash))

	for _, assetID := range s.openAssetIDs() {
		p := s.positions[assetID]
		result = append(result, domain.Holding{
			AccountID:      s.accountID,
			HoldingType:    domain.HoldingTypeSecurity,
			AssetID:        p.AssetID,
			Currency:       p.Currency,
			Quantity:       p.Quantity,
			AverageCost:    p.AverageCost,
			TotalCostBasis: p.TotalCostBasis,
			Lots:           append([]domain.Lot(nil), p.Lots...),
			InceptionDate:  p.InceptionDate,
			AsOfDate:       asOf,
		})
	}

	for _, currency := range s.cashCurrencies() {
		result = append(result, s.cashHolding(currency, s.cash[currency], asOf))
	}

	if len(result) == 0 {
		result = append(result, s.cashHolding(s.currency, decimal.Zero, asOf))
	}
	return result
}

func (s *accountState) cashHolding(currency string, amount decimal.Decimal, asOf time.Time) domain.Holding {
	return domain.Holding{
		AccountID:      s.accountID,
		HoldingType:    domain.HoldingTypeCash,
		AssetID:        domain.CashAssetID(currency),
		Currency:       currency,
		Quantity:       amount,
		AverageCost:    decimal.NewFromInt(1),
		TotalCostBasis: amount,
		AsOfDate:       asOf,
	}
}

// openAssetIDs returns the ids of positions still holding quantity, sorted
func (s *accountState) openAssetIDs() []string {
	ids := make([]string, 0, len(s.positions))
	for id, p := range s.positions {
		if !p.IsClosed() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// cashCurrencies returns the currencies with a non-zero balance, sorted
func (s *accountState) cashCurrencies() []string {
	currencies := make([]string, 0, len(s.cash))
	for currency, amount := range s.cash {
		if !domain.IsNegligible(amount) {
			currencies = append(currencies, currency)
		}
	}
	sort.Strings(currencies)
	return currencies
}
