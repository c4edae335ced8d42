package holdings

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-engine/internal/domain"
	"go.uber.org/zap"
)

// Calculator replays activity ledgers into holdings.
// It keeps no state between calls and is safe for concurrent use.
type Calculator struct {
	Method domain.CostBasisMethod
	Logger *zap.Logger
}

// NewCalculator creates a new Calculator instance
func NewCalculator(method domain.CostBasisMethod, logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{Method: method, Logger: logger}
}

// SnapshotRequest carries the inputs of CalculateSnapshots
type SnapshotRequest struct {
	Activities        []domain.Activity
	AccountCurrencies map[string]string // account id -> reporting currency
	BaseCurrency      string
	Rates             *domain.DailyFxRates // rates of the as-of date, optional
	CalculatedAt      time.Time
}

// replayResult is the outcome of folding one activity list
type replayResult struct {
	states map[string]*accountState
	order  []string // account ids, sorted
	asOf   time.Time
}

// CalculateHoldings replays activities and returns the holdings of every account.
// Logic:
//  1. Parse every activity type; one unsupported type aborts with UnsupportedActivityTypeError
//  2. Stable sort by activity date, same-date activities keep their input order
//  3. Dispatch each activity to its handler family on the account's state
//  4. Finalize each state as of the latest activity date
func (c *Calculator) CalculateHoldings(activities []domain.Activity) (map[string][]domain.Holding, error) {
	r, err := c.replay(activities, nil)
	if err != nil {
		return nil, err
	}

	result := make(map[string][]domain.Holding, len(r.states))
	for _, accountID := range r.order {
		result[accountID] = r.states[accountID].holdings(r.asOf)
	}
	return result, nil
}

// CalculateSnapshots replays activities and returns one snapshot per account together with
// the warnings met while building it. Conversions use req.Rates; a conversion it cannot
// resolve adds a warning and leaves that amount out of the converted total.
func (c *Calculator) CalculateSnapshots(req SnapshotRequest) (map[string]domain.HoldingsCalculationResult, error) {
	r, err := c.replay(req.Activities, req.AccountCurrencies)
	if err != nil {
		return nil, err
	}

	result := make(map[string]domain.HoldingsCalculationResult, len(r.states))
	for _, accountID := range r.order {
		result[accountID] = c.snapshot(r.states[accountID], r.asOf, req)
	}
	return result, nil
}

func (c *Calculator) replay(activities []domain.Activity, accountCurrencies map[string]string) (*replayResult, error) {
	sorted := make([]domain.Activity, len(activities))
	copy(sorted, activities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ActivityDate.Before(sorted[j].ActivityDate)
	})

	types := make([]domain.ActivityType, len(sorted))
	for i := range sorted {
		t, err := domain.ParseActivityType(sorted[i].ActivityType)
		if err != nil {
			return nil, &domain.UnsupportedActivityTypeError{ActivityID: sorted[i].ID, Type: sorted[i].ActivityType}
		}
		types[i] = t
	}

	r := &replayResult{states: make(map[string]*accountState)}
	for i := range sorted {
		a := &sorted[i]
		s, ok := r.states[a.AccountID]
		if !ok {
			s = newAccountState(a.AccountID, accountCurrencies[a.AccountID])
			r.states[a.AccountID] = s
			r.order = append(r.order, a.AccountID)
		}
		if a.ActivityDate.After(r.asOf) {
			r.asOf = a.ActivityDate
		}

		if err := c.apply(s, a, types[i]); err != nil {
			s.warn(a, "%s skipped: %v", types[i], err)
		}
	}

	for _, s := range r.states {
		for _, w := range s.warnings {
			c.Logger.Debug("holdings replay warning",
				zap.String("account_id", w.AccountID),
				zap.String("activity_id", w.ActivityID),
				zap.String("message", w.Message))
		}
	}

	sort.Strings(r.order)
	r.asOf = domain.DateOf(r.asOf)
	return r, nil
}

// apply dispatches one activity to exactly one handler family.
// Splits carry no cash leg, so their currency is never checked.
func (c *Calculator) apply(s *accountState, a *domain.Activity, t domain.ActivityType) error {
	switch class := t.Classify(a.AssetID); class {
	case domain.HandlerAcquire:
		currency, err := s.currencyOf(a)
		if err != nil {
			return err
		}
		return applyAcquire(s, a, t, currency)
	case domain.HandlerDispose:
		currency, err := s.currencyOf(a)
		if err != nil {
			return err
		}
		return applyDispose(s, a, t, currency, c.Method)
	case domain.HandlerCash:
		currency, err := s.currencyOf(a)
		if err != nil {
			return err
		}
		return applyCash(s, a, t, currency)
	case domain.HandlerSplit:
		return applySplit(s, a)
	case domain.HandlerIgnore:
		return fmt.Errorf("activity type %s has no holdings effect", t)
	default:
		panic("unhandled handler class " + class.String())
	}
}

// snapshot freezes a finalized state into an AccountSnapshot
func (c *Calculator) snapshot(s *accountState, asOf time.Time, req SnapshotRequest) domain.HoldingsCalculationResult {
	base := domain.NormalizeCurrency(req.BaseCurrency)
	if base == "" {
		base = s.currency
	}
	warnings := append([]domain.Warning(nil), s.warnings...)
	warn := func(format string, args ...any) {
		warnings = append(warnings, domain.Warning{AccountID: s.accountID, Date: asOf, Message: fmt.Sprintf(format, args...)})
	}

	positions := make(map[string]domain.Position)
	costBasis := decimal.Zero
	for _, assetID := range s.openAssetIDs() {
		p := s.positions[assetID]
		positions[assetID] = p.Clone()
		converted, err := req.Rates.Convert(p.TotalCostBasis, p.Currency, s.currency)
		if err != nil {
			warn("cost basis of %s left out of account total: %v", assetID, err)
			continue
		}
		costBasis = costBasis.Add(converted)
	}

	cash := make(map[string]decimal.Decimal)
	cashTotal := decimal.Zero
	for _, currency := range s.cashCurrencies() {
		amount := s.cash[currency]
		cash[currency] = amount
		converted, err := req.Rates.Convert(amount, currency, s.currency)
		if err != nil {
			warn("cash in %s left out of account total: %v", currency, err)
			continue
		}
		cashTotal = cashTotal.Add(converted)
	}

	var contributionBase, cashTotalBase decimal.Decimal
	if rate, err := req.Rates.Rate(s.currency, base); err != nil {
		warn("base currency totals not computed: %v", err)
	} else {
		contributionBase = s.netContribution.Mul(rate)
		cashTotalBase = cashTotal.Mul(rate)
	}

	return domain.HoldingsCalculationResult{
		Snapshot: domain.AccountSnapshot{
			ID:                       domain.RecordID(s.accountID, asOf),
			AccountID:                s.accountID,
			SnapshotDate:             asOf,
			Currency:                 s.currency,
			Positions:                positions,
			CashBalances:             cash,
			CostBasis:                costBasis,
			NetContribution:          s.netContribution,
			NetContributionBase:      contributionBase,
			CashTotalAccountCurrency: cashTotal,
			CashTotalBaseCurrency:    cashTotalBase,
			CalculatedAt:             req.CalculatedAt,
			Source:                   domain.SnapshotSourceCalculated,
		},
		Warnings: warnings,
	}
}
