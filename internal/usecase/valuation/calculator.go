package valuation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-engine/internal/domain"
	"go.uber.org/zap"
)

// Calculator values account snapshots with caller-supplied market data
type Calculator struct {
	Logger *zap.Logger
	Now    func() time.Time
}

// NewCalculator creates a new Calculator instance
func NewCalculator(logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{Logger: logger, Now: time.Now}
}

// CalculateValuation converts a snapshot into the daily valuation of targetDate.
// Logic:
//  1. Investments: quantity x close x fx(quote currency -> account currency) per position;
//     a position without a quote is valued at zero and logged
//  2. Cash: balance x fx(cash currency -> account currency) per currency
//  3. Total = investments + cash; cost basis and net contribution are carried through
//  4. fx(account currency -> base currency) is stored as FxRateToBase
//
// Any conversion the rate cache cannot resolve returns a RateNotFoundError and no record.
func (c *Calculator) CalculateValuation(
	snapshot *domain.AccountSnapshot,
	quotes map[string]domain.Quote,
	rates *domain.DailyFxRates,
	targetDate time.Time,
	baseCurrency string,
) (*domain.DailyAccountValuation, error) {
	if snapshot == nil {
		return nil, errors.New("snapshot cannot be nil")
	}
	date := domain.DateOf(targetDate)
	accountCurrency := domain.NormalizeCurrency(snapshot.Currency)
	base := domain.NormalizeCurrency(baseCurrency)

	fxToBase, err := rates.Rate(accountCurrency, base)
	if err != nil {
		return nil, err
	}

	investments := decimal.Zero
	for _, assetID := range sortedKeys(snapshot.Positions) {
		position := snapshot.Positions[assetID]
		quote, ok := quotes[assetID]
		if !ok {
			c.Logger.Warn("no quote for held asset, valued at zero",
				zap.String("account_id", snapshot.AccountID),
				zap.String("asset_id", assetID),
				zap.String("date", domain.FormatDate(date)))
			continue
		}

		quoteCurrency := quote.Currency
		if quoteCurrency == "" {
			quoteCurrency = position.Currency
		}
		value, err := rates.Convert(position.Quantity.Mul(quote.Close), quoteCurrency, accountCurrency)
		if err != nil {
			return nil, fmt.Errorf("failed to value %s: %w", assetID, err)
		}
		investments = investments.Add(value)
	}

	cash := decimal.Zero
	for _, currency := range sortedKeys(snapshot.CashBalances) {
		value, err := rates.Convert(snapshot.CashBalances[currency], currency, accountCurrency)
		if err != nil {
			return nil, fmt.Errorf("failed to value %s cash: %w", currency, err)
		}
		cash = cash.Add(value)
	}

	return &domain.DailyAccountValuation{
		ID:                    domain.RecordID(snapshot.AccountID, date),
		AccountID:             snapshot.AccountID,
		ValuationDate:         date,
		AccountCurrency:       accountCurrency,
		BaseCurrency:          base,
		FxRateToBase:          fxToBase,
		CashBalance:           cash,
		InvestmentMarketValue: investments,
		TotalValue:            investments.Add(cash),
		CostBasis:             snapshot.CostBasis,
		NetContribution:       snapshot.NetContribution,
		CalculatedAt:          c.Now(),
	}, nil
}

// HistoryRequest carries the inputs of History
type HistoryRequest struct {
	Snapshots    []domain.AccountSnapshot // one account, any order
	From         time.Time
	To           time.Time
	BaseCurrency string
}

// HistoryResult holds the valuations produced by History and the days it skipped
type HistoryResult struct {
	Valuations []domain.DailyAccountValuation
	Skipped    []time.Time
}

// History values one account for every calendar day in [From, To].
// Each day uses the latest snapshot dated on or before it; days before the first
// snapshot are not produced. A day whose rates cannot be resolved is skipped and logged.
// Errors from market data abort the walk.
func (c *Calculator) History(ctx context.Context, market domain.MarketData, req HistoryRequest) (*HistoryResult, error) {
	from, to := domain.DateOf(req.From), domain.DateOf(req.To)
	if to.Before(from) {
		return nil, errors.New("history range end is before its start")
	}

	snapshots := append([]domain.AccountSnapshot(nil), req.Snapshots...)
	sort.SliceStable(snapshots, func(i, j int) bool {
		return snapshots[i].SnapshotDate.Before(snapshots[j].SnapshotDate)
	})

	result := &HistoryResult{}
	next := 0
	var current *domain.AccountSnapshot
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for next < len(snapshots) && !domain.DateOf(snapshots[next].SnapshotDate).After(day) {
			current = &snapshots[next]
			next++
		}
		if current == nil {
			continue
		}

		quotes, err := market.QuotesOn(ctx, day)
		if err != nil {
			return nil, fmt.Errorf("failed to load quotes for %s: %w", domain.FormatDate(day), err)
		}
		rates, err := market.RatesOn(ctx, day)
		if err != nil {
			return nil, fmt.Errorf("failed to load fx rates for %s: %w", domain.FormatDate(day), err)
		}

		valuation, err := c.CalculateValuation(current, quotes, rates, day, req.BaseCurrency)
		if errors.Is(err, domain.ErrRateNotFound) {
			c.Logger.Warn("valuation skipped, fx rate missing",
				zap.String("account_id", current.AccountID),
				zap.String("date", domain.FormatDate(day)),
				zap.Error(err))
			result.Skipped = append(result.Skipped, day)
			continue
		}
		if err != nil {
			return nil, err
		}
		result.Valuations = append(result.Valuations, *valuation)
	}
	return result, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
