package portfolio

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-engine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var valuationDay = time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC)

func valuation(accountID, currency, rate string, cash, investments, costBasis, contribution int64) domain.DailyAccountValuation {
	return domain.DailyAccountValuation{
		ID:                    domain.RecordID(accountID, valuationDay),
		AccountID:             accountID,
		ValuationDate:         valuationDay,
		AccountCurrency:       currency,
		BaseCurrency:          "USD",
		FxRateToBase:          decimal.RequireFromString(rate),
		CashBalance:           decimal.NewFromInt(cash),
		InvestmentMarketValue: decimal.NewFromInt(investments),
		TotalValue:            decimal.NewFromInt(cash + investments),
		CostBasis:             decimal.NewFromInt(costBasis),
		NetContribution:       decimal.NewFromInt(contribution),
	}
}

func TestSummarize_ConvertsEachAccountToBase(t *testing.T) {
	valuations := []domain.DailyAccountValuation{
		valuation("acc-usd", "USD", "1", 1000, 4000, 3500, 4500),
		valuation("acc-eur", "EUR", "1.1", 500, 1500, 1000, 1800),
	}

	summary, err := Summarize(valuations, "usd")

	require.NoError(t, err)
	assert.Equal(t, valuationDay, summary.Date)
	assert.Equal(t, "USD", summary.BaseCurrency)
	assert.Equal(t, 2, summary.Accounts)
	assert.True(t, summary.Total.Equal(decimal.NewFromInt(7200)), summary.Total.String())
	assert.True(t, summary.Cash.Equal(decimal.NewFromInt(1550)), summary.Cash.String())
	assert.True(t, summary.Investments.Equal(decimal.NewFromInt(5650)), summary.Investments.String())
	assert.True(t, summary.CostBasis.Equal(decimal.NewFromInt(4600)), summary.CostBasis.String())
	assert.True(t, summary.NetContribution.Equal(decimal.NewFromInt(6480)), summary.NetContribution.String())
	assert.True(t, summary.Gain().Equal(decimal.NewFromInt(720)))
}

func TestSummarize_Empty(t *testing.T) {
	summary, err := Summarize(nil, "USD")

	require.NoError(t, err)
	assert.Equal(t, 0, summary.Accounts)
	assert.True(t, summary.Total.IsZero())
}

func TestSummarize_RejectsMixedInputs(t *testing.T) {
	t.Run("base currency", func(t *testing.T) {
		other := valuation("acc-eur", "EUR", "1", 1, 1, 1, 1)
		other.BaseCurrency = "EUR"

		_, err := Summarize([]domain.DailyAccountValuation{valuation("acc-usd", "USD", "1", 1, 1, 1, 1), other}, "USD")

		assert.Error(t, err)
	})

	t.Run("date", func(t *testing.T) {
		other := valuation("acc-eur", "EUR", "1.1", 1, 1, 1, 1)
		other.ValuationDate = valuationDay.AddDate(0, 0, 1)

		_, err := Summarize([]domain.DailyAccountValuation{valuation("acc-usd", "USD", "1", 1, 1, 1, 1), other}, "USD")

		assert.Error(t, err)
	})

	t.Run("unknown base", func(t *testing.T) {
		_, err := Summarize(nil, "NOPE")

		assert.Error(t, err)
	})
}
