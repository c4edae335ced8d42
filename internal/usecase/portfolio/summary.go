package portfolio

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-engine/internal/domain"
)

// Summary represents the portfolio totals of one date in the base currency
type Summary struct {
	Date            time.Time       `json:"date"`
	BaseCurrency    string          `json:"base_currency"`
	Accounts        int             `json:"accounts"`
	Total           decimal.Decimal `json:"total"`
	Cash            decimal.Decimal `json:"cash"`
	Investments     decimal.Decimal `json:"investments"`
	CostBasis       decimal.Decimal `json:"cost_basis"`
	NetContribution decimal.Decimal `json:"net_contribution"`
}

// Gain is the total value above what was contributed
func (s *Summary) Gain() decimal.Decimal {
	return s.Total.Sub(s.NetContribution)
}

// Summarize adds up the daily valuations of several accounts
// Logic:
//   - Every valuation must share the same date and base currency
//   - Each metric is converted with the valuation's own FxRateToBase, then summed
func Summarize(valuations []domain.DailyAccountValuation, baseCurrency string) (*Summary, error) {
	base := domain.NormalizeCurrency(baseCurrency)
	if err := domain.ValidateCurrency(base); err != nil {
		return nil, err
	}

	summary := &Summary{BaseCurrency: base}
	for i := range valuations {
		v := &valuations[i]
		if v.BaseCurrency != base {
			return nil, fmt.Errorf("valuation %s is in base %s, expected %s", v.ID, v.BaseCurrency, base)
		}
		date := domain.DateOf(v.ValuationDate)
		if i == 0 {
			summary.Date = date
		} else if !date.Equal(summary.Date) {
			return nil, fmt.Errorf("valuation %s is dated %s, expected %s",
				v.ID, domain.FormatDate(date), domain.FormatDate(summary.Date))
		}

		summary.Accounts++
		summary.Total = summary.Total.Add(v.InBase(v.TotalValue))
		summary.Cash = summary.Cash.Add(v.InBase(v.CashBalance))
		summary.Investments = summary.Investments.Add(v.InBase(v.InvestmentMarketValue))
		summary.CostBasis = summary.CostBasis.Add(v.InBase(v.CostBasis))
		summary.NetContribution = summary.NetContribution.Add(v.InBase(v.NetContribution))
	}

	return summary, nil
}
