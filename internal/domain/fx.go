package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyPair identifies a conversion From one currency To another
type CurrencyPair struct {
	From string
	To   string
}

// Inverse returns the pair with From and To swapped
func (p CurrencyPair) Inverse() CurrencyPair {
	return CurrencyPair{From: p.To, To: p.From}
}

// String renders the pair as FROM/TO
func (p CurrencyPair) String() string {
	return p.From + "/" + p.To
}

// DailyFxRates is a caller-owned cache of conversion rates valid for a single date.
// The core only reads it.
type DailyFxRates struct {
	Date  time.Time
	Rates map[CurrencyPair]decimal.Decimal
}

// NewDailyFxRates creates an empty cache for date
func NewDailyFxRates(date time.Time) *DailyFxRates {
	return &DailyFxRates{Date: DateOf(date), Rates: make(map[CurrencyPair]decimal.Decimal)}
}

// Set stores the rate converting one unit of from into to
func (c *DailyFxRates) Set(from, to string, rate decimal.Decimal) {
	if c.Rates == nil {
		c.Rates = make(map[CurrencyPair]decimal.Decimal)
	}
	c.Rates[CurrencyPair{From: NormalizeCurrency(from), To: NormalizeCurrency(to)}] = rate
}

// Rate resolves the conversion rate from one currency to another.
// Logic:
//  1. Same currency resolves to 1 without a lookup
//  2. Direct pair
//  3. Inverse pair with a nonzero rate, inverted
//
// Anything else is a RateNotFoundError. A nil cache holds no rates.
func (c *DailyFxRates) Rate(from, to string) (decimal.Decimal, error) {
	pair := CurrencyPair{From: NormalizeCurrency(from), To: NormalizeCurrency(to)}
	if pair.From == pair.To {
		return decimal.NewFromInt(1), nil
	}

	var date time.Time
	if c != nil {
		date = c.Date
		if rate, ok := c.Rates[pair]; ok {
			return rate, nil
		}
		if rate, ok := c.Rates[pair.Inverse()]; ok && !rate.IsZero() {
			return decimal.NewFromInt(1).Div(rate), nil
		}
	}

	return decimal.Zero, &RateNotFoundError{From: pair.From, To: pair.To, Date: date}
}

// Convert multiplies amount by the rate from one currency to another
func (c *DailyFxRates) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	rate, err := c.Rate(from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(rate), nil
}

// Quote is the best available closing price of an asset for a date
type Quote struct {
	AssetID  string          `json:"asset_id"`
	Date     time.Time       `json:"date"`
	Close    decimal.Decimal `json:"close"`
	Currency string          `json:"currency"`
}

// DailyAccountValuation represents one account valued on one date.
// Amounts are in AccountCurrency; multiply by FxRateToBase for base currency.
type DailyAccountValuation struct {
	ID                    string          `json:"id"`
	AccountID             string          `json:"account_id"`
	ValuationDate         time.Time       `json:"valuation_date"`
	AccountCurrency       string          `json:"account_currency"`
	BaseCurrency          string          `json:"base_currency"`
	FxRateToBase          decimal.Decimal `json:"fx_rate_to_base"`
	CashBalance           decimal.Decimal `json:"cash_balance"`
	InvestmentMarketValue decimal.Decimal `json:"investment_market_value"`
	TotalValue            decimal.Decimal `json:"total_value"`
	CostBasis             decimal.Decimal `json:"cost_basis"`
	NetContribution       decimal.Decimal `json:"net_contribution"`
	CalculatedAt          time.Time       `json:"calculated_at"`
}

// InBase converts an account-currency amount of the valuation into base currency
func (v *DailyAccountValuation) InBase(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(v.FxRateToBase)
}
