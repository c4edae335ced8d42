package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-engine/internal/domain"
)

type activityJSON struct {
	ID         string          `json:"id"`
	AccountID  string          `json:"account_id"`
	AssetID    string          `json:"asset_id"`
	Type       string          `json:"activity_type"`
	Date       string          `json:"activity_date"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Amount     decimal.Decimal `json:"amount"`
	Fee        decimal.Decimal `json:"fee"`
	Currency   string          `json:"currency"`
	FxRate     decimal.Decimal `json:"fx_rate"`
	IsExternal bool            `json:"is_external"`
}

// ledgerFile is the input of the holdings command
type ledgerFile struct {
	AccountCurrencies map[string]string          `json:"account_currencies"`
	Rates             map[string]decimal.Decimal `json:"rates"` // "EUR/USD" -> rate
	Activities        []activityJSON             `json:"activities"`
}

type quoteJSON struct {
	Close    decimal.Decimal `json:"close"`
	Currency string          `json:"currency"`
}

// valuationFile is the input of the value command
type valuationFile struct {
	Date      string                     `json:"date"`
	Snapshots []domain.AccountSnapshot   `json:"snapshots"`
	Quotes    map[string]quoteJSON       `json:"quotes"`
	Rates     map[string]decimal.Decimal `json:"rates"`
}

func readJSON(name string, v any) error {
	var r io.Reader = os.Stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseDate accepts YYYY-MM-DD or RFC 3339
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

func (a activityJSON) toDomain() (domain.Activity, error) {
	date, err := parseDate(a.Date)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("activity %s: %w", a.ID, err)
	}
	return domain.Activity{
		ID:           a.ID,
		AccountID:    a.AccountID,
		AssetID:      a.AssetID,
		ActivityType: a.Type,
		ActivityDate: date,
		Quantity:     a.Quantity,
		UnitPrice:    a.UnitPrice,
		Amount:       a.Amount,
		Fee:          a.Fee,
		Currency:     a.Currency,
		FxRate:       a.FxRate,
		IsExternal:   a.IsExternal,
	}, nil
}

func (l *ledgerFile) activities() ([]domain.Activity, error) {
	result := make([]domain.Activity, 0, len(l.Activities))
	for _, a := range l.Activities {
		activity, err := a.toDomain()
		if err != nil {
			return nil, err
		}
		result = append(result, activity)
	}
	return result, nil
}

// parseRates builds an FX cache from "FROM/TO" keyed rates
func parseRates(date time.Time, raw map[string]decimal.Decimal) (*domain.DailyFxRates, error) {
	rates := domain.NewDailyFxRates(date)
	for pair, rate := range raw {
		from, to, ok := strings.Cut(pair, "/")
		if !ok || from == "" || to == "" {
			return nil, fmt.Errorf("invalid currency pair %q, want FROM/TO", pair)
		}
		rates.Set(domain.NormalizeCurrency(from), domain.NormalizeCurrency(to), rate)
	}
	return rates, nil
}

func (v *valuationFile) quotes(date time.Time) map[string]domain.Quote {
	result := make(map[string]domain.Quote, len(v.Quotes))
	for assetID, q := range v.Quotes {
		result[assetID] = domain.Quote{
			AssetID:  assetID,
			Date:     date,
			Close:    q.Close,
			Currency: domain.NormalizeCurrency(q.Currency),
		}
	}
	return result
}
