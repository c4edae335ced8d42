package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
)

const dateLayout = "2006-01-02"

// NormalizeCurrency upper-cases and trims a currency code
func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateCurrency checks that code is a known ISO 4217 currency
func ValidateCurrency(code string) error {
	c := NormalizeCurrency(code)
	if c == "" {
		return fmt.Errorf("currency code cannot be empty")
	}
	if money.GetCurrency(c) == nil {
		return fmt.Errorf("unknown currency code %q", code)
	}
	return nil
}

// DateOf truncates t to its calendar day in UTC
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders the calendar day of t as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return DateOf(t).Format(dateLayout)
}

// RecordID builds the id shared by snapshots and valuations of one account and day
func RecordID(accountID string, date time.Time) string {
	return accountID + "_" + FormatDate(date)
}
