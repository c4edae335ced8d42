package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/subcommands"
	"github.com/simaogato/wealthflow-engine/internal/domain"
	"github.com/simaogato/wealthflow-engine/internal/usecase/holdings"
	"go.uber.org/zap"
)

type holdingsCmd struct {
	input string
	base  string
}

func (*holdingsCmd) Name() string { return "holdings" }
func (*holdingsCmd) Synopsis() string {
	return "replay an activity ledger into one snapshot per account"
}
func (*holdingsCmd) Usage() string {
	return `wealthflow holdings [-i <ledger.json>] [-base <currency>]

  Reads {"account_currencies", "rates", "activities"} and prints each account's
  snapshot together with the warnings met during replay.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "i", "-", "Ledger file, - for stdin.")
	f.StringVar(&c.base, "base", "", "Base currency. Defaults to valuation.base_currency.")
}

type accountResult struct {
	AccountID string                 `json:"account_id"`
	Snapshot  domain.AccountSnapshot `json:"snapshot"`
	Warnings  []domain.Warning       `json:"warnings"`
}

func (c *holdingsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := loadApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	var ledger ledgerFile
	if err := readJSON(c.input, &ledger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	activities, err := ledger.activities()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	rates, err := parseRates(time.Time{}, ledger.Rates)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	base := c.base
	if base == "" {
		base = a.Config.Valuation.BaseCurrency
	}

	results, err := a.Holdings.CalculateSnapshots(holdings.SnapshotRequest{
		Activities:        activities,
		AccountCurrencies: ledger.AccountCurrencies,
		BaseCurrency:      base,
		Rates:             rates,
		CalculatedAt:      time.Now().UTC(),
	})
	if err != nil {
		a.Logger.Error("holdings replay failed", zap.Error(err))
		return subcommands.ExitFailure
	}

	out := make([]accountResult, 0, len(results))
	for accountID, r := range results {
		out = append(out, accountResult{AccountID: accountID, Snapshot: r.Snapshot, Warnings: r.Warnings})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })

	if err := writeJSON(os.Stdout, out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
