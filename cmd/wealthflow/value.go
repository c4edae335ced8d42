package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/simaogato/wealthflow-engine/internal/domain"
	"github.com/simaogato/wealthflow-engine/internal/usecase/portfolio"
	"go.uber.org/zap"
)

type valueCmd struct {
	input string
	base  string
}

func (*valueCmd) Name() string { return "value" }
func (*valueCmd) Synopsis() string {
	return "value account snapshots on one date and total them in the base currency"
}
func (*valueCmd) Usage() string {
	return `wealthflow value [-i <valuation.json>] [-base <currency>]

  Reads {"date", "snapshots", "quotes", "rates"} and prints the daily valuation
  of every snapshot followed by the portfolio summary.
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "i", "-", "Valuation input file, - for stdin.")
	f.StringVar(&c.base, "base", "", "Base currency. Defaults to valuation.base_currency.")
}

type valueOutput struct {
	Valuations []domain.DailyAccountValuation `json:"valuations"`
	Summary    *portfolio.Summary             `json:"summary"`
}

func (c *valueCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := loadApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	var input valuationFile
	if err := readJSON(c.input, &input); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	date, err := parseDate(input.Date)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	rates, err := parseRates(date, input.Rates)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	base := c.base
	if base == "" {
		base = a.Config.Valuation.BaseCurrency
	}

	quotes := input.quotes(date)
	out := valueOutput{Valuations: make([]domain.DailyAccountValuation, 0, len(input.Snapshots))}
	for i := range input.Snapshots {
		v, err := a.Valuation.CalculateValuation(&input.Snapshots[i], quotes, rates, date, base)
		if err != nil {
			a.Logger.Error("valuation failed",
				zap.String("account_id", input.Snapshots[i].AccountID),
				zap.Error(err))
			return subcommands.ExitFailure
		}
		out.Valuations = append(out.Valuations, *v)
	}

	out.Summary, err = portfolio.Summarize(out.Valuations, base)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if err := writeJSON(os.Stdout, out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
