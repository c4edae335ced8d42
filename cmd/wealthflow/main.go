package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/simaogato/wealthflow-engine/internal/app"
	"github.com/simaogato/wealthflow-engine/internal/config"
)

var configPath = flag.String("config", "", "Path to a yaml config file. WF_ environment variables override it.")

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&holdingsCmd{}, "")
	commander.Register(&valueCmd{}, "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func loadApp() (*app.App, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}
	return app.New(cfg)
}
