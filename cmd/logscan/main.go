package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/vburojevic/logscan/internal/cli"
	"github.com/vburojevic/logscan/internal/config"
)

func main() {
	// Load configuration from files/environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.Default()
	}

	var c cli.CLI

	// Apply config defaults before parsing
	// These will be overridden by CLI flags if specified
	vars := kong.Vars{
		"config_format":    cfg.Format,
		"config_log_level": cfg.LogLevel,
	}

	ctx := kong.Parse(&c,
		kong.Name("logscan"),
		kong.Description("Classify large game logs, rank errors and warnings, and flag runs of repeated lines.\n\nRun with no arguments to analyze the first Player.log or dump.log found."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		vars,
	)

	globals := cli.NewGlobalsWithConfig(&c, cfg)
	defer func() { _ = globals.Log().Sync() }()

	if err := ctx.Run(globals); err != nil {
		cli.ReportUnhandled(globals, err)
		_ = globals.Log().Sync()
		os.Exit(1)
	}
}
