package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/idilsaglam/items/internal/cli"
	"github.com/idilsaglam/items/internal/config"
	"github.com/idilsaglam/items/internal/logging"
	"github.com/idilsaglam/items/internal/ui"
)

func main() {
	// Root flags (apply to every subcommand)
	cfgPath := flag.String("config", "", "config file (default $XDG_CONFIG_HOME/items/config.yaml)")
	baseURL := flag.String("base-url", "", "API base url, e.g. http://localhost:8000/api")
	theme := flag.String("theme", "", "classic, neon or mono")
	timeout := flag.Duration("timeout", 0, "per-request timeout")
	logFile := flag.String("log-file", "", "write logs to this file")
	logLevel := flag.String("log-level", "", "debug, info, warn or error")
	flag.Usage = func() { cli.PrintHelp(os.Stderr) }
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		ui.Fail(os.Stderr, err.Error())
		os.Exit(1)
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *theme != "" {
		cfg.Theme = *theme
	}
	if *timeout > 0 {
		cfg.Timeout = *timeout
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	ui.SetTheme(cfg.Theme)

	log, closer, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		ui.Fail(os.Stderr, err.Error())
		os.Exit(2)
	}
	log.Info("start", "base_url", cfg.BaseURL, "resource", cfg.Resource)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	// Hand the remaining args to the CLI runner.
	code := cli.Run(ctx, flag.Args(), cli.Options{
		Config: cfg,
		Logger: log,
	})
	stop()
	_ = closer.Close()
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
