package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"orgcal/internal/api"
	"orgcal/internal/cache"
	"orgcal/internal/config"
	"orgcal/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("orgcal %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	cfgPath, err := config.DefaultPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error locating config: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var opts []api.Option
	opts = append(opts, api.WithTimeout(cfg.RequestTimeout()))
	if cfg.BasicAuth != nil {
		opts = append(opts, api.WithBasicAuth(cfg.BasicAuth.Username, cfg.BasicAuth.Password))
	}
	client := api.NewClient(cfg.ServerURL, logger, opts...)

	var cch *cache.Cache
	if cfg.CacheEnabled {
		cch, err = cache.Open()
		if err != nil {
			// The cache is an offline convenience; run without it.
			logger.Warn("cache unavailable", zap.Error(err))
			cch = nil
		} else {
			defer cch.Close()
		}
	}

	app := ui.NewApp(client, cch, logger)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

// newLogger writes structured logs to the configured file. The terminal
// belongs to the TUI, so nothing is logged to stderr while running.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.LogFile == "" {
		return zap.NewNop(), nil
	}
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{cfg.LogFile}
	zcfg.ErrorOutputPaths = []string{cfg.LogFile}
	return zcfg.Build()
}
