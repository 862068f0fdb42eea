package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/snr/internal/config"
	"github.com/standardbeagle/snr/internal/debug"
	"github.com/standardbeagle/snr/internal/index"
	"github.com/standardbeagle/snr/internal/sources"
	"github.com/standardbeagle/snr/internal/version"
)

// loadConfigWithOverrides loads configuration and applies CLI flag overrides
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	if dataFlag := c.String("data"); dataFlag != "" {
		absData, err := filepath.Abs(dataFlag)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve data path %q: %w", dataFlag, err)
		}
		cfg.Data.Dir = absData
	}

	return cfg, nil
}

// buildIndex loads the canonical index and the source registry per config.
func buildIndex(cfg *config.Config) (*index.CanonicalIndex, index.LoadStats, *sources.Registry, error) {
	loader := &index.Loader{
		Dir:           cfg.DataDir(),
		Include:       cfg.Data.Include,
		MaxGoroutines: cfg.Performance.MaxGoroutines,
	}
	ix, stats, err := loader.Load()
	if err != nil {
		return nil, index.LoadStats{}, nil, err
	}

	var registry *sources.Registry
	if path := cfg.RegistryPath(); path != "" {
		registry, err = sources.Load(path)
		if err != nil {
			return nil, index.LoadStats{}, nil, err
		}
	}
	return ix, stats, registry, nil
}

func main() {
	app := &cli.App{
		Name:                   "snr",
		Usage:                  "Scientific name resolution against canonical name indexes",
		Version:                version.Info(),
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path",
				Value:   ".snr.kdl",
			},
			&cli.StringFlag{
				Name:  "data",
				Usage: "Data directory holding name lists (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug output to stderr",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("debug") {
				debug.EnableDebug = "true"
				debug.SetDebugOutput(os.Stderr)
			}
			return nil
		},
		Commands: []*cli.Command{
			resolveCommand(),
			serveCommand(),
			statusCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
