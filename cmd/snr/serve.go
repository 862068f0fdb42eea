package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/snr/internal/debug"
	"github.com/standardbeagle/snr/internal/index"
	"github.com/standardbeagle/snr/internal/mcp"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve name resolution over MCP stdio",
		Action: func(c *cli.Context) error {
			// Stdout carries the protocol; all diagnostics go elsewhere.
			debug.SetMCPMode(true)
			if _, err := debug.InitDebugLogFile(); err == nil {
				defer debug.CloseDebugLog()
			}

			cfg, err := loadConfigWithOverrides(c)
			if err != nil {
				return err
			}

			ix, stats, registry, err := buildIndex(cfg)
			if err != nil {
				return err
			}
			handle := index.NewHandle(ix)

			if cfg.Data.Watch {
				loader := &index.Loader{
					Dir:           cfg.DataDir(),
					Include:       cfg.Data.Include,
					MaxGoroutines: cfg.Performance.MaxGoroutines,
				}
				watcher, err := index.NewWatcher(loader, handle,
					time.Duration(cfg.Data.DebounceMs)*time.Millisecond)
				if err != nil {
					return err
				}
				if err := watcher.Start(); err != nil {
					return err
				}
				defer watcher.Stop()
			}

			server := mcp.NewServer(cfg, handle, registry, stats, os.Stderr)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx)
		},
	}
}
