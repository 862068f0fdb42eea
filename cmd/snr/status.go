package main

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/snr/internal/index"
)

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show canonical index statistics",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Output as JSON",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfigWithOverrides(c)
			if err != nil {
				return err
			}

			ix, load, registry, err := buildIndex(cfg)
			if err != nil {
				return err
			}
			stats := index.CollectStats(ix, load)

			if c.Bool("json") {
				data, err := json.MarshalIndent(map[string]interface{}{
					"stats":   stats,
					"sources": registry.All(),
				}, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			fmt.Print(stats.String())
			for _, src := range registry.All() {
				fmt.Printf("source %d: %s\n", src.ID, src.Title)
			}
			return nil
		},
	}
}
