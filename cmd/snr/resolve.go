package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/snr/internal/fuzzy"
	"github.com/standardbeagle/snr/internal/resolver"
	"github.com/standardbeagle/snr/internal/types"
)

func resolveCommand() *cli.Command {
	return &cli.Command{
		Name:      "resolve",
		Aliases:   []string{"r"},
		Usage:     "Resolve name strings against the canonical index",
		ArgsUsage: "[names...]  (reads stdin when no names are given)",
		Flags: []cli.Flag{
			&cli.IntSliceFlag{
				Name:    "sources",
				Aliases: []string{"s"},
				Usage:   "Restrict matches to these data source ids",
			},
			&cli.BoolFlag{
				Name:    "advanced",
				Aliases: []string{"a"},
				Usage:   "Recursive shortening; keeps exact hits in the output",
			},
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Output as JSON",
			},
		},
		Action: runResolve,
	}
}

func runResolve(c *cli.Context) error {
	names := c.Args().Slice()
	if len(names) == 0 {
		stdin, err := readNames(os.Stdin)
		if err != nil {
			return err
		}
		names = stdin
	}
	if len(names) == 0 {
		return fmt.Errorf("no names to resolve")
	}

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	ix, _, registry, err := buildIndex(cfg)
	if err != nil {
		return err
	}

	sourceIDs := c.IntSlice("sources")
	if err := registry.Validate(sourceIDs); err != nil {
		return err
	}

	advanced := cfg.Resolve.Advanced
	if c.IsSet("advanced") {
		advanced = c.Bool("advanced")
	}

	matcher := fuzzy.NewMatcher(ix, fuzzy.Config{
		MaxEditDistance: cfg.Fuzzy.MaxEditDistance,
		MinStemLength:   cfg.Fuzzy.MinStemLength,
		MaxCandidates:   cfg.Fuzzy.MaxCandidates,
		CacheSize:       cfg.Fuzzy.CacheSize,
	})
	r := resolver.New(ix, matcher.FindMatches)

	responses, err := r.Resolve(names, sourceIDs, advanced)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		data, err := json.MarshalIndent(responses, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	printResponses(names, responses)
	return nil
}

func readNames(f *os.File) ([]string, error) {
	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			names = append(names, line)
		}
	}
	return names, scanner.Err()
}

// printResponses renders responses in input order, joining by the
// parser-derived input identity.
func printResponses(names []string, responses []types.Response) {
	byInput := make(map[uuid.UUID]types.Response, len(responses))
	for _, resp := range responses {
		byInput[resp.InputID] = resp
	}

	for _, raw := range names {
		resp, ok := byInput[types.NameUUID(raw)]
		if !ok || len(resp.Results) == 0 {
			fmt.Printf("%s\n  no match\n", raw)
			continue
		}
		fmt.Println(raw)
		for _, result := range resp.Results {
			switch m := result.MatchKind.(type) {
			case types.CanonicalMatch:
				flags := make([]string, 0, 2)
				if m.Partial {
					flags = append(flags, "partial")
				}
				if m.StemEditDistance > 0 || m.VerbatimEditDistance > 0 {
					flags = append(flags, fmt.Sprintf("ed=%d/%d", m.StemEditDistance, m.VerbatimEditDistance))
				}
				suffix := ""
				if len(flags) > 0 {
					suffix = " (" + strings.Join(flags, ", ") + ")"
				}
				fmt.Printf("  %s%s\n", result.NameMatched.Value, suffix)
			default:
				fmt.Printf("  %s [%s]\n", result.NameMatched.Value, result.MatchKind.Kind())
			}
		}
	}
}
