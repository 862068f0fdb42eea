package config

import (
	"os"
	"path/filepath"
)

// Config is the full runtime configuration for snr, loaded from an
// optional .snr.kdl file with CLI flag overrides applied on top.
type Config struct {
	Version     int
	Project     Project
	Data        Data
	Fuzzy       Fuzzy
	Resolve     Resolve
	Performance Performance
}

type Project struct {
	Root string
	Name string
}

// Data configures where canonical name lists come from.
type Data struct {
	Dir        string   // Directory holding name-list files
	Include    []string // Doublestar globs selecting data files
	Registry   string   // Optional TOML data-source registry
	Watch      bool     // Rebuild the index when data files change
	DebounceMs int      // Debounce time for file change events
}

// Fuzzy configures the approximate matcher.
type Fuzzy struct {
	MaxEditDistance int // Stem-distance budget for candidates
	MinStemLength   int // Epithets shorter than this are not stemmed
	MaxCandidates   int // Cap on candidates per query
	CacheSize       int // Query cache entries per matcher
}

// Resolve configures resolution defaults.
type Resolve struct {
	Advanced bool // Enable recursive shortening by default
}

type Performance struct {
	MaxGoroutines int // Parallel file parsers during index load
}

// Default returns the built-in configuration.
func Default() *Config {
	cwd, _ := os.Getwd()
	if cwd == "" {
		cwd = "."
	}
	return &Config{
		Version: 1,
		Project: Project{Root: cwd},
		Data: Data{
			Dir:        "data",
			Include:    []string{"**/*.csv", "**/*.tsv"},
			Registry:   "sources.toml",
			Watch:      false,
			DebounceMs: 200,
		},
		Fuzzy: Fuzzy{
			MaxEditDistance: 2,
			MinStemLength:   4,
			MaxCandidates:   20,
			CacheSize:       1024,
		},
		Resolve: Resolve{Advanced: true},
		Performance: Performance{
			MaxGoroutines: 4,
		},
	}
}

// Load reads configuration from the given path. A missing file yields
// the defaults; a present but invalid file is an error.
func Load(path string) (*Config, error) {
	cfg, err := LoadKDL(path)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DataDir resolves the data directory against the project root.
func (c *Config) DataDir() string {
	if filepath.IsAbs(c.Data.Dir) {
		return c.Data.Dir
	}
	return filepath.Join(c.Project.Root, c.Data.Dir)
}

// RegistryPath resolves the registry file against the project root, or
// returns empty when no registry is configured.
func (c *Config) RegistryPath() string {
	if c.Data.Registry == "" {
		return ""
	}
	if filepath.IsAbs(c.Data.Registry) {
		return c.Data.Registry
	}
	return filepath.Join(c.Project.Root, c.Data.Registry)
}
