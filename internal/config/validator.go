package config

import (
	"fmt"

	snrerrors "github.com/standardbeagle/snr/internal/errors"
)

// Validate range-checks configuration values.
func (c *Config) Validate() error {
	if c.Data.Dir == "" {
		return snrerrors.NewConfigError("data.dir", "", fmt.Errorf("data directory must be set"))
	}
	if c.Fuzzy.MaxEditDistance < 1 || c.Fuzzy.MaxEditDistance > 10 {
		return snrerrors.NewConfigError("fuzzy.max_edit_distance",
			fmt.Sprintf("%d", c.Fuzzy.MaxEditDistance),
			fmt.Errorf("must be between 1 and 10"))
	}
	if c.Fuzzy.MinStemLength < 0 {
		return snrerrors.NewConfigError("fuzzy.min_stem_length",
			fmt.Sprintf("%d", c.Fuzzy.MinStemLength),
			fmt.Errorf("must be >= 0"))
	}
	if c.Fuzzy.MaxCandidates < 1 || c.Fuzzy.MaxCandidates > 1000 {
		return snrerrors.NewConfigError("fuzzy.max_candidates",
			fmt.Sprintf("%d", c.Fuzzy.MaxCandidates),
			fmt.Errorf("must be between 1 and 1000"))
	}
	if c.Fuzzy.CacheSize < 0 {
		return snrerrors.NewConfigError("fuzzy.cache_size",
			fmt.Sprintf("%d", c.Fuzzy.CacheSize),
			fmt.Errorf("must be >= 0"))
	}
	if c.Data.DebounceMs < 0 || c.Data.DebounceMs > 60000 {
		return snrerrors.NewConfigError("data.debounce_ms",
			fmt.Sprintf("%d", c.Data.DebounceMs),
			fmt.Errorf("must be between 0 and 60000"))
	}
	if c.Performance.MaxGoroutines < 0 || c.Performance.MaxGoroutines > 256 {
		return snrerrors.NewConfigError("performance.max_goroutines",
			fmt.Sprintf("%d", c.Performance.MaxGoroutines),
			fmt.Errorf("must be between 0 and 256"))
	}
	return nil
}
