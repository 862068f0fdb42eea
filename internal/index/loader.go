package index

import (
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/snr/internal/debug"
	snrerrors "github.com/standardbeagle/snr/internal/errors"
	"github.com/standardbeagle/snr/internal/types"
)

// LoadStats summarizes one load pass over the data directory.
type LoadStats struct {
	Files     int
	Records   int
	Malformed int
}

// Loader reads canonical-name lists from a data directory. Each record is
// "canonical,source_id"; TSV files use a tab separator. Files are parsed
// concurrently and merged into a single immutable index.
type Loader struct {
	Dir           string
	Include       []string
	MaxGoroutines int
}

// fileEntries is the parse product of a single file before merging.
type fileEntries struct {
	names     map[string][]types.SourceID
	records   int
	malformed int
}

// Load discovers matching files and builds the index.
func (l *Loader) Load() (*CanonicalIndex, LoadStats, error) {
	files, err := l.discover()
	if err != nil {
		return nil, LoadStats{}, err
	}
	debug.LogIndex("loading %d data files from %s\n", len(files), l.Dir)

	workers := l.MaxGoroutines
	if workers <= 0 {
		workers = 4
	}

	var (
		mu     sync.Mutex
		merged = make(map[string][]types.SourceID)
		stats  = LoadStats{Files: len(files)}
		g      errgroup.Group
	)
	g.SetLimit(workers)

	for _, path := range files {
		g.Go(func() error {
			entries, err := parseFile(path)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			for name, ids := range entries.names {
				merged[name] = append(merged[name], ids...)
			}
			stats.Records += entries.records
			stats.Malformed += entries.malformed
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, LoadStats{}, err
	}

	built := make(map[string]types.SourceSet, len(merged))
	for name, ids := range merged {
		built[name] = types.NewSourceSet(ids...)
	}

	debug.LogIndex("loaded %d names (%d records, %d malformed)\n",
		len(built), stats.Records, stats.Malformed)
	return New(built), stats, nil
}

// discover walks the data directory collecting files that match any
// include pattern. Patterns are doublestar globs relative to Dir.
func (l *Loader) discover() ([]string, error) {
	include := l.Include
	if len(include) == 0 {
		include = []string{"**/*.csv", "**/*.tsv"}
	}

	var files []string
	err := filepath.WalkDir(l.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(l.Dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		for _, pattern := range include {
			matched, err := doublestar.Match(pattern, rel)
			if err != nil {
				return snrerrors.NewConfigError("data.include", pattern, err)
			}
			if matched {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, snrerrors.NewDataError(l.Dir, err)
	}
	return files, nil
}

// parseFile reads one CSV/TSV name list.
func parseFile(path string) (fileEntries, error) {
	entries := fileEntries{names: make(map[string][]types.SourceID)}

	f, err := os.Open(path)
	if err != nil {
		return entries, snrerrors.NewDataError(path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	if strings.HasSuffix(path, ".tsv") {
		reader.Comma = '\t'
	}
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return entries, snrerrors.NewDataError(path, err).WithRecord(line+1, "")
		}
		line++

		if len(record) < 2 {
			entries.malformed++
			continue
		}
		name := strings.TrimSpace(record[0])
		idField := strings.TrimSpace(record[1])
		if name == "" {
			entries.malformed++
			continue
		}
		// A header row is not an error, just not data.
		if line == 1 && !isNumeric(idField) {
			continue
		}
		id, err := strconv.ParseUint(idField, 10, 32)
		if err != nil {
			entries.malformed++
			continue
		}

		entries.records++
		entries.names[name] = append(entries.names[name], types.SourceID(id))
	}

	return entries, nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Stats describes the live index for status reporting.
type Stats struct {
	Names     int                    `json:"names"`
	Sources   int                    `json:"sources"`
	PerSource map[types.SourceID]int `json:"per_source"`
	Load      LoadStats              `json:"load"`
}

// CollectStats computes summary statistics from an index snapshot.
func CollectStats(ix *CanonicalIndex, load LoadStats) Stats {
	stats := Stats{
		Names:     ix.Len(),
		Sources:   ix.Sources().Len(),
		PerSource: make(map[types.SourceID]int),
		Load:      load,
	}
	ix.Walk(func(_ string, sources types.SourceSet) bool {
		for _, id := range sources.IDs() {
			stats.PerSource[id]++
		}
		return true
	})
	return stats
}

// String renders the stats for terminal output.
func (s Stats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "names: %d\nsources: %d\nfiles: %d\nrecords: %d\nmalformed: %d\n",
		s.Names, s.Sources, s.Load.Files, s.Load.Records, s.Load.Malformed)
	return b.String()
}
