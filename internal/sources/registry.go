package sources

import (
	"fmt"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"

	snrerrors "github.com/standardbeagle/snr/internal/errors"
	"github.com/standardbeagle/snr/internal/types"
)

// Source describes one external data source contributing canonical names.
type Source struct {
	ID    uint32 `toml:"id" json:"id"`
	Title string `toml:"title" json:"title"`
	URL   string `toml:"url,omitempty" json:"url,omitempty"`
}

// Registry maps source ids to their descriptions. A nil Registry behaves
// as empty: every id is accepted, no titles are known.
type Registry struct {
	byID map[types.SourceID]Source
}

type registryFile struct {
	Source []Source `toml:"source"`
}

// Load reads a TOML registry file. A missing file is not an error; it
// returns (nil, nil) and filters then pass through unvalidated.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, snrerrors.NewDataError(path, err)
	}

	var file registryFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, snrerrors.NewDataError(path, err)
	}

	reg := &Registry{byID: make(map[types.SourceID]Source, len(file.Source))}
	for _, src := range file.Source {
		id := types.SourceID(src.ID)
		if _, dup := reg.byID[id]; dup {
			return nil, snrerrors.NewDataError(path, fmt.Errorf("duplicate source id %d", src.ID))
		}
		reg.byID[id] = src
	}
	return reg, nil
}

// Title returns the registered title for an id, or empty.
func (r *Registry) Title(id types.SourceID) string {
	if r == nil {
		return ""
	}
	return r.byID[id].Title
}

// Known reports whether the id is registered. A nil registry knows
// nothing and accepts everything.
func (r *Registry) Known(id types.SourceID) bool {
	if r == nil {
		return true
	}
	_, ok := r.byID[id]
	return ok
}

// Validate rejects filters naming unregistered sources.
func (r *Registry) Validate(ids []int) error {
	if r == nil {
		return nil
	}
	for _, id := range ids {
		if id < 0 {
			return fmt.Errorf("invalid source id %d", id)
		}
		if !r.Known(types.SourceID(id)) {
			return fmt.Errorf("unknown source id %d", id)
		}
	}
	return nil
}

// All returns the registered sources ordered by id.
func (r *Registry) All() []Source {
	if r == nil {
		return nil
	}
	out := make([]Source, 0, len(r.byID))
	for _, src := range r.byID {
		out = append(out, src)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
