package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// LoadKDL attempts to load configuration from a .snr.kdl file. A missing
// file returns (nil, nil) so callers fall back to defaults.
func LoadKDL(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %v", path, err)
	}

	cfg, err := parseKDL(string(content))
	if err != nil {
		return nil, err
	}

	// Resolve the project root relative to the config file location.
	if cfg.Project.Root == "" || !filepath.IsAbs(cfg.Project.Root) {
		base := filepath.Dir(path)
		absBase, err := filepath.Abs(base)
		if err == nil {
			base = absBase
		}
		if cfg.Project.Root == "" {
			cfg.Project.Root = base
		} else {
			cfg.Project.Root = filepath.Clean(filepath.Join(base, cfg.Project.Root))
		}
	}

	return cfg, nil
}

func parseKDL(content string) (*Config, error) {
	cfg := Default()
	cfg.Project.Root = ""

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "project":
			for _, cn := range n.Children {
				assignSimpleString(cn, "root", func(v string) { cfg.Project.Root = v })
				assignSimpleString(cn, "name", func(v string) { cfg.Project.Name = v })
			}
		case "data":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "dir":
					if s, ok := firstStringArg(cn); ok {
						cfg.Data.Dir = s
					}
				case "include":
					patterns := stringArgs(cn)
					if len(patterns) > 0 {
						cfg.Data.Include = patterns
					}
				case "registry":
					if s, ok := firstStringArg(cn); ok {
						cfg.Data.Registry = s
					}
				case "watch":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Data.Watch = b
					}
				case "debounce_ms":
					if v, ok := firstIntArg(cn); ok {
						cfg.Data.DebounceMs = v
					}
				}
			}
		case "fuzzy":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "max_edit_distance":
					if v, ok := firstIntArg(cn); ok {
						cfg.Fuzzy.MaxEditDistance = v
					}
				case "min_stem_length":
					if v, ok := firstIntArg(cn); ok {
						cfg.Fuzzy.MinStemLength = v
					}
				case "max_candidates":
					if v, ok := firstIntArg(cn); ok {
						cfg.Fuzzy.MaxCandidates = v
					}
				case "cache_size":
					if v, ok := firstIntArg(cn); ok {
						cfg.Fuzzy.CacheSize = v
					}
				}
			}
		case "resolve":
			for _, cn := range n.Children {
				if nodeName(cn) == "advanced" {
					if b, ok := firstBoolArg(cn); ok {
						cfg.Resolve.Advanced = b
					}
				}
			}
		case "performance":
			for _, cn := range n.Children {
				if nodeName(cn) == "max_goroutines" {
					if v, ok := firstIntArg(cn); ok {
						cfg.Performance.MaxGoroutines = v
					}
				}
			}
		}
	}

	return cfg, nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

func stringArgs(n *document.Node) []string {
	var out []string
	for _, arg := range n.Arguments {
		if s, ok := arg.Value.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}
