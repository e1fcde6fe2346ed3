package bots

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

//go:embed default_registry.json
var defaultRegistry []byte

// Registry is the immutable, startup-loaded collection of bot definitions.
type Registry struct {
	defs map[string]Definition
	ids  []string // sorted, for stable listing
}

// LoadRegistry reads bot definitions from the given JSON file. A missing file
// falls back to the embedded default registry; any other read or parse
// failure is fatal configuration, returned to the caller.
func LoadRegistry(path string, logger *zap.Logger) (*Registry, error) {
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		logger.Info("bot registry loaded", zap.String("path", path))
	case os.IsNotExist(err):
		logger.Warn("registry file missing, using embedded defaults", zap.String("path", path))
		raw = defaultRegistry
	default:
		return nil, fmt.Errorf("read registry %s: %w", path, err)
	}

	var entries map[string]Definition
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("registry is empty")
	}

	defs := make(map[string]Definition, len(entries))
	ids := make([]string, 0, len(entries))
	for id, def := range entries {
		def.ID = id
		if def.Name == "" {
			def.Name = id
		}
		def.Path = expandHome(def.Path)
		defs[id] = def
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return &Registry{defs: defs, ids: ids}, nil
}

// NewRegistry builds a registry from in-memory definitions.
func NewRegistry(defs ...Definition) *Registry {
	m := make(map[string]Definition, len(defs))
	ids := make([]string, 0, len(defs))
	for _, def := range defs {
		m[def.ID] = def
		ids = append(ids, def.ID)
	}
	sort.Strings(ids)
	return &Registry{defs: m, ids: ids}
}

func (r *Registry) Get(id string) (Definition, bool) {
	d, ok := r.defs[id]
	return d, ok
}

func (r *Registry) All() []Definition {
	out := make([]Definition, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.defs[id])
	}
	return out
}

func (r *Registry) Len() int { return len(r.defs) }

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
