package registry

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed config/models.yaml
var configFiles embed.FS

// ModelDescriptor describes one selectable model variant. The registry is
// the single source of truth for which models generation requests may name.
type ModelDescriptor struct {
	ID           string   `yaml:"id" json:"id"`
	Name         string   `yaml:"name" json:"name"`
	Provider     string   `yaml:"provider" json:"provider"`
	Description  string   `yaml:"description" json:"description"`
	Capabilities []string `yaml:"capabilities" json:"capabilities"`
	IsDefault    bool     `yaml:"is_default" json:"is_default"`
}

// Registry holds the model catalog loaded from the embedded YAML file.
// Constructed once at startup and shared by reference; it is never mutated
// afterwards, so reads need no synchronization.
type Registry struct {
	models    []ModelDescriptor
	byID      map[string]ModelDescriptor
	defaultID string
}

type catalogFile struct {
	Models []ModelDescriptor `yaml:"models"`
}

// NewRegistry loads the embedded model catalog. Exactly one entry must be
// marked default.
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/models.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read model catalog: %w", err)
	}

	var catalog catalogFile
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model catalog: %w", err)
	}
	if len(catalog.Models) == 0 {
		return nil, fmt.Errorf("model catalog is empty")
	}

	r := &Registry{
		models: catalog.Models,
		byID:   make(map[string]ModelDescriptor, len(catalog.Models)),
	}

	for _, m := range catalog.Models {
		if m.ID == "" || m.Provider == "" {
			return nil, fmt.Errorf("model catalog entry missing id or provider: %+v", m)
		}
		if _, dup := r.byID[m.ID]; dup {
			return nil, fmt.Errorf("duplicate model id in catalog: %s", m.ID)
		}
		r.byID[m.ID] = m
		if m.IsDefault {
			if r.defaultID != "" {
				return nil, fmt.Errorf("multiple default models in catalog: %s and %s", r.defaultID, m.ID)
			}
			r.defaultID = m.ID
		}
	}

	if r.defaultID == "" {
		return nil, fmt.Errorf("model catalog has no default model")
	}

	return r, nil
}

// List returns all models in catalog order.
func (r *Registry) List() []ModelDescriptor {
	out := make([]ModelDescriptor, len(r.models))
	copy(out, r.models)
	return out
}

// Lookup returns the descriptor for a model id.
func (r *Registry) Lookup(id string) (ModelDescriptor, bool) {
	m, ok := r.byID[id]
	return m, ok
}

// Default returns the catalog's designated default model.
func (r *Registry) Default() ModelDescriptor {
	return r.byID[r.defaultID]
}

// providerKeywords is a heuristic fallback table for resolving a display
// name when a model id is not in the catalog (e.g. records generated before
// a catalog change). Best-effort, not authoritative.
var providerKeywords = []struct {
	keyword string
	name    string
}{
	{"gpt", "OpenAI GPT"},
	{"claude", "Anthropic Claude"},
	{"gemini", "Google Gemini"},
	{"llama", "Meta Llama"},
	{"mistral", "Mistral"},
}

// DisplayName resolves a human-readable name for a model id. Catalog entries
// resolve exactly; unknown ids fall back to keyword matching, then to the
// trailing path segment with any suffix after ":" stripped.
func (r *Registry) DisplayName(id string) string {
	if m, ok := r.byID[id]; ok {
		return m.Name
	}

	lower := strings.ToLower(id)
	for _, pk := range providerKeywords {
		if strings.Contains(lower, pk.keyword) {
			return pk.name
		}
	}

	segment := id
	if i := strings.LastIndex(segment, "/"); i >= 0 {
		segment = segment[i+1:]
	}
	if i := strings.Index(segment, ":"); i >= 0 {
		segment = segment[:i]
	}
	if segment == "" {
		return id
	}
	return segment
}
