package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownScenario is returned when a registry lookup finds no scenario.
var ErrUnknownScenario = errors.New("unknown scenario")

// Parse decodes a single scenario document, normalizes and validates it.
// Unknown keys are rejected.
//
// Postcondition: Returns a valid Scenario or a non-nil error.
func Parse(data []byte) (Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return Scenario{}, fmt.Errorf("decoding scenario: %w", err)
	}
	s = s.Normalize()
	if err := s.Validate(); err != nil {
		return Scenario{}, err
	}
	return s, nil
}

// Load reads and parses the scenario file at path.
//
// Precondition: path must be a readable YAML file.
// Postcondition: Returns a valid Scenario or a non-nil error.
func Load(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("reading %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return Scenario{}, fmt.Errorf("parsing scenario file %s: %w", path, err)
	}
	return s, nil
}

// LoadDir reads all .yaml files in dir and parses each as a Scenario.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed scenarios ordered by file name, or a non-nil error.
func LoadDir(dir string) ([]Scenario, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	out := make([]Scenario, 0, len(files))
	for _, path := range files {
		s, err := Load(path)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Registry indexes scenarios by ID. Later registrations replace earlier ones.
type Registry struct {
	byID map[string]Scenario
}

// NewRegistry returns a registry seeded with the built-in scenarios.
func NewRegistry() *Registry {
	r := &Registry{byID: make(map[string]Scenario)}
	for _, s := range Builtin() {
		r.Register(s)
	}
	return r
}

// Register adds or replaces s.
//
// Precondition: s must be valid.
func (r *Registry) Register(s Scenario) {
	r.byID[s.ID] = s
}

// LoadDir registers every scenario found in dir.
//
// Postcondition: Returns the number of scenarios registered or a non-nil error;
// on error the registry is unchanged.
func (r *Registry) LoadDir(dir string) (int, error) {
	loaded, err := LoadDir(dir)
	if err != nil {
		return 0, err
	}
	for _, s := range loaded {
		r.Register(s)
	}
	return len(loaded), nil
}

// Get returns the scenario registered under id.
//
// Postcondition: Returns the Scenario or an error wrapping ErrUnknownScenario.
func (r *Registry) Get(id string) (Scenario, error) {
	s, ok := r.byID[id]
	if !ok {
		return Scenario{}, fmt.Errorf("%w %q (known: %s)", ErrUnknownScenario, id, strings.Join(r.IDs(), ", "))
	}
	return s, nil
}

// IDs returns all registered scenario IDs in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
