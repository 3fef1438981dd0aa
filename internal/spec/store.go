package spec

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultDir is the spec output directory relative to the working
// directory.
const DefaultDir = "specs"

// Store persists ProjectSpecs as indented JSON files under Dir.
type Store struct {
	// Dir is the output directory. Created on first save.
	Dir string
}

// NewStore creates a store rooted at dir, falling back to DefaultDir when
// dir is empty.
func NewStore(dir string) *Store {
	if dir == "" {
		dir = DefaultDir
	}
	return &Store{Dir: dir}
}

// Path returns the deterministic spec file path for a project name:
// lowercase, spaces replaced with underscores, "_spec.json" suffix.
// "My App" maps to <dir>/my_app_spec.json.
func (s *Store) Path(name string) string {
	normalized := strings.ReplaceAll(strings.ToLower(name), " ", "_")
	return filepath.Join(s.Dir, normalized+"_spec.json")
}

// Save writes the spec to its deterministic path, creating Dir if absent.
// The spec is marshaled in full before any file is opened, so a marshal
// failure leaves no partial file behind. Returns the written path.
func (s *Store) Save(ps *ProjectSpec) (string, error) {
	data, err := json.MarshalIndent(ps, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal spec: %w", err)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create spec directory: %w", err)
	}
	path := s.Path(ps.Name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write spec file: %w", err)
	}
	return path, nil
}

// Load reads and validates a spec file.
func (s *Store) Load(path string) (*ProjectSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec file: %w", err)
	}
	var ps ProjectSpec
	if err := json.Unmarshal(data, &ps); err != nil {
		return nil, fmt.Errorf("failed to parse spec file %s: %w", path, err)
	}
	if err := ps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid spec file %s: %w", path, err)
	}
	return &ps, nil
}

// List returns the spec files under Dir, sorted by name. A missing
// directory is not an error; it lists nothing.
func (s *Store) List() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.Dir, "*_spec.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list specs: %w", err)
	}
	sort.Strings(matches)
	return matches, nil
}
