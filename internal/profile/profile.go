// Package profile implements launch profiles: a small on-disk store of
// remembered (version, game directory, account) tuples that the
// cmd/mclaunch CLI reads and writes. The core engine never depends on this
// package; it exists purely for CLI convenience.
package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Profile is a remembered launch configuration.
type Profile struct {
	Name    string `json:"name"`
	Version string `json:"version"` // mcversion.VersionId.Raw of the target version

	GameDir    string   `json:"gameDir,omitempty"`
	JavaPath   string   `json:"javaPath,omitempty"`
	JVMArgs    []string `json:"jvmArgs,omitempty"`
	Width      int      `json:"width,omitempty"`
	Height     int      `json:"height,omitempty"`
	Demo       bool     `json:"demo,omitempty"`
	PlayerName string   `json:"playerName,omitempty"`

	LastPlayed time.Time `json:"lastPlayed,omitempty"`
}

// Store is a JSON-file-backed collection of profiles, keyed by name.
type Store struct {
	path     string
	profiles map[string]*Profile
}

// Open loads the profile store from path, which need not exist yet.
func Open(path string) (*Store, error) {
	s := &Store{path: path, profiles: make(map[string]*Profile)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}

	var list []*Profile
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("profile: parsing %s: %w", path, err)
	}
	for _, p := range list {
		s.profiles[p.Name] = p
	}
	return s, nil
}

// List returns every profile, in no particular order.
func (s *Store) List() []*Profile {
	out := make([]*Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	return out
}

// Get returns the named profile, or ok=false if it doesn't exist.
func (s *Store) Get(name string) (*Profile, bool) {
	p, ok := s.profiles[name]
	return p, ok
}

// Put creates or overwrites a profile and persists the store.
func (s *Store) Put(p *Profile) error {
	s.profiles[p.Name] = p
	return s.save()
}

// Delete removes a profile by name and persists the store. A missing name
// is not an error.
func (s *Store) Delete(name string) error {
	delete(s.profiles, name)
	return s.save()
}

// Touch sets a profile's LastPlayed to at and persists the store.
func (s *Store) Touch(name string, at time.Time) error {
	p, ok := s.profiles[name]
	if !ok {
		return fmt.Errorf("profile: no such profile %q", name)
	}
	p.LastPlayed = at
	return s.save()
}

func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	list := s.List()
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
