// Package store keeps JSON sidecar metadata next to rendered one-shots so
// the settings behind any output can be recalled or re-rendered.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"drumforge/internal/params"
)

// Metadata records how an output was made.
type Metadata struct {
	Name       string            `json:"name"` // output file name
	CreatedAt  time.Time         `json:"created_at"`
	DurationMs float64           `json:"duration_ms"`
	Layers     map[string]string `json:"layers"` // role -> source path
	Settings   params.Settings   `json:"settings"`
}

// Store manages outputs and their sidecars in one directory.
type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) sidecarPath(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Save writes the sidecar for an output. The write goes through a temp
// file so a crash never leaves a half-written sidecar.
func (s *Store) Save(m Metadata) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, ".meta-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.sidecarPath(m.Name))
}

// Load reads the sidecar for one output.
func (s *Store) Load(name string) (*Metadata, error) {
	data, err := os.ReadFile(s.sidecarPath(name))
	if err != nil {
		return nil, err
	}
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("corrupt sidecar for %s: %w", name, err)
	}
	return &m, nil
}

// List returns metadata for every output with a readable sidecar, newest
// first. Outputs missing a sidecar are listed with name only.
func (s *Store) List() ([]Metadata, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []Metadata
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".") {
			continue
		}
		m, err := s.Load(name)
		if err != nil {
			out = append(out, Metadata{Name: name})
			continue
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Delete removes an output and its sidecar. A missing sidecar is not an
// error; a missing output is.
func (s *Store) Delete(name string) error {
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		return err
	}
	if err := os.Remove(s.sidecarPath(name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
