// Package library indexes the source sample directory and guesses which
// chain role each file suits from keywords in its name.
package library

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Category is the chain role a sample is suited for.
type Category string

const (
	CategoryBody      Category = "body"
	CategoryTransient Category = "transient"
	CategoryTexture   Category = "texture"
	CategoryUnknown   Category = "unknown"
)

// Sample is one indexed source file.
type Sample struct {
	Name     string   `json:"name"`
	Path     string   `json:"path"`
	Category Category `json:"category"`
	Size     int64    `json:"size_bytes"`
}

// audioExts lists extensions worth indexing. Anything else in the sample
// directory is ignored.
var audioExts = map[string]bool{
	".wav": true, ".flac": true, ".mp3": true,
	".aif": true, ".aiff": true, ".ogg": true,
}

var categoryKeywords = []struct {
	cat   Category
	words []string
}{
	{CategoryBody, []string{"kick", "808", "sub", "bass", "boom", "tom"}},
	{CategoryTransient, []string{"snare", "clap", "rim", "snap", "stick", "perc"}},
	{CategoryTexture, []string{"hat", "hh", "noise", "vinyl", "shaker", "crash", "ride", "air"}},
}

// Library is a rescannable index of the sample directory.
type Library struct {
	dir string

	mu      sync.RWMutex
	samples []Sample
}

// New creates a library over dir. Call Scan before the first use.
func New(dir string) *Library {
	return &Library{dir: dir}
}

// Scan rebuilds the index from disk, walking subdirectories.
func (l *Library) Scan() error {
	var found []Sample
	err := filepath.WalkDir(l.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !audioExts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		found = append(found, Sample{
			Name:     d.Name(),
			Path:     path,
			Category: InferCategory(d.Name()),
			Size:     info.Size(),
		})
		return nil
	})
	if err != nil {
		return err
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })

	l.mu.Lock()
	l.samples = found
	l.mu.Unlock()
	return nil
}

// List returns all indexed samples.
func (l *Library) List() []Sample {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Sample, len(l.samples))
	copy(out, l.samples)
	return out
}

// ByCategory returns samples matching the given category.
func (l *Library) ByCategory(cat Category) []Sample {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []Sample
	for _, s := range l.samples {
		if s.Category == cat {
			out = append(out, s)
		}
	}
	return out
}

// Lookup finds a sample by file name.
func (l *Library) Lookup(name string) (Sample, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, s := range l.samples {
		if s.Name == name {
			return s, true
		}
	}
	return Sample{}, false
}

// InferCategory guesses a sample's role from keywords in its name.
// Body keywords win over transient, transient over texture.
func InferCategory(name string) Category {
	lower := strings.ToLower(name)
	for _, g := range categoryKeywords {
		for _, w := range g.words {
			if strings.Contains(lower, w) {
				return g.cat
			}
		}
	}
	return CategoryUnknown
}
