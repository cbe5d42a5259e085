// Package mapserver serves the map REST API: saving, listing and
// loading map files, plus the static game client.
package mapserver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrNotFound is returned when no map file exists for a name.
var ErrNotFound = errors.New("map not found")

// ErrBadName is returned when a map name is empty after sanitizing.
var ErrBadName = errors.New("invalid map name")

// MapInfo describes one stored map.
type MapInfo struct {
	Name         string    `json:"name"`
	FileName     string    `json:"fileName"`
	LastModified time.Time `json:"lastModified"`
}

// Store keeps map files as <name>.json under a single directory.
type Store struct {
	dir string
}

// NewStore opens (and creates if needed) the map directory.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create map dir %q: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// sanitizeName reduces a map name to a safe file stem. Anything outside
// letters, digits, space, dash and underscore becomes an underscore.
func sanitizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", ErrBadName
	}
	return out, nil
}

// Save writes a map file, overwriting any previous version.
func (s *Store) Save(name string, data []byte) error {
	stem, err := sanitizeName(name)
	if err != nil {
		return err
	}
	path := filepath.Join(s.dir, stem+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write map %q: %w", stem, err)
	}
	return nil
}

// Load reads a map file by name.
func (s *Store) Load(name string) ([]byte, error) {
	stem, err := sanitizeName(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, stem+".json"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("map %q: %w", stem, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read map %q: %w", stem, err)
	}
	return data, nil
}

// List returns every stored map, newest first.
func (s *Store) List() ([]MapInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list maps: %w", err)
	}
	maps := make([]MapInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		maps = append(maps, MapInfo{
			Name:         strings.TrimSuffix(e.Name(), ".json"),
			FileName:     e.Name(),
			LastModified: info.ModTime(),
		})
	}
	sort.Slice(maps, func(i, j int) bool {
		return maps[i].LastModified.After(maps[j].LastModified)
	})
	return maps, nil
}
