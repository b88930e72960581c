package file

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps settings in config.toml. Keys are flat in memory
// ("embedding.model") and written as nested tables:
//
//	[embedding]
//	model = "nomic-embed-text"
//
// Every change rewrites the file through a temporary file and a rename, so
// a crash never leaves a half-written config behind.
type ConfigStore struct {
	mu     sync.RWMutex
	path   string
	values map[string]any
}

// NewConfigStore opens configDir/config.toml, creating configDir if needed.
// If configDir is empty, defaults to ~/.ragindex. A missing file is an
// empty configuration; an unparsable one is an error.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".ragindex")
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &ConfigStore{path: filepath.Join(configDir, "config.toml")}
	if err := s.Load(); err != nil {
		return nil, fmt.Errorf("load %s: %w", s.path, err)
	}
	return s, nil
}

// Path returns the config file.
func (s *ConfigStore) Path() string {
	return s.path
}

// Get returns the value stored under key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.values[key]
	return val, ok
}

// Keys returns the stored keys in sorted order.
func (s *ConfigStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.values))
}

// Set stores value and rewrites the file. If the write fails the previous
// value is restored.
func (s *ConfigStore) Set(key string, value any) error {
	return s.update(key, func(m map[string]any) { m[key] = value })
}

// Delete removes key and rewrites the file.
func (s *ConfigStore) Delete(key string) error {
	s.mu.RLock()
	_, exists := s.values[key]
	s.mu.RUnlock()
	if !exists {
		return nil
	}
	return s.update(key, func(m map[string]any) { delete(m, key) })
}

// update applies change to a copy of the values and swaps it in only once
// the copy has been written.
func (s *ConfigStore) update(key string, change func(map[string]any)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := maps.Clone(s.values)
	change(next)
	if err := s.write(next); err != nil {
		return fmt.Errorf("config key %q: %w", key, err)
	}
	s.values = next
	return nil
}

// Load replaces the in-memory values with the file's contents.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.values = make(map[string]any)
		return nil
	}
	if err != nil {
		return err
	}

	var tree map[string]any
	if err := toml.Unmarshal(data, &tree); err != nil {
		return err
	}
	s.values = flatten(tree, "", make(map[string]any))
	return nil
}

// Save rewrites the file from the in-memory values.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(s.values)
}

func (s *ConfigStore) write(values map[string]any) error {
	tree, err := nest(values)
	if err != nil {
		return err
	}
	data, err := toml.Marshal(tree)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".config-*.toml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// flatten copies a decoded TOML tree into out with dotted keys.
func flatten(tree map[string]any, prefix string, out map[string]any) map[string]any {
	for k, v := range tree {
		if prefix != "" {
			k = prefix + "." + k
		}
		if table, ok := v.(map[string]any); ok {
			flatten(table, k, out)
			continue
		}
		out[k] = v
	}
	return out
}

// nest turns dotted keys back into tables. A key that is both a value and
// a table prefix ("storage" and "storage.backend") cannot be written.
func nest(flat map[string]any) (map[string]any, error) {
	root := make(map[string]any)
	for _, key := range slices.Sorted(maps.Keys(flat)) {
		parts := strings.Split(key, ".")
		node := root
		for _, part := range parts[:len(parts)-1] {
			switch child := node[part].(type) {
			case nil:
				table := make(map[string]any)
				node[part] = table
				node = table
			case map[string]any:
				node = child
			default:
				return nil, fmt.Errorf("key %q conflicts with value %q", key, part)
			}
		}
		leaf := parts[len(parts)-1]
		if _, taken := node[leaf]; taken {
			return nil, fmt.Errorf("key %q conflicts with a table", key)
		}
		node[leaf] = flat[key]
	}
	return root, nil
}
