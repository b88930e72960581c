package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
)

var _ driven.PromptStore = (*PromptStore)(nil)

const promptsHeader = `# Prompts used by 'ragindex ask'. One table per prompt.
#
# system   - instructions sent ahead of the question
# template - the user message; {{.Context}} is the retrieved text and
#            {{.Question}} the question. Templates that never use
#            {{.Context}} are ignored.
#
# Delete a key to go back to its built-in value.

`

// PromptStore reads prompts from prompts.toml, writing the built-in
// prompts there on first use so they can be edited.
type PromptStore struct {
	path string

	mu      sync.Mutex
	prompts map[string]driven.Prompt
}

// NewPromptStore creates a store over configDir/prompts.toml.
// If configDir is empty, defaults to ~/.ragindex. Nothing is read until Load.
func NewPromptStore(configDir string) (*PromptStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".ragindex")
	}
	return &PromptStore{path: filepath.Join(configDir, "prompts.toml")}, nil
}

// Path returns the prompts file.
func (s *PromptStore) Path() string {
	return s.path
}

// Load returns the named prompt as written in the file. Unknown names
// fail with domain.ErrNotFound.
func (s *PromptStore) Load(name string) (driven.Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.prompts == nil {
		prompts, err := s.read()
		if err != nil {
			return driven.Prompt{}, err
		}
		s.prompts = prompts
	}

	prompt, ok := s.prompts[name]
	if !ok {
		return driven.Prompt{}, fmt.Errorf("prompt %q: %w", name, domain.ErrNotFound)
	}
	return prompt, nil
}

// Reload forgets the parsed file so the next Load reads it again.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.prompts = nil
	s.mu.Unlock()
}

func (s *PromptStore) read() (map[string]driven.Prompt, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := s.writeDefaults(); err != nil {
			return nil, err
		}
		return driven.DefaultPrompts(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read prompts: %w", err)
	}

	prompts := make(map[string]driven.Prompt)
	if err := toml.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return prompts, nil
}

func (s *PromptStore) writeDefaults() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create prompt directory: %w", err)
	}
	body, err := toml.Marshal(driven.DefaultPrompts())
	if err != nil {
		return fmt.Errorf("encode default prompts: %w", err)
	}
	if err := os.WriteFile(s.path, append([]byte(promptsHeader), body...), 0600); err != nil {
		return fmt.Errorf("write default prompts: %w", err)
	}
	return nil
}
