// Package persona holds the named system prompts the tutor speaks with.
package persona

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/markdave123-py/Cluster/internal/core"
	"github.com/markdave123-py/Cluster/internal/logger"
)

// Reserved keys are task prompts, never picked as a quiz persona.
const (
	DefaultStudent   = "default_student"
	EvaluateResponse = "evaluate_response"
	Summarise        = "summarise"
)

var ErrNoPersonaAvailable = errors.New("no persona available")

// Store is read-only after construction and safe for concurrent use.
type Store struct {
	personas map[string]string
	picker   core.Picker
}

// New builds a store from an in-memory mapping.
func New(personas map[string]string, picker core.Picker) *Store {
	if personas == nil {
		personas = map[string]string{}
	}
	if picker == nil {
		picker = core.DefaultPicker
	}
	return &Store{personas: personas, picker: picker}
}

// Load reads a YAML mapping of key -> prompt text from path.
// A missing or malformed file yields an empty store.
func Load(path string, picker core.Picker, log *logger.Logger) *Store {
	personas, err := readFile(path)
	if err != nil {
		log.Warn("persona file could not be loaded, continuing with no personas", "path", path, "error", err)
		return New(nil, picker)
	}
	log.Info("personas loaded", "path", path, "count", len(personas))
	return New(personas, picker)
}

func readFile(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var personas map[string]string
	if err := yaml.Unmarshal(raw, &personas); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return personas, nil
}

// Get returns the prompt stored under key, or "" when absent.
func (s *Store) Get(key string) string {
	return s.personas[key]
}

func (s *Store) Len() int {
	return len(s.personas)
}

// Keys returns every key in sorted order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.personas))
	for k := range s.personas {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ChooseRandom picks one non-reserved persona key uniformly.
func (s *Store) ChooseRandom() (string, error) {
	var candidates []string
	for _, k := range s.Keys() {
		if isReserved(k) {
			continue
		}
		candidates = append(candidates, k)
	}
	if len(candidates) == 0 {
		return "", ErrNoPersonaAvailable
	}
	return candidates[s.picker.IntN(len(candidates))], nil
}

func isReserved(key string) bool {
	switch key {
	case DefaultStudent, EvaluateResponse, Summarise:
		return true
	}
	return false
}
