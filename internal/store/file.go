// Package store persists the pad configuration as a JSON document.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"

	"github.com/SDINAHET/Daslight4-xbox360/internal/core/xypad"
)

var codec = sonic.ConfigStd

// FileStore reads and writes one configuration document. A loaded document
// may be partial; whatever it leaves out is taken from the defaults.
type FileStore struct {
	path     string
	defaults xypad.Config
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, defaults: xypad.DefaultConfig()}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load() (xypad.Config, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return xypad.Config{}, fmt.Errorf("read %s: %w", s.path, err)
	}
	cfg, err := MergeDocument(s.defaults, data)
	if err != nil {
		return xypad.Config{}, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return cfg, nil
}

func (s *FileStore) Save(cfg xypad.Config) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config dir: %w", err)
		}
	}

	data, err := codec.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to persist config: %w", err)
	}
	return nil
}

// MergeDocument overlays a JSON document onto defaults and decodes the result.
func MergeDocument(defaults xypad.Config, data []byte) (xypad.Config, error) {
	var overlay any
	if err := codec.Unmarshal(data, &overlay); err != nil {
		return xypad.Config{}, err
	}
	if _, ok := overlay.(map[string]any); !ok && overlay != nil {
		return xypad.Config{}, errors.New("configuration document is not a JSON object")
	}

	base, err := toTree(defaults)
	if err != nil {
		return xypad.Config{}, err
	}
	merged, err := codec.Marshal(DeepMerge(base, overlay))
	if err != nil {
		return xypad.Config{}, err
	}

	var cfg xypad.Config
	if err := codec.Unmarshal(merged, &cfg); err != nil {
		return xypad.Config{}, err
	}
	return cfg, nil
}

// DeepMerge returns base with override applied on top. Nested objects merge
// key by key; a null override keeps the base value; any other override
// replaces it.
func DeepMerge(base, override any) any {
	if override == nil {
		return base
	}
	baseMap, baseIsMap := base.(map[string]any)
	overMap, overIsMap := override.(map[string]any)
	if !baseIsMap || !overIsMap {
		return override
	}

	out := make(map[string]any, len(baseMap)+len(overMap))
	for k, v := range baseMap {
		out[k] = v
	}
	for k, v := range overMap {
		out[k] = DeepMerge(baseMap[k], v)
	}
	return out
}

func toTree(v any) (any, error) {
	data, err := codec.Marshal(v)
	if err != nil {
		return nil, err
	}
	var tree any
	if err := codec.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}
