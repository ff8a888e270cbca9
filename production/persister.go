// Package production adapts the reference engine's file-based persistence,
// channel-based publishing and DOT/JSON visualization onto the hierarchical
// core's scxml.Snapshot and tree.Tree types.
package production

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	scxml "github.com/arcstate/scxml"
)

// JSONPersister is a file-based scxml.Persister storing one JSON document
// per machine id.
type JSONPersister struct {
	dir string
}

// NewJSONPersister creates a JSONPersister, ensuring dir exists.
func NewJSONPersister(dir string) (*JSONPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &JSONPersister{dir: dir}, nil
}

func (p *JSONPersister) Save(snap scxml.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	fn := filepath.Join(p.dir, snap.MachineID+".json")
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return nil
}

func (p *JSONPersister) Load(machineID string) (scxml.Snapshot, error) {
	fn := filepath.Join(p.dir, machineID+".json")
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return scxml.Snapshot{}, fmt.Errorf("machine %q: %w", machineID, os.ErrNotExist)
		}
		return scxml.Snapshot{}, fmt.Errorf("read %s: %w", fn, err)
	}
	var snap scxml.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return scxml.Snapshot{}, fmt.Errorf("json unmarshal: %w", err)
	}
	snap.MachineID = machineID
	return snap, nil
}

// YAMLPersister is the YAML-encoded counterpart of JSONPersister.
type YAMLPersister struct {
	dir string
}

// NewYAMLPersister creates a YAMLPersister, ensuring dir exists.
func NewYAMLPersister(dir string) (*YAMLPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &YAMLPersister{dir: dir}, nil
}

func (p *YAMLPersister) Save(snap scxml.Snapshot) error {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	fn := filepath.Join(p.dir, snap.MachineID+".yaml")
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return nil
}

func (p *YAMLPersister) Load(machineID string) (scxml.Snapshot, error) {
	fn := filepath.Join(p.dir, machineID+".yaml")
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return scxml.Snapshot{}, fmt.Errorf("machine %q: %w", machineID, os.ErrNotExist)
		}
		return scxml.Snapshot{}, fmt.Errorf("read %s: %w", fn, err)
	}
	var snap scxml.Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return scxml.Snapshot{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	snap.MachineID = machineID
	return snap, nil
}
