package config

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// LoadYAML decodes a YAML-encoded Document.
func LoadYAML(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	return &doc, nil
}

// LoadJSON decodes a JSON-encoded Document.
func LoadJSON(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return &doc, nil
}

// ToYAML re-encodes a Document, for round-tripping a programmatically built
// document back to its declarative form.
func (d *Document) ToYAML() ([]byte, error) {
	return yaml.Marshal(d)
}
