package system

import (
	"fmt"
	"os"

	yaml "github.com/goccy/go-yaml"
)

// Load reads a system description from a YAML file.
func Load(path string) (*System, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read system %s: %w", path, err)
	}
	sys, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse system %s: %w", path, err)
	}
	return sys, nil
}

// Parse decodes a YAML system description. Unknown fields are rejected.
func Parse(data []byte) (*System, error) {
	var sys System
	if err := yaml.UnmarshalWithOptions(data, &sys, yaml.DisallowUnknownField()); err != nil {
		return nil, err
	}
	return &sys, nil
}
