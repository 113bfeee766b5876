package datasets

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// file is the on-disk layout:
//
//	datasets:
//	  - name: MzOmegaZ
//	    description: pitching moment damping
//	    points:
//	      - {x: 0.0, y: -13.0}
type file struct {
	DataSets []DataSet `yaml:"datasets"`
}

// Parse decodes datasets from a YAML document
func Parse(data []byte) ([]DataSet, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("error parsing datasets: %w", err)
	}

	if err := Validate(f.DataSets); err != nil {
		return nil, err
	}

	return f.DataSets, nil
}

// LoadFile reads datasets from a YAML file
func LoadFile(path string) ([]DataSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading datasets file: %w", err)
	}

	sets, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return sets, nil
}

// Marshal encodes datasets as a YAML document
func Marshal(sets []DataSet) ([]byte, error) {
	if err := Validate(sets); err != nil {
		return nil, err
	}

	data, err := yaml.Marshal(file{DataSets: sets})
	if err != nil {
		return nil, fmt.Errorf("error marshaling datasets: %w", err)
	}

	return data, nil
}

// SaveFile writes datasets to a YAML file, creating the parent directory
func SaveFile(path string, sets []DataSet) error {
	data, err := Marshal(sets)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating datasets directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing datasets file: %w", err)
	}

	return nil
}
