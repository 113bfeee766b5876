package models

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"quadfit/pkg/approximation"
	"quadfit/pkg/datasets"
)

// FitReport is the machine readable outcome of fitting one dataset
type FitReport struct {
	// DataSet is the name of the fitted dataset
	DataSet string `yaml:"dataset"`

	// Description is copied from the dataset
	Description string `yaml:"description,omitempty"`

	// Samples are the input points
	Samples []approximation.Point2D `yaml:"samples"`

	// Equation is the rendered polynomial
	Equation string `yaml:"equation"`

	// Result holds the coefficients and statistics
	Result approximation.PolynomialResult `yaml:"result"`

	// Curve is the sampled fitted curve over the sample x range
	Curve []approximation.Point2D `yaml:"curve,omitempty"`
}

// NewFitReport bundles a dataset with its fit
func NewFitReport(set datasets.DataSet, result *approximation.PolynomialResult, equation string, curve []approximation.Point2D) FitReport {
	return FitReport{
		DataSet:     set.Name,
		Description: set.Description,
		Samples:     set.Points,
		Equation:    equation,
		Result:      *result,
		Curve:       curve,
	}
}

// Save writes the report as YAML
func (r FitReport) Save(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("error marshaling report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating report directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing report: %w", err)
	}

	return nil
}

// LoadFitReport reads a report written by Save
func LoadFitReport(path string) (FitReport, error) {
	var r FitReport

	data, err := os.ReadFile(path)
	if err != nil {
		return r, fmt.Errorf("error reading report: %w", err)
	}

	if err := yaml.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("error parsing report: %w", err)
	}

	return r, nil
}
