// Package datasets provides named sample sets for quadratic fitting: the
// built-in aerodynamic coefficient tables and YAML files with user data.
package datasets

import (
	"errors"
	"fmt"
	"strings"

	"quadfit/pkg/approximation"
)

var (
	// ErrDataSetNotFound is returned when no dataset has the requested name
	ErrDataSetNotFound = errors.New("dataset not found")

	// ErrInvalidDataSet is returned for datasets without a name or with a
	// duplicate name
	ErrInvalidDataSet = errors.New("invalid dataset")
)

// DataSet is a named collection of sample points
type DataSet struct {
	// Name identifies the dataset, e.g. "MzOmegaZ"
	Name string `yaml:"name"`

	// Description is a human readable summary
	Description string `yaml:"description"`

	// Points are the samples in their original order
	Points []approximation.Point2D `yaml:"points"`
}

// Clone returns a copy that shares no memory with d
func (d DataSet) Clone() DataSet {
	d.Points = append([]approximation.Point2D(nil), d.Points...)
	return d
}

// MzOmegaZ returns the pitching moment damping samples
func MzOmegaZ() []approximation.Point2D {
	return []approximation.Point2D{
		approximation.NewPoint2D(0.0, -13.0),
		approximation.NewPoint2D(0.2, -13.1),
		approximation.NewPoint2D(0.4, -13.2),
		approximation.NewPoint2D(0.6, -13.7),
		approximation.NewPoint2D(0.8, -14.7),
		approximation.NewPoint2D(0.9, -15.9),
		approximation.NewPoint2D(1.0, -14.2),
	}
}

// MxDeltaH returns the rolling moment samples
func MxDeltaH() []approximation.Point2D {
	return []approximation.Point2D{
		approximation.NewPoint2D(0.6, -0.0004),
		approximation.NewPoint2D(0.7, -0.000399),
		approximation.NewPoint2D(0.8, -0.000399),
		approximation.NewPoint2D(0.9, -0.00032),
		approximation.NewPoint2D(1.0, -0.00026),
		approximation.NewPoint2D(1.05, -0.000255),
	}
}

// All returns the built-in datasets in catalog order. Each call returns
// fresh copies.
func All() []DataSet {
	return []DataSet{
		{Name: "MzOmegaZ", Description: "Pitching moment damping Mz(ωz)", Points: MzOmegaZ()},
		{Name: "MxDeltaH", Description: "Rolling moment Mx(δh)", Points: MxDeltaH()},
	}
}

// Names returns the names of sets in order
func Names(sets []DataSet) []string {
	names := make([]string, len(sets))
	for i, s := range sets {
		names[i] = s.Name
	}
	return names
}

// Find returns the dataset in sets whose name matches, ignoring case
func Find(sets []DataSet, name string) (DataSet, error) {
	for _, s := range sets {
		if strings.EqualFold(s.Name, name) {
			return s.Clone(), nil
		}
	}
	return DataSet{}, fmt.Errorf("%w: %q", ErrDataSetNotFound, name)
}

// Lookup returns the built-in dataset with the given name, ignoring case
func Lookup(name string) (DataSet, error) {
	return Find(All(), name)
}

// Validate checks that every dataset has a unique, non-empty name
func Validate(sets []DataSet) error {
	seen := make(map[string]struct{}, len(sets))
	for i, s := range sets {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return fmt.Errorf("%w: dataset %d has no name", ErrInvalidDataSet, i)
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidDataSet, s.Name)
		}
		seen[key] = struct{}{}
	}
	return nil
}
