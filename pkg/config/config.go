// Package config provides configuration loading and management for quadfit.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// MinCurvePoints and MaxCurvePoints bound the sampled curve density
	MinCurvePoints = 11
	MaxCurvePoints = 1000
)

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("invalid configuration")

// Approximation holds the numerical settings of the fitter
type Approximation struct {
	// CurvePoints is the number of points sampled along the fitted curve
	CurvePoints int `yaml:"curvePoints"`

	// SingularityThreshold is the smallest pivot magnitude accepted by the solver
	SingularityThreshold float64 `yaml:"singularityThreshold"`

	// VarianceThreshold is the total sum of squares below which R² is reported as 0
	VarianceThreshold float64 `yaml:"varianceThreshold"`

	// NegligibleTermThreshold hides equation terms with smaller coefficients
	NegligibleTermThreshold float64 `yaml:"negligibleTermThreshold"`

	// CoefficientPrecision is the number of decimals printed for A, B, C and RMSE
	CoefficientPrecision int `yaml:"coefficientPrecision"`

	// EquationPrecision is the number of decimals used in the equation
	EquationPrecision int `yaml:"equationPrecision"`
}

// Logging controls the structured logger
type Logging struct {
	// Level is a zerolog level name (debug, info, warn, error)
	Level string `yaml:"level"`

	// Format is "console" or "json"
	Format string `yaml:"format"`

	// Output is "stdout", "stderr" or a file path
	Output string `yaml:"output"`
}

// Plot holds the raster plot dimensions in pixels and the curve range
type Plot struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Margin int `yaml:"margin"`

	// CurveExtension widens the sampled curve beyond the data on each side,
	// as a fraction of the x range
	CurveExtension float64 `yaml:"curveExtension"`
}

// Config represents the application configuration loaded from YAML
type Config struct {
	Approximation Approximation `yaml:"approximation"`

	Logging Logging `yaml:"logging"`

	Plot Plot `yaml:"plot"`

	// Output parameters
	Output struct {
		// Verbose prints the input points next to the fit
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Approximation.CurvePoints = 200
	cfg.Approximation.SingularityThreshold = 1e-12
	cfg.Approximation.VarianceThreshold = 1e-12
	cfg.Approximation.NegligibleTermThreshold = 1e-10
	cfg.Approximation.CoefficientPrecision = 6
	cfg.Approximation.EquationPrecision = 4

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "console"
	cfg.Logging.Output = "stderr"

	cfg.Plot.Width = 800
	cfg.Plot.Height = 600
	cfg.Plot.Margin = 40
	cfg.Plot.CurveExtension = 0.1

	cfg.Output.Verbose = false

	return cfg
}

// Validate reports the first setting that cannot be used
func (c *Config) Validate() error {
	a := c.Approximation
	if a.CurvePoints < MinCurvePoints || a.CurvePoints > MaxCurvePoints {
		return fmt.Errorf("%w: curvePoints must be in [%d, %d], got %d",
			ErrInvalidConfig, MinCurvePoints, MaxCurvePoints, a.CurvePoints)
	}
	if !(a.SingularityThreshold > 0) {
		return fmt.Errorf("%w: singularityThreshold must be positive", ErrInvalidConfig)
	}
	if !(a.VarianceThreshold > 0) {
		return fmt.Errorf("%w: varianceThreshold must be positive", ErrInvalidConfig)
	}
	if a.NegligibleTermThreshold < 0 {
		return fmt.Errorf("%w: negligibleTermThreshold must not be negative", ErrInvalidConfig)
	}
	if a.CoefficientPrecision < 0 || a.EquationPrecision < 0 {
		return fmt.Errorf("%w: precision must not be negative", ErrInvalidConfig)
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: unknown logging format %q", ErrInvalidConfig, c.Logging.Format)
	}

	p := c.Plot
	if p.Width <= 0 || p.Height <= 0 || p.Margin < 0 || 2*p.Margin >= p.Width || 2*p.Margin >= p.Height {
		return fmt.Errorf("%w: plot %dx%d with margin %d", ErrInvalidConfig, p.Width, p.Height, p.Margin)
	}
	if !(p.CurveExtension >= 0) || math.IsInf(p.CurveExtension, 1) {
		return fmt.Errorf("%w: curveExtension must be a non-negative number, got %g", ErrInvalidConfig, p.CurveExtension)
	}

	return nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}
