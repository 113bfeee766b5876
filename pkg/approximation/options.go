package approximation

import (
	"github.com/rs/zerolog"

	"quadfit/pkg/linalg"
)

// DefaultVarianceThreshold is the total sum of squares at or below which the
// sample is treated as having no variance and R² is reported as 0.
const DefaultVarianceThreshold = 1e-12

// Option configures a LeastSquaresFitter.
type Option func(*LeastSquaresFitter)

// WithSingularityThreshold sets the smallest pivot magnitude the solver
// accepts. Non-positive values keep the default.
func WithSingularityThreshold(threshold float64) Option {
	return func(f *LeastSquaresFitter) {
		if threshold > 0 {
			f.singularityThreshold = threshold
		}
	}
}

// WithVarianceThreshold sets the degeneracy threshold used for R².
// Non-positive values keep the default.
func WithVarianceThreshold(threshold float64) Option {
	return func(f *LeastSquaresFitter) {
		if threshold > 0 {
			f.varianceThreshold = threshold
		}
	}
}

// WithLogger attaches a logger. Fits are only logged at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(f *LeastSquaresFitter) {
		f.logger = &logger
	}
}

func (f *LeastSquaresFitter) pivotThreshold() float64 {
	if f.singularityThreshold > 0 {
		return f.singularityThreshold
	}
	return linalg.DefaultPivotThreshold
}

func (f *LeastSquaresFitter) varianceLimit() float64 {
	if f.varianceThreshold > 0 {
		return f.varianceThreshold
	}
	return DefaultVarianceThreshold
}

func (f *LeastSquaresFitter) log() *zerolog.Logger {
	if f.logger != nil {
		return f.logger
	}
	nop := zerolog.Nop()
	return &nop
}
