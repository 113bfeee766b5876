// Package approximation fits quadratic polynomials to 2-D samples with the
// method of least squares and generates sampled curves from the fit.
//
// The model is y = A + B·x + C·x². Fit assembles the 3x3 normal equations
// from seven running sums, solves them with Gaussian elimination (see
// package linalg) and reports R² and RMSE for the fitted model.
package approximation

import (
	"fmt"

	"github.com/rs/zerolog"

	"quadfit/pkg/linalg"
)

const (
	// MinPoints is the number of points a quadratic fit needs
	MinPoints = 3

	// DefaultCurvePoints is the point count used by GenerateCurve
	DefaultCurvePoints = 200
)

// LeastSquaresFitter fits quadratic polynomials. It keeps no per-call state,
// so a single instance can serve concurrent callers. The zero value is ready
// to use with default thresholds.
type LeastSquaresFitter struct {
	singularityThreshold float64
	varianceThreshold    float64
	logger               *zerolog.Logger
}

// NewLeastSquaresFitter creates a fitter with the given options applied
func NewLeastSquaresFitter(opts ...Option) *LeastSquaresFitter {
	f := &LeastSquaresFitter{
		singularityThreshold: linalg.DefaultPivotThreshold,
		varianceThreshold:    DefaultVarianceThreshold,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// normalEquations holds the linear system for y = a + b·x + c·x²
type normalEquations struct {
	matrix [][]float64
	rhs    []float64
}

// buildNormalEquations accumulates the power sums of the sample and lays them
// out as
//
//	[ n    Σx   Σx² ]   [a]   [Σy  ]
//	[ Σx   Σx²  Σx³ ] · [b] = [Σxy ]
//	[ Σx²  Σx³  Σx⁴ ]   [c]   [Σx²y]
func buildNormalEquations(points []Point2D) normalEquations {
	var sumX, sumX2, sumX3, sumX4 float64
	var sumY, sumXY, sumX2Y float64

	for _, p := range points {
		x, y := p.X, p.Y
		x2 := x * x
		x3 := x2 * x
		x4 := x3 * x

		sumX += x
		sumX2 += x2
		sumX3 += x3
		sumX4 += x4
		sumY += y
		sumXY += x * y
		sumX2Y += x2 * y
	}

	n := float64(len(points))
	return normalEquations{
		matrix: [][]float64{
			{n, sumX, sumX2},
			{sumX, sumX2, sumX3},
			{sumX2, sumX3, sumX4},
		},
		rhs: []float64{sumY, sumXY, sumX2Y},
	}
}

// Fit computes the least-squares quadratic through points.
//
// A nil slice fails with ErrNilPoints and fewer than MinPoints points with
// ErrInsufficientPoints; both match ErrInvalidInput. A normal-equation matrix
// that cannot be solved (for example when all x values coincide) fails with
// ErrSingularSystem.
func (f *LeastSquaresFitter) Fit(points []Point2D) (*PolynomialResult, error) {
	if points == nil {
		return nil, ErrNilPoints
	}
	if len(points) < MinPoints {
		return nil, fmt.Errorf("%w: need at least %d, got %d", ErrInsufficientPoints, MinPoints, len(points))
	}

	eq := buildNormalEquations(points)

	coefficients, err := linalg.SolveWithThreshold(eq.matrix, eq.rhs, f.pivotThreshold())
	if err != nil {
		f.log().Debug().Err(err).Int("points", len(points)).Msg("normal equations not solvable")
		return nil, fmt.Errorf("solving normal equations: %w", err)
	}

	result := &PolynomialResult{
		A: coefficients[0],
		B: coefficients[1],
		C: coefficients[2],
	}
	result.RSquared, result.RootMeanSquareError = calculateStatistics(points, result, f.varianceLimit())

	if e := f.log().Debug(); e.Enabled() {
		cond, condErr := linalg.ConditionNumber(eq.matrix)
		residual, residualErr := linalg.ResidualNorm(eq.matrix, eq.rhs, coefficients)
		e.Int("points", len(points)).
			Float64("a", result.A).
			Float64("b", result.B).
			Float64("c", result.C).
			Float64("r_squared", result.RSquared).
			Float64("rmse", result.RootMeanSquareError).
			Float64("condition", cond).
			Float64("residual", residual).
			AnErr("condition_error", condErr).
			AnErr("residual_error", residualErr).
			Msg("quadratic fit")
	}

	return result, nil
}

// GeneratePolynomialPoints samples result at count evenly spaced x values
// from minX to maxX inclusive, step (maxX-minX)/(count-1). A single point is
// placed at minX.
func (f *LeastSquaresFitter) GeneratePolynomialPoints(result *PolynomialResult, minX, maxX float64, count int) ([]Point2D, error) {
	if result == nil {
		return nil, ErrNilResult
	}
	if count <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPointCount, count)
	}
	if !(maxX > minX) {
		return nil, fmt.Errorf("%w: range [%g, %g]", ErrInvalidRange, minX, maxX)
	}

	points := make([]Point2D, count)
	if count == 1 {
		points[0] = Point2D{X: minX, Y: result.EvaluateAt(minX)}
		return points, nil
	}

	step := (maxX - minX) / float64(count-1)
	for i := 0; i < count; i++ {
		x := minX + float64(i)*step
		points[i] = Point2D{X: x, Y: result.EvaluateAt(x)}
	}

	return points, nil
}

// GenerateCurve is GeneratePolynomialPoints with DefaultCurvePoints points
func (f *LeastSquaresFitter) GenerateCurve(result *PolynomialResult, minX, maxX float64) ([]Point2D, error) {
	return f.GeneratePolynomialPoints(result, minX, maxX, DefaultCurvePoints)
}
