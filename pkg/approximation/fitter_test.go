package approximation

import (
	"bytes"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quadfit/pkg/linalg"
)

// mzOmegaZ is the seven point aerodynamic dataset used as a regression baseline
var mzOmegaZ = []Point2D{
	{0.0, -13.0},
	{0.2, -13.1},
	{0.4, -13.2},
	{0.6, -13.7},
	{0.8, -14.7},
	{0.9, -15.9},
	{1.0, -14.2},
}

// sampleQuadratic creates points on y = a + b·x + c·x² for the given x values
func sampleQuadratic(a, b, c float64, xs ...float64) []Point2D {
	points := make([]Point2D, len(xs))
	for i, x := range xs {
		points[i] = Point2D{X: x, Y: a + b*x + c*x*x}
	}
	return points
}

// TestFitRecoversKnownQuadratics verifies exact recovery for noiseless samples
func TestFitRecoversKnownQuadratics(t *testing.T) {
	tests := map[string]struct {
		a, b, c float64
		xs      []float64
	}{
		"parabola through origin": {a: 0, b: 0, c: 1, xs: []float64{-2, -1, 0, 1, 2}},
		"mixed signs":             {a: 2, b: -3, c: 0.5, xs: []float64{-5, -4, -3, -2, -1, 0, 1, 2, 3, 4, 5}},
		"straight line":           {a: -1, b: 4, c: 0, xs: []float64{0, 1, 2, 3}},
		"unsorted input":          {a: 10, b: 0.25, c: -2, xs: []float64{3, -1, 0.5, 2, -2.5}},
		"fractional x":            {a: -0.5, b: 1.5, c: 7, xs: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}},
	}

	fitter := NewLeastSquaresFitter()
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			result, err := fitter.Fit(sampleQuadratic(tt.a, tt.b, tt.c, tt.xs...))
			require.NoError(t, err)

			assert.InDelta(t, tt.a, result.A, 1e-8)
			assert.InDelta(t, tt.b, result.B, 1e-8)
			assert.InDelta(t, tt.c, result.C, 1e-8)
			assert.InDelta(t, 1.0, result.RSquared, 1e-9)
			assert.InDelta(t, 0.0, result.RootMeanSquareError, 1e-8)
		})
	}
}

// TestFitExactInterpolation checks that three points with distinct x are
// interpolated exactly
func TestFitExactInterpolation(t *testing.T) {
	result, err := NewLeastSquaresFitter().Fit([]Point2D{{0, 1}, {1, 2}, {2, 5}})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, result.A, 1e-9)
	assert.InDelta(t, 0.0, result.B, 1e-9)
	assert.InDelta(t, 1.0, result.C, 1e-9)
	assert.InDelta(t, 1.0, result.RSquared, 1e-9)
	assert.InDelta(t, 0.0, result.RootMeanSquareError, 1e-9)
}

// TestFitRegressionBaseline pins the results for the MzOmegaZ dataset
func TestFitRegressionBaseline(t *testing.T) {
	fitter := NewLeastSquaresFitter()

	for run := 0; run < 3; run++ {
		result, err := fitter.Fit(mzOmegaZ)
		require.NoError(t, err)

		assert.InDelta(t, -12.853652730747323, result.A, 1e-9)
		assert.InDelta(t, -1.1744895564421123, result.B, 1e-9)
		assert.InDelta(t, -1.0777148221410371, result.C, 1e-9)
		assert.InDelta(t, 0.65770564019636479, result.RSquared, 1e-9)
		assert.InDelta(t, 0.5712855622838694, result.RootMeanSquareError, 1e-9)
	}
}

// TestFitSmallMagnitudes pins the MxDeltaH dataset, whose values are around 1e-4
func TestFitSmallMagnitudes(t *testing.T) {
	points := []Point2D{
		{0.6, -0.0004},
		{0.7, -0.000399},
		{0.8, -0.000399},
		{0.9, -0.00032},
		{1.0, -0.00026},
		{1.05, -0.000255},
	}

	result, err := NewLeastSquaresFitter().Fit(points)
	require.NoError(t, err)

	assert.InDelta(t, -3.7855202063731899e-05, result.A, 1e-12)
	assert.InDelta(t, -0.001168437661220721, result.B, 1e-12)
	assert.InDelta(t, 0.00093009458297490806, result.C, 1e-12)
	assert.InDelta(t, 0.94896783793566619, result.RSquared, 1e-9)
	assert.InDelta(t, 1.4458624911674219e-05, result.RootMeanSquareError, 1e-12)
}

// TestFitZeroVariance verifies R² is exactly zero when all Y values match
func TestFitZeroVariance(t *testing.T) {
	result, err := NewLeastSquaresFitter().Fit([]Point2D{{0, 5}, {1, 5}, {2, 5}, {3, 5}})
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.RSquared)
	assert.False(t, math.IsNaN(result.RSquared))
	assert.InDelta(t, 5.0, result.A, 1e-9)
	assert.InDelta(t, 0.0, result.B, 1e-9)
	assert.InDelta(t, 0.0, result.C, 1e-9)
	assert.InDelta(t, 0.0, result.RootMeanSquareError, 1e-9)
}

// TestFitVarianceThreshold checks that a nearly flat sample counts as having
// no variance once the threshold is raised above its total sum of squares
func TestFitVarianceThreshold(t *testing.T) {
	points := []Point2D{{0, 1}, {1, 1 + 1e-4}, {2, 1}, {3, 1 + 1e-4}}

	result, err := NewLeastSquaresFitter().Fit(points)
	require.NoError(t, err)
	assert.Greater(t, result.RSquared, 0.0)

	result, err = NewLeastSquaresFitter(WithVarianceThreshold(1e-6)).Fit(points)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.RSquared)
}

func TestFitInvalidInput(t *testing.T) {
	tests := map[string]struct {
		points []Point2D
		want   error
	}{
		"nil":        {points: nil, want: ErrNilPoints},
		"empty":      {points: []Point2D{}, want: ErrInsufficientPoints},
		"one point":  {points: []Point2D{{1, 1}}, want: ErrInsufficientPoints},
		"two points": {points: []Point2D{{1, 1}, {2, 4}}, want: ErrInsufficientPoints},
	}

	fitter := NewLeastSquaresFitter()
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			result, err := fitter.Fit(tt.points)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.False(t, errors.Is(err, ErrSingularSystem))
		})
	}
}

func TestFitInsufficientPointsMessage(t *testing.T) {
	_, err := NewLeastSquaresFitter().Fit([]Point2D{{1, 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid input: insufficient points")
}

// TestFitSingularSystem verifies that samples sharing one x value are
// reported as numerical degeneracy, not invalid input
func TestFitSingularSystem(t *testing.T) {
	tests := map[string][]Point2D{
		"same x":          {{2, 1}, {2, 3}, {2, 5}},
		"two distinct x":  {{0, 1}, {0, 2}, {1, 3}, {1, 4}},
		"identical point": {{1, 1}, {1, 1}, {1, 1}},
	}

	fitter := NewLeastSquaresFitter()
	for name, points := range tests {
		t.Run(name, func(t *testing.T) {
			result, err := fitter.Fit(points)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, ErrSingularSystem)
			assert.ErrorIs(t, err, linalg.ErrSingular)
			assert.False(t, errors.Is(err, ErrInvalidInput))
		})
	}
}

func TestFitSingularityThreshold(t *testing.T) {
	_, err := NewLeastSquaresFitter(WithSingularityThreshold(1e6)).Fit(mzOmegaZ)
	assert.ErrorIs(t, err, ErrSingularSystem)

	// non-positive values keep the default
	_, err = NewLeastSquaresFitter(WithSingularityThreshold(-1)).Fit(mzOmegaZ)
	assert.NoError(t, err)
}

// TestFitZeroValueFitter checks that an unconfigured fitter uses the defaults
func TestFitZeroValueFitter(t *testing.T) {
	var fitter LeastSquaresFitter

	result, err := fitter.Fit(mzOmegaZ)
	require.NoError(t, err)
	assert.InDelta(t, -12.853652730747323, result.A, 1e-9)
}

func TestFitDoesNotMutateInput(t *testing.T) {
	points := append([]Point2D(nil), mzOmegaZ...)

	_, err := NewLeastSquaresFitter().Fit(points)
	require.NoError(t, err)
	assert.Equal(t, mzOmegaZ, points)
}

func TestFitPropagatesNaN(t *testing.T) {
	points := []Point2D{{0, 1}, {1, math.NaN()}, {2, 5}, {3, 10}}

	result, err := NewLeastSquaresFitter().Fit(points)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(result.A))
	assert.True(t, math.IsNaN(result.RootMeanSquareError))
}

// TestFitInfiniteSample checks that an infinite y value yields NaN
// coefficients that stay visible in the equation
func TestFitInfiniteSample(t *testing.T) {
	points := []Point2D{NewPoint2D(0, 1), NewPoint2D(1, 2), NewPoint2D(2, math.Inf(1))}

	result, err := NewLeastSquaresFitter().Fit(points)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(result.A))
	assert.True(t, math.IsNaN(result.B))
	assert.True(t, math.IsNaN(result.C))
	assert.Equal(t, "y = NaN + NaNx + NaNx²", result.String())
}

// TestFitConcurrent runs many fits on one fitter from several goroutines
func TestFitConcurrent(t *testing.T) {
	fitter := NewLeastSquaresFitter()
	want, err := fitter.Fit(mzOmegaZ)
	require.NoError(t, err)

	const workers = 16
	results := make([]*PolynomialResult, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				results[i], errs[i] = fitter.Fit(mzOmegaZ)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, want, results[i])
	}
}

func TestFitLogsAtDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	_, err := NewLeastSquaresFitter(WithLogger(logger)).Fit(mzOmegaZ)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "quadratic fit")
	assert.Contains(t, out, `"points":7`)
	assert.Contains(t, out, `"condition"`)
	assert.NotContains(t, out, "condition_error")
	assert.NotContains(t, out, "residual_error")

	buf.Reset()
	_, err = NewLeastSquaresFitter(WithLogger(logger.Level(zerolog.InfoLevel))).Fit(mzOmegaZ)
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestGeneratePolynomialPoints(t *testing.T) {
	fitter := NewLeastSquaresFitter()
	result := &PolynomialResult{A: 1, B: -2, C: 0.5}

	points, err := fitter.GeneratePolynomialPoints(result, 0, 10, 5)
	require.NoError(t, err)
	require.Len(t, points, 5)

	wantX := []float64{0, 2.5, 5, 7.5, 10}
	for i, p := range points {
		assert.Equal(t, wantX[i], p.X)
		assert.Equal(t, result.EvaluateAt(p.X), p.Y)
	}
}

func TestGeneratePolynomialPointsEdgeCases(t *testing.T) {
	fitter := NewLeastSquaresFitter()
	result := &PolynomialResult{A: 3, B: 1, C: 2}

	t.Run("single point", func(t *testing.T) {
		points, err := fitter.GeneratePolynomialPoints(result, -1, 1, 1)
		require.NoError(t, err)
		require.Len(t, points, 1)
		assert.Equal(t, Point2D{X: -1, Y: 4}, points[0])
	})

	t.Run("two points hit both ends", func(t *testing.T) {
		points, err := fitter.GeneratePolynomialPoints(result, -1, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, []Point2D{{X: -1, Y: 4}, {X: 1, Y: 6}}, points)
	})

	t.Run("default count", func(t *testing.T) {
		points, err := fitter.GenerateCurve(result, 0, 1)
		require.NoError(t, err)
		require.Len(t, points, DefaultCurvePoints)
		assert.Equal(t, 0.0, points[0].X)
		assert.InDelta(t, 1.0, points[len(points)-1].X, 1e-12)

		for i := 1; i < len(points); i++ {
			assert.Greater(t, points[i].X, points[i-1].X)
		}
	})
}

func TestGeneratePolynomialPointsInvalid(t *testing.T) {
	fitter := NewLeastSquaresFitter()
	result := &PolynomialResult{A: 1}

	tests := map[string]struct {
		result     *PolynomialResult
		minX, maxX float64
		count      int
		want       error
	}{
		"nil result":     {result: nil, minX: 0, maxX: 1, count: 10, want: ErrNilResult},
		"zero count":     {result: result, minX: 0, maxX: 1, count: 0, want: ErrInvalidPointCount},
		"negative count": {result: result, minX: 0, maxX: 1, count: -5, want: ErrInvalidPointCount},
		"empty range":    {result: result, minX: 1, maxX: 1, count: 10, want: ErrInvalidRange},
		"reversed range": {result: result, minX: 2, maxX: 1, count: 10, want: ErrInvalidRange},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			points, err := fitter.GeneratePolynomialPoints(tt.result, tt.minX, tt.maxX, tt.count)
			assert.Nil(t, points)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestXRange(t *testing.T) {
	minX, maxX, ok := XRange(mzOmegaZ)
	require.True(t, ok)
	assert.Equal(t, 0.0, minX)
	assert.Equal(t, 1.0, maxX)

	_, _, ok = XRange(nil)
	assert.False(t, ok)
}

func TestExtendRange(t *testing.T) {
	lo, hi := ExtendRange(0, 1, 0.1)
	assert.InDelta(t, -0.1, lo, 1e-15)
	assert.InDelta(t, 1.1, hi, 1e-15)

	lo, hi = ExtendRange(0.6, 1.05, 0)
	assert.Equal(t, 0.6, lo)
	assert.Equal(t, 1.05, hi)
}

func TestNewPoint2D(t *testing.T) {
	assert.Equal(t, Point2D{X: 1.5, Y: -2}, NewPoint2D(1.5, -2))
}
