// Package linalg provides the dense linear-system solver used by the
// least-squares fitter, together with a few gonum-backed diagnostics.
package linalg

import (
	"errors"
	"fmt"
	"math"
)

// DefaultPivotThreshold is the smallest pivot magnitude accepted during
// forward elimination.
const DefaultPivotThreshold = 1e-12

var (
	// ErrSingular is returned when a pivot falls below the threshold.
	ErrSingular = errors.New("system is singular or ill-conditioned")

	// ErrDimensionMismatch is returned for non-square matrices or a
	// right-hand side whose length does not match the matrix.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// Solve solves matrix·x = rhs using Gaussian elimination with partial
// pivoting and the default pivot threshold.
func Solve(matrix [][]float64, rhs []float64) ([]float64, error) {
	return SolveWithThreshold(matrix, rhs, DefaultPivotThreshold)
}

// SolveWithThreshold is Solve with an explicit pivot threshold.
// The inputs are left untouched; elimination runs on an augmented copy.
func SolveWithThreshold(matrix [][]float64, rhs []float64, threshold float64) ([]float64, error) {
	n := len(rhs)
	if err := checkShape(matrix, n); err != nil {
		return nil, err
	}

	// Augmented n x (n+1) matrix
	aug := make([][]float64, n)
	for i := 0; i < n; i++ {
		aug[i] = make([]float64, n+1)
		copy(aug[i], matrix[i])
		aug[i][n] = rhs[i]
	}

	// Forward elimination with partial pivoting
	for k := 0; k < n; k++ {
		maxRow := k
		for i := k + 1; i < n; i++ {
			if math.Abs(aug[i][k]) > math.Abs(aug[maxRow][k]) {
				maxRow = i
			}
		}

		if maxRow != k {
			aug[k], aug[maxRow] = aug[maxRow], aug[k]
		}

		pivot := aug[k][k]
		if math.Abs(pivot) < threshold {
			return nil, fmt.Errorf("%w: pivot %g in column %d", ErrSingular, pivot, k)
		}

		for i := k + 1; i < n; i++ {
			factor := aug[i][k] / pivot
			for j := k; j <= n; j++ {
				aug[i][j] -= factor * aug[k][j]
			}
		}
	}

	// Back substitution
	solution := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		solution[i] = aug[i][n]
		for j := i + 1; j < n; j++ {
			solution[i] -= aug[i][j] * solution[j]
		}
		solution[i] /= aug[i][i]
	}

	return solution, nil
}

func checkShape(matrix [][]float64, n int) error {
	if n == 0 {
		return fmt.Errorf("%w: empty system", ErrDimensionMismatch)
	}
	if len(matrix) != n {
		return fmt.Errorf("%w: matrix has %d rows, rhs has %d entries", ErrDimensionMismatch, len(matrix), n)
	}
	for i, row := range matrix {
		if len(row) != n {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrDimensionMismatch, i, len(row), n)
		}
	}
	return nil
}
