package linalg

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ConditionNumber returns the 2-norm condition number of a square matrix.
// Singular matrices report +Inf.
func ConditionNumber(matrix [][]float64) (float64, error) {
	if err := checkShape(matrix, len(matrix)); err != nil {
		return 0, err
	}
	return mat.Cond(toDense(matrix), 2), nil
}

// ResidualNorm returns ||matrix·solution - rhs||₂, the residual left by a
// solve.
func ResidualNorm(matrix [][]float64, rhs, solution []float64) (float64, error) {
	n := len(rhs)
	if err := checkShape(matrix, n); err != nil {
		return 0, err
	}
	if len(solution) != n {
		return 0, fmt.Errorf("%w: solution has %d entries, want %d", ErrDimensionMismatch, len(solution), n)
	}

	x := mat.NewVecDense(n, append([]float64(nil), solution...))
	b := mat.NewVecDense(n, append([]float64(nil), rhs...))

	var r mat.VecDense
	r.MulVec(toDense(matrix), x)
	r.SubVec(&r, b)

	return mat.Norm(&r, 2), nil
}

// toDense flattens a row-major slice-of-slices into a gonum matrix.
func toDense(matrix [][]float64) *mat.Dense {
	n := len(matrix)
	flat := make([]float64, 0, n*n)
	for _, row := range matrix {
		flat = append(flat, row...)
	}
	return mat.NewDense(n, n, flat)
}
