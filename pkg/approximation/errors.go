package approximation

import (
	"errors"
	"fmt"

	"quadfit/pkg/linalg"
)

var (
	// ErrInvalidInput is the root of every rejected-argument error.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNilPoints is returned when Fit receives a nil point slice.
	ErrNilPoints = fmt.Errorf("%w: points are nil", ErrInvalidInput)

	// ErrInsufficientPoints is returned when fewer than MinPoints points are given.
	ErrInsufficientPoints = fmt.Errorf("%w: insufficient points", ErrInvalidInput)

	// ErrNilResult is returned when a curve is requested for a nil result.
	ErrNilResult = fmt.Errorf("%w: result is nil", ErrInvalidInput)

	// ErrInvalidPointCount is returned for a non-positive curve point count.
	ErrInvalidPointCount = fmt.Errorf("%w: point count must be positive", ErrInvalidInput)

	// ErrInvalidRange is returned when maxX does not exceed minX.
	ErrInvalidRange = fmt.Errorf("%w: maxX must be greater than minX", ErrInvalidInput)

	// ErrSingularSystem reports a normal-equation matrix that could not be
	// solved. It matches linalg.ErrSingular with errors.Is.
	ErrSingularSystem = linalg.ErrSingular
)
