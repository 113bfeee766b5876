package approximation

import "gonum.org/v1/gonum/floats"

// Point2D is a single (x, y) sample
type Point2D struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// NewPoint2D creates a point from its coordinates
func NewPoint2D(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// XValues returns the x coordinates of points in order
func XValues(points []Point2D) []float64 {
	xs := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
	}
	return xs
}

// YValues returns the y coordinates of points in order
func YValues(points []Point2D) []float64 {
	ys := make([]float64, len(points))
	for i, p := range points {
		ys[i] = p.Y
	}
	return ys
}

// ExtendRange widens [minX, maxX] by fraction of its width on each side
func ExtendRange(minX, maxX, fraction float64) (float64, float64) {
	pad := (maxX - minX) * fraction
	return minX - pad, maxX + pad
}

// XRange returns the smallest and largest x of points. ok is false for an
// empty slice.
func XRange(points []Point2D) (minX, maxX float64, ok bool) {
	if len(points) == 0 {
		return 0, 0, false
	}
	xs := XValues(points)
	return floats.Min(xs), floats.Max(xs), true
}
