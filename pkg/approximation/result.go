package approximation

import (
	"math"
	"strconv"
	"strings"
)

const (
	// NegligibleTermThreshold is the coefficient magnitude at or below which
	// a term is left out of the rendered equation.
	NegligibleTermThreshold = 1e-10

	// DefaultEquationPrecision is the number of decimals used by String.
	DefaultEquationPrecision = 4
)

// PolynomialResult is a fitted quadratic y = A + B·x + C·x² together with
// its goodness-of-fit statistics.
type PolynomialResult struct {
	// A is the constant term
	A float64 `yaml:"a"`

	// B is the coefficient of x
	B float64 `yaml:"b"`

	// C is the coefficient of x²
	C float64 `yaml:"c"`

	// RSquared is the coefficient of determination. It is 0 when the
	// sample Y values have no variance and may be negative for fits worse
	// than the mean.
	RSquared float64 `yaml:"rSquared"`

	// RootMeanSquareError is sqrt(RSS / n)
	RootMeanSquareError float64 `yaml:"rmse"`
}

// EvaluateAt returns A + B·x + C·x²
func (r *PolynomialResult) EvaluateAt(x float64) float64 {
	return r.A + r.B*x + r.C*x*x
}

// Coefficients returns [A, B, C]
func (r *PolynomialResult) Coefficients() []float64 {
	return []float64{r.A, r.B, r.C}
}

// String renders the equation with four decimals, e.g.
// "y = -12.8537 - 1.1745x - 1.0777x²".
func (r *PolynomialResult) String() string {
	return r.Equation(DefaultEquationPrecision)
}

// Equation renders the equation with the given number of decimals.
func (r *PolynomialResult) Equation(precision int) string {
	return r.FormatEquation(precision, NegligibleTermThreshold)
}

// FormatEquation renders the equation, leaving out every term whose
// coefficient magnitude is not above negligible. Terms after the first carry
// an explicit "+" or "-" and their magnitude; "0" is rendered only when no
// term remains. NaN coefficients are always rendered.
func (r *PolynomialResult) FormatEquation(precision int, negligible float64) string {
	if precision < 0 {
		precision = 0
	}

	terms := []struct {
		coef   float64
		suffix string
	}{
		{r.A, ""},
		{r.B, "x"},
		{r.C, "x²"},
	}

	var sb strings.Builder
	sb.WriteString("y = ")

	rendered := 0
	for _, term := range terms {
		if !math.IsNaN(term.coef) && !(math.Abs(term.coef) > negligible) {
			continue
		}

		if rendered == 0 {
			sb.WriteString(strconv.FormatFloat(term.coef, 'f', precision, 64))
		} else {
			if term.coef < 0 {
				sb.WriteString(" - ")
			} else {
				sb.WriteString(" + ")
			}
			sb.WriteString(strconv.FormatFloat(math.Abs(term.coef), 'f', precision, 64))
		}
		sb.WriteString(term.suffix)
		rendered++
	}

	if rendered == 0 {
		sb.WriteString("0")
	}

	return sb.String()
}
