package approximation

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// calculateStatistics returns R² and RMSE of the fitted model over points.
// R² is 0 when the total sum of squares does not exceed varianceThreshold.
func calculateStatistics(points []Point2D, model *PolynomialResult, varianceThreshold float64) (rSquared, rmse float64) {
	if len(points) == 0 {
		return 0, 0
	}

	meanY := stat.Mean(YValues(points), nil)

	totalSumSquares := 0.0    // Σ(yi - ȳ)²
	residualSumSquares := 0.0 // Σ(yi - ŷi)²

	for _, p := range points {
		residual := p.Y - model.EvaluateAt(p.X)
		deviation := p.Y - meanY

		totalSumSquares += deviation * deviation
		residualSumSquares += residual * residual
	}

	if totalSumSquares > varianceThreshold {
		rSquared = 1.0 - residualSumSquares/totalSumSquares
	}

	rmse = math.Sqrt(residualSumSquares / float64(len(points)))

	return rSquared, rmse
}
