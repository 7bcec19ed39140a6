package stats

import "gonum.org/v1/gonum/stat"

// LinearFit is a least-squares fit of y against x.
type LinearFit struct {
	Slope     float64
	Intercept float64
	R2        float64
}

// FitLinear fits y = Intercept + Slope*x. ok is false when fewer than 2
// points or no variation in x, where the regression is undefined.
func FitLinear(xs, ys []float64) (LinearFit, bool) {
	if len(xs) < 2 || len(xs) != len(ys) {
		return LinearFit{}, false
	}
	varies := false
	for _, x := range xs[1:] {
		if x != xs[0] {
			varies = true
			break
		}
	}
	if !varies {
		return LinearFit{}, false
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return LinearFit{
		Slope:     beta,
		Intercept: alpha,
		R2:        stat.RSquared(xs, ys, nil, alpha, beta),
	}, true
}

// Predict evaluates the fitted line at x.
func (f LinearFit) Predict(x float64) float64 {
	return f.Intercept + f.Slope*x
}
