package ml

import "fmt"

// LinearRegression computes Intercept + sum(coef_i * x_i) over the encoded columns.
// Columns without a coefficient contribute nothing.
type LinearRegression struct {
	Intercept    float64
	coefficients []float64
}

func newLinearRegression(spec LinearSpec, columns []string) (*LinearRegression, error) {
	known := make(map[string]bool, len(columns))
	for _, name := range columns {
		known[name] = true
	}
	for _, name := range sortedKeys(spec.Coefficients) {
		if !known[name] {
			return nil, fmt.Errorf("coefficient for unknown column %q", name)
		}
	}
	coefs := make([]float64, len(columns))
	for i, name := range columns {
		coefs[i] = spec.Coefficients[name]
	}
	return &LinearRegression{Intercept: spec.Intercept, coefficients: coefs}, nil
}

func (m *LinearRegression) Predict(features []float64) (float64, error) {
	if len(features) != len(m.coefficients) {
		return 0, fmt.Errorf("expected %d encoded features, got %d", len(m.coefficients), len(features))
	}
	score := m.Intercept
	for i, x := range features {
		score += m.coefficients[i] * x
	}
	return score, nil
}
