package ml

import (
	"errors"
	"fmt"
)

const (
	KindLogisticRegression = "logistic_regression"
	KindLinearSVC          = "linear_svc"
)

// LinearClassifier holds the fitted parameters of a linear decision function.
// Binary models carry one coefficient row; multi-class models carry one row
// per class and predict the class with the highest score.
type LinearClassifier struct {
	kind         string
	FeatureNames []string    `json:"feature_names,omitempty"`
	Classes      []int       `json:"classes"`
	Coef         [][]float64 `json:"coef"`
	Intercept    []float64   `json:"intercept"`
}

func (m *LinearClassifier) Kind() string {
	if m.kind == "" {
		return KindLogisticRegression
	}
	return m.kind
}

func (m *LinearClassifier) width() int {
	if len(m.Coef) == 0 {
		return 0
	}
	return len(m.Coef[0])
}

func (m *LinearClassifier) check() error {
	if len(m.Classes) < 2 {
		return fmt.Errorf("need at least 2 classes, got %d", len(m.Classes))
	}
	if len(m.Coef) == 0 {
		return errors.New("coef is empty")
	}
	rows := len(m.Coef)
	if len(m.Classes) == 2 && rows != 1 {
		return fmt.Errorf("binary model needs 1 coef row, got %d", rows)
	}
	if len(m.Classes) > 2 && rows != len(m.Classes) {
		return fmt.Errorf("%d classes need %d coef rows, got %d", len(m.Classes), len(m.Classes), rows)
	}
	if len(m.Intercept) != rows {
		return fmt.Errorf("coef has %d rows but intercept has %d values", rows, len(m.Intercept))
	}
	for i, row := range m.Coef {
		if len(row) != m.width() {
			return fmt.Errorf("coef row %d has %d values, want %d", i, len(row), m.width())
		}
	}
	return checkFittedNames(m.FeatureNames, m.width())
}

func (m *LinearClassifier) Predict(record Record) (int, error) {
	if len(m.Coef) == 0 {
		return 0, errors.New("model not fitted")
	}
	if err := checkColumns(m.FeatureNames, m.width(), record); err != nil {
		return 0, err
	}
	if len(m.Coef) == 1 {
		if m.score(0, record.Values) > 0 {
			return m.Classes[1], nil
		}
		return m.Classes[0], nil
	}

	best := 0
	bestScore := m.score(0, record.Values)
	for i := 1; i < len(m.Coef); i++ {
		if score := m.score(i, record.Values); score > bestScore {
			best = i
			bestScore = score
		}
	}
	return m.Classes[best], nil
}

func (m *LinearClassifier) score(row int, values []float64) float64 {
	sum := m.Intercept[row]
	for i, weight := range m.Coef[row] {
		sum += weight * values[i]
	}
	return sum
}
