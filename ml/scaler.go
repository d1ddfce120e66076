package ml

import (
	"errors"
	"fmt"
)

const (
	KindStandardScaler = "standard_scaler"
	KindMinMaxScaler   = "min_max_scaler"
	KindIdentity       = "identity"
)

// StandardScaler computes (x - mean) / scale per column.
type StandardScaler struct {
	FeatureNames []string  `json:"feature_names,omitempty"`
	Mean         []float64 `json:"mean"`
	Scale        []float64 `json:"scale"`
}

func (s *StandardScaler) Kind() string {
	return KindStandardScaler
}

func (s *StandardScaler) check() error {
	if len(s.Mean) == 0 {
		return errors.New("mean is empty")
	}
	if len(s.Scale) != len(s.Mean) {
		return fmt.Errorf("mean has %d values but scale has %d", len(s.Mean), len(s.Scale))
	}
	return checkFittedNames(s.FeatureNames, len(s.Mean))
}

func (s *StandardScaler) Transform(record Record) (Record, error) {
	if err := checkColumns(s.FeatureNames, len(s.Mean), record); err != nil {
		return Record{}, err
	}
	out := make([]float64, record.Len())
	for i, value := range record.Values {
		scale := s.Scale[i]
		// A constant column is fitted with scale 0; it is left unscaled.
		if scale == 0 {
			scale = 1
		}
		out[i] = (value - s.Mean[i]) / scale
	}
	return record.withValues(out), nil
}

// MinMaxScaler computes x * scale + min per column.
type MinMaxScaler struct {
	FeatureNames []string  `json:"feature_names,omitempty"`
	Min          []float64 `json:"min"`
	Scale        []float64 `json:"scale"`
}

func (s *MinMaxScaler) Kind() string {
	return KindMinMaxScaler
}

func (s *MinMaxScaler) check() error {
	if len(s.Scale) == 0 {
		return errors.New("scale is empty")
	}
	if len(s.Min) != len(s.Scale) {
		return fmt.Errorf("min has %d values but scale has %d", len(s.Min), len(s.Scale))
	}
	return checkFittedNames(s.FeatureNames, len(s.Scale))
}

func (s *MinMaxScaler) Transform(record Record) (Record, error) {
	if err := checkColumns(s.FeatureNames, len(s.Scale), record); err != nil {
		return Record{}, err
	}
	out := make([]float64, record.Len())
	for i, value := range record.Values {
		out[i] = value*s.Scale[i] + s.Min[i]
	}
	return record.withValues(out), nil
}

type IdentityScaler struct {
	FeatureNames []string `json:"feature_names,omitempty"`
}

func (s *IdentityScaler) Kind() string {
	return KindIdentity
}

func (s *IdentityScaler) Transform(record Record) (Record, error) {
	if err := checkColumns(s.FeatureNames, record.Len(), record); err != nil {
		return Record{}, err
	}
	out := make([]float64, record.Len())
	copy(out, record.Values)
	return record.withValues(out), nil
}

// checkFittedNames validates the optional feature_names of an artifact
// against the service's column order.
func checkFittedNames(names []string, width int) error {
	if len(names) == 0 {
		if width != len(FeatureNames()) {
			return fmt.Errorf("fitted on %d features, want %d", width, len(FeatureNames()))
		}
		return nil
	}
	if len(names) != width {
		return fmt.Errorf("feature_names has %d entries but parameters have %d", len(names), width)
	}
	expected := FeatureNames()
	if len(names) != len(expected) {
		return fmt.Errorf("fitted on %v, want %v", names, expected)
	}
	for i := range expected {
		if names[i] != expected[i] {
			return fmt.Errorf("fitted on %v, want %v", names, expected)
		}
	}
	return nil
}
