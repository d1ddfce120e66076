package ml

import (
	"fmt"
)

const (
	FeatureCGPA = "cgpa"
	FeatureIQ   = "iq"

	// Accepted input ranges; validated before a FeatureVector is built.
	MinCGPA = 0.0
	MaxCGPA = 10.0
	MinIQ   = 0
)

// FeatureNames is the column order every scaler and model was fitted on.
func FeatureNames() []string {
	return []string{FeatureCGPA, FeatureIQ}
}

// FeatureVector is one request's validated input.
type FeatureVector struct {
	CGPA float64
	IQ   int
}

// Record builds the single-row record in FeatureNames order.
func (v FeatureVector) Record() Record {
	return Record{
		Columns: FeatureNames(),
		Values:  []float64{v.CGPA, float64(v.IQ)},
	}
}

// Record is one row of named numeric columns.
type Record struct {
	Columns []string
	Values  []float64
}

func (r Record) Len() int {
	return len(r.Values)
}

func (r Record) Validate() error {
	if len(r.Columns) != len(r.Values) {
		return fmt.Errorf("record has %d columns but %d values", len(r.Columns), len(r.Values))
	}
	return nil
}

func (r Record) withValues(values []float64) Record {
	columns := make([]string, len(r.Columns))
	copy(columns, r.Columns)
	return Record{Columns: columns, Values: values}
}

// checkColumns reports an error when the record's columns do not match the
// names an artifact was fitted on. An empty fitted list only checks width.
func checkColumns(fitted []string, width int, record Record) error {
	if err := record.Validate(); err != nil {
		return err
	}
	if record.Len() != width {
		return fmt.Errorf("expected %d features, got %d", width, record.Len())
	}
	if len(fitted) == 0 {
		return nil
	}
	for i, name := range fitted {
		if record.Columns[i] != name {
			return fmt.Errorf("column %d is %q, fitted on %q", i, record.Columns[i], name)
		}
	}
	return nil
}
