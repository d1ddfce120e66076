package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardScalerTransform(t *testing.T) {
	scaler := &StandardScaler{
		FeatureNames: FeatureNames(),
		Mean:         []float64{7, 100},
		Scale:        []float64{2, 0},
	}
	require.NoError(t, scaler.check())

	out, err := scaler.Transform(FeatureVector{CGPA: 8, IQ: 110}.Record())
	require.NoError(t, err)
	assert.Equal(t, FeatureNames(), out.Columns)
	assert.InDelta(t, 0.5, out.Values[0], 1e-9)
	assert.InDelta(t, 10.0, out.Values[1], 1e-9)
}

func TestMinMaxScalerTransform(t *testing.T) {
	scaler := &MinMaxScaler{
		Min:   []float64{0, -0.5},
		Scale: []float64{0.1, 0.005},
	}
	require.NoError(t, scaler.check())

	out, err := scaler.Transform(FeatureVector{CGPA: 5, IQ: 200}.Record())
	require.NoError(t, err)
	assert.InDelta(t, 0.5, out.Values[0], 1e-9)
	assert.InDelta(t, 0.5, out.Values[1], 1e-9)
}

func TestScalerRejectsReorderedColumns(t *testing.T) {
	scaler := &StandardScaler{
		FeatureNames: FeatureNames(),
		Mean:         []float64{0, 0},
		Scale:        []float64{1, 1},
	}
	record := Record{Columns: []string{FeatureIQ, FeatureCGPA}, Values: []float64{100, 5}}

	_, err := scaler.Transform(record)
	assert.Error(t, err)
}

func TestScalerRejectsWrongWidth(t *testing.T) {
	scaler := &StandardScaler{Mean: []float64{0, 0}, Scale: []float64{1, 1}}
	record := Record{Columns: []string{FeatureCGPA}, Values: []float64{5}}

	_, err := scaler.Transform(record)
	assert.Error(t, err)
}

func TestTransformDoesNotMutateInput(t *testing.T) {
	scaler := &StandardScaler{Mean: []float64{1, 1}, Scale: []float64{1, 1}}
	record := FeatureVector{CGPA: 3, IQ: 4}.Record()

	_, err := scaler.Transform(record)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4}, record.Values)
}

func TestCheckFittedNames(t *testing.T) {
	tests := []struct {
		name    string
		names   []string
		width   int
		wantErr bool
	}{
		{name: "matching", names: []string{"cgpa", "iq"}, width: 2},
		{name: "unnamed", width: 2},
		{name: "unnamed wrong width", width: 3, wantErr: true},
		{name: "reordered", names: []string{"iq", "cgpa"}, width: 2, wantErr: true},
		{name: "extra feature", names: []string{"cgpa", "iq", "age"}, width: 3, wantErr: true},
		{name: "names disagree with parameters", names: []string{"cgpa", "iq"}, width: 3, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := checkFittedNames(tc.names, tc.width)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
