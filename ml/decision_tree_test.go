package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTree() *DecisionTree {
	return &DecisionTree{
		FeatureNames: FeatureNames(),
		Nodes: []TreeNode{
			{FeatureIdx: 0, Threshold: 0.5, LeftChild: 1, RightChild: 2},
			{FeatureIdx: -1, LeftChild: -1, RightChild: -1, ClassLabel: 0, IsLeaf: true},
			{FeatureIdx: 1, Threshold: 0.0, LeftChild: 3, RightChild: 4},
			{FeatureIdx: -1, LeftChild: -1, RightChild: -1, ClassLabel: 0, IsLeaf: true},
			{FeatureIdx: -1, LeftChild: -1, RightChild: -1, ClassLabel: 1, IsLeaf: true},
		},
	}
}

func TestDecisionTreePredict(t *testing.T) {
	model := testTree()
	require.NoError(t, model.check())

	tests := []struct {
		values []float64
		label  int
	}{
		{values: []float64{0.1, 5}, label: 0},
		{values: []float64{0.9, -1}, label: 0},
		{values: []float64{0.9, 1}, label: 1},
	}
	for _, tc := range tests {
		label, err := model.Predict(Record{Columns: FeatureNames(), Values: tc.values})
		require.NoError(t, err)
		assert.Equal(t, tc.label, label, "values %v", tc.values)
	}
}

func TestDecisionTreeCheckRejectsCycles(t *testing.T) {
	model := &DecisionTree{Nodes: []TreeNode{
		{FeatureIdx: 0, Threshold: 0, LeftChild: 0, RightChild: 0},
	}}
	assert.Error(t, model.check())
}

func TestDecisionTreeUntrained(t *testing.T) {
	model := &DecisionTree{}
	_, err := model.Predict(FeatureVector{CGPA: 1, IQ: 1}.Record())
	assert.Error(t, err)
}

func TestDecisionTreeWalkIsBounded(t *testing.T) {
	// Bypasses check to simulate a corrupted tree.
	model := &DecisionTree{Nodes: []TreeNode{
		{FeatureIdx: 0, Threshold: 10, LeftChild: 0, RightChild: 0},
	}}
	_, err := model.Predict(FeatureVector{CGPA: 1, IQ: 1}.Record())
	assert.Error(t, err)
}
