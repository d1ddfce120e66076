package ml

import (
	"errors"
	"fmt"
)

const KindDecisionTree = "decision_tree"

// DecisionTree is a fitted binary tree stored as a flat node array with the
// root at index 0.
type DecisionTree struct {
	FeatureNames []string   `json:"feature_names,omitempty"`
	Nodes        []TreeNode `json:"nodes"`
}

type TreeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	ClassLabel int     `json:"class_label"`
	IsLeaf     bool    `json:"is_leaf"`
}

func (dt *DecisionTree) Kind() string {
	return KindDecisionTree
}

func (dt *DecisionTree) check() error {
	if len(dt.Nodes) == 0 {
		return errors.New("tree has no nodes")
	}
	width := len(FeatureNames())
	for i, node := range dt.Nodes {
		if node.IsLeaf {
			continue
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= width {
			return fmt.Errorf("node %d: feature index %d out of range", i, node.FeatureIdx)
		}
		if node.LeftChild <= i || node.LeftChild >= len(dt.Nodes) {
			return fmt.Errorf("node %d: invalid left child %d", i, node.LeftChild)
		}
		if node.RightChild <= i || node.RightChild >= len(dt.Nodes) {
			return fmt.Errorf("node %d: invalid right child %d", i, node.RightChild)
		}
	}
	return checkFittedNames(dt.FeatureNames, width)
}

func (dt *DecisionTree) Predict(record Record) (int, error) {
	if len(dt.Nodes) == 0 {
		return 0, errors.New("model not trained")
	}
	if err := checkColumns(dt.FeatureNames, len(FeatureNames()), record); err != nil {
		return 0, err
	}
	features := record.Values
	idx := 0
	for steps := 0; steps < len(dt.Nodes); steps++ {
		node := dt.Nodes[idx]
		if node.IsLeaf {
			return node.ClassLabel, nil
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(features) {
			return 0, errors.New("feature index out of range")
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(dt.Nodes) {
			return 0, errors.New("invalid tree state")
		}
	}
	return 0, errors.New("tree walk did not reach a leaf")
}
