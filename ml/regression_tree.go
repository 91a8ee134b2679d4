package ml

import (
	"errors"
	"fmt"
)

type RegressionTree struct {
	nodes []TreeNode
}

// TreeNode is one node of a flattened tree. Samples with
// feature value <= Threshold go to LeftChild.
type TreeNode struct {
	Feature    string  `json:"feature,omitempty"`
	FeatureIdx int     `json:"-"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left"`
	RightChild int     `json:"right"`
	Value      float64 `json:"value"`
	IsLeaf     bool    `json:"is_leaf"`
}

func newRegressionTree(nodes []TreeNode, columns map[string]int) (*RegressionTree, error) {
	if len(nodes) == 0 {
		return nil, errors.New("tree has no nodes")
	}
	resolved := make([]TreeNode, len(nodes))
	for i, node := range nodes {
		if node.IsLeaf {
			node.FeatureIdx = -1
			resolved[i] = node
			continue
		}
		idx, ok := columns[node.Feature]
		if !ok {
			return nil, fmt.Errorf("node %d splits on unknown column %q", i, node.Feature)
		}
		// Children must come after their parent, which also rules out cycles.
		if node.LeftChild <= i || node.LeftChild >= len(nodes) {
			return nil, fmt.Errorf("node %d has invalid left child %d", i, node.LeftChild)
		}
		if node.RightChild <= i || node.RightChild >= len(nodes) {
			return nil, fmt.Errorf("node %d has invalid right child %d", i, node.RightChild)
		}
		node.FeatureIdx = idx
		resolved[i] = node
	}
	return &RegressionTree{nodes: resolved}, nil
}

func (rt *RegressionTree) Predict(features []float64) (float64, error) {
	if len(rt.nodes) == 0 {
		return 0, errors.New("tree is empty")
	}
	idx := 0
	for {
		node := rt.nodes[idx]
		if node.IsLeaf {
			return node.Value, nil
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(features) {
			return 0, errors.New("feature index out of range")
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(rt.nodes) {
			return 0, errors.New("invalid tree state")
		}
	}
}

func buildTrees(specs []TreeSpec, columns map[string]int) ([]*RegressionTree, error) {
	if len(specs) == 0 {
		return nil, errors.New("ensemble has no trees")
	}
	trees := make([]*RegressionTree, len(specs))
	for i, spec := range specs {
		tree, err := newRegressionTree(spec.Nodes, columns)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		trees[i] = tree
	}
	return trees, nil
}

type forest struct {
	trees []*RegressionTree
}

func newForest(specs []TreeSpec, columns map[string]int) (*forest, error) {
	trees, err := buildTrees(specs, columns)
	if err != nil {
		return nil, err
	}
	return &forest{trees: trees}, nil
}

func (f *forest) Predict(features []float64) (float64, error) {
	sum := 0.0
	for _, tree := range f.trees {
		v, err := tree.Predict(features)
		if err != nil {
			return 0, err
		}
		sum += v
	}
	return sum / float64(len(f.trees)), nil
}

type boostedTrees struct {
	trees        []*RegressionTree
	initValue    float64
	learningRate float64
}

func newBoostedTrees(specs []TreeSpec, columns map[string]int, initValue, learningRate float64) (*boostedTrees, error) {
	trees, err := buildTrees(specs, columns)
	if err != nil {
		return nil, err
	}
	return &boostedTrees{trees: trees, initValue: initValue, learningRate: learningRate}, nil
}

func (b *boostedTrees) Predict(features []float64) (float64, error) {
	score := b.initValue
	for _, tree := range b.trees {
		v, err := tree.Predict(features)
		if err != nil {
			return 0, err
		}
		score += b.learningRate * v
	}
	return score, nil
}
