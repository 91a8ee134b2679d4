package ml

import (
	"encoding/json"
	"fmt"
)

const (
	ModelTypeLinearRegression = "linear_regression"
	ModelTypeRegressionTree   = "regression_tree"
	ModelTypeRandomForest     = "random_forest"
	ModelTypeGradientBoosting = "gradient_boosting"
)

// Artifact is the JSON export of a fitted preprocessing + regression pipeline.
type Artifact struct {
	ModelType      string           `json:"model_type"`
	ModelVersion   string           `json:"model_version,omitempty"`
	FeatureNamesIn []string         `json:"feature_names_in"`
	Preprocessor   PreprocessorSpec `json:"preprocessor"`
	Linear         *LinearSpec      `json:"linear,omitempty"`
	Trees          []TreeSpec       `json:"trees,omitempty"`
	InitValue      float64          `json:"init_value,omitempty"`
	LearningRate   float64          `json:"learning_rate,omitempty"`
}

type PreprocessorSpec struct {
	// Categorical lists the one-hot categories of each categorical feature, in encoding order.
	Categorical map[string][]string     `json:"categorical,omitempty"`
	Scaler      map[string]ScalerParams `json:"scaler,omitempty"`
}

type ScalerParams struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

type LinearSpec struct {
	Intercept    float64            `json:"intercept"`
	Coefficients map[string]float64 `json:"coefficients"`
}

type TreeSpec struct {
	Nodes []TreeNode `json:"nodes"`
}

// DecodeArtifact parses and builds a model from raw artifact bytes.
func DecodeArtifact(payload []byte) (Model, error) {
	var artifact Artifact
	if err := json.Unmarshal(payload, &artifact); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserialization, err)
	}
	model, err := artifact.Build()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserialization, err)
	}
	return model, nil
}

// Build validates the artifact and assembles the predictor it describes.
func (a *Artifact) Build() (Model, error) {
	if len(a.FeatureNamesIn) == 0 {
		return nil, fmt.Errorf("feature_names_in is empty")
	}
	seen := make(map[string]bool, len(a.FeatureNamesIn))
	for _, name := range a.FeatureNamesIn {
		if name == "" {
			return nil, fmt.Errorf("feature_names_in contains an empty name")
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate feature %q in feature_names_in", name)
		}
		seen[name] = true
	}

	pre, err := newPreprocessor(a.FeatureNamesIn, a.Preprocessor)
	if err != nil {
		return nil, err
	}

	var est estimator
	switch a.ModelType {
	case ModelTypeLinearRegression:
		if a.Linear == nil {
			return nil, fmt.Errorf("%s artifact has no linear section", a.ModelType)
		}
		est, err = newLinearRegression(*a.Linear, pre.Columns())
	case ModelTypeRegressionTree:
		if len(a.Trees) != 1 {
			return nil, fmt.Errorf("%s artifact needs exactly one tree, got %d", a.ModelType, len(a.Trees))
		}
		est, err = newRegressionTree(a.Trees[0].Nodes, pre.columnIndex())
	case ModelTypeRandomForest:
		est, err = newForest(a.Trees, pre.columnIndex())
	case ModelTypeGradientBoosting:
		if a.LearningRate <= 0 {
			return nil, fmt.Errorf("%s artifact needs a positive learning_rate", a.ModelType)
		}
		est, err = newBoostedTrees(a.Trees, pre.columnIndex(), a.InitValue, a.LearningRate)
	default:
		return nil, fmt.Errorf("unsupported model type %q", a.ModelType)
	}
	if err != nil {
		return nil, err
	}

	return &PipelineModel{
		modelType:    a.ModelType,
		version:      a.ModelVersion,
		featureNames: append([]string(nil), a.FeatureNamesIn...),
		pre:          pre,
		est:          est,
	}, nil
}
