package ml

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadModelMissingArtifact(t *testing.T) {
	_, err := LoadModel(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrArtifactNotFound), "got %v", err)
	assert.False(t, errors.Is(err, ErrDeserialization))
}

func TestLoadModelInvalidContent(t *testing.T) {
	cases := map[string]string{
		"not json":          "\x80\x04\x95pickle",
		"empty features":    `{"model_type":"linear_regression","feature_names_in":[],"linear":{"intercept":1}}`,
		"duplicate feature": `{"model_type":"linear_regression","feature_names_in":["a","a"],"linear":{"intercept":1}}`,
		"unknown type":      `{"model_type":"svm","feature_names_in":["a"]}`,
		"missing linear":    `{"model_type":"linear_regression","feature_names_in":["a"]}`,
		"unknown coef":      `{"model_type":"linear_regression","feature_names_in":["a"],"linear":{"coefficients":{"b":1}}}`,
		"undeclared cat":    `{"model_type":"linear_regression","feature_names_in":["a"],"preprocessor":{"categorical":{"b":["x"]}},"linear":{}}`,
		"scaled category":   `{"model_type":"linear_regression","feature_names_in":["a"],"preprocessor":{"categorical":{"a":["x"]},"scaler":{"a":{"mean":0,"std":1}}},"linear":{}}`,
		"tree cycle":        `{"model_type":"regression_tree","feature_names_in":["a"],"trees":[{"nodes":[{"feature":"a","left":0,"right":1},{"is_leaf":true}]}]}`,
		"tree bad column":   `{"model_type":"regression_tree","feature_names_in":["a"],"trees":[{"nodes":[{"feature":"z","left":1,"right":2},{"is_leaf":true},{"is_leaf":true}]}]}`,
		"boosting no rate":  `{"model_type":"gradient_boosting","feature_names_in":["a"],"trees":[{"nodes":[{"is_leaf":true}]}]}`,
		"empty forest":      `{"model_type":"random_forest","feature_names_in":["a"],"trees":[]}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "model.json")
			require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))

			_, err := LoadModel(path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDeserialization), "got %v", err)
		})
	}
}

func TestLoadModelRoundTrip(t *testing.T) {
	path := writeArtifact(t, smallArtifact())

	model, err := LoadModel(path)
	require.NoError(t, err)
	assert.Equal(t, ModelTypeLinearRegression, model.Name())
	assert.Equal(t, "test", model.Version())
	assert.Equal(t, []string{"cgpa", "branch", "backlogs"}, model.FeatureNames())
}

func TestLoaderReadsArtifactOnce(t *testing.T) {
	path := writeArtifact(t, smallArtifact())
	loader := NewLoader(path)

	first, err := loader.Load()
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))

	second, err := loader.Load()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestLoaderCachesFailure(t *testing.T) {
	calls := 0
	loader := NewLoader("missing.json")
	loader.load = func(path string) (Model, error) {
		calls++
		return LoadModel(path)
	}

	for i := 0; i < 3; i++ {
		_, err := loader.Load()
		assert.ErrorIs(t, err, ErrArtifactNotFound)
	}
	assert.Equal(t, 1, calls)
}

func TestShippedArtifactLoads(t *testing.T) {
	model, err := LoadModel(filepath.Join("..", "experiment", "artifacts", "best_model.json"))
	require.NoError(t, err)
	assert.Len(t, model.FeatureNames(), 17)
}
