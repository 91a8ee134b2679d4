package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineModelLinearPredict(t *testing.T) {
	model, err := smallArtifact().Build()
	require.NoError(t, err)

	frame := NewFrame(model.FeatureNames())
	require.NoError(t, frame.AppendRecord(smallRecord()))

	out, err := model.Predict(frame)
	require.NoError(t, err)
	require.Len(t, out, 1)
	// 5 + 2*(9-7)/2 + 1.5 - 0.5
	assert.InDelta(t, 8.0, out[0], 1e-9)
}

func TestPipelineModelRejectsReorderedFrame(t *testing.T) {
	model, err := smallArtifact().Build()
	require.NoError(t, err)

	frame := NewFrame([]string{"branch", "cgpa", "backlogs"})
	require.NoError(t, frame.AppendRecord(smallRecord()))

	_, err = model.Predict(frame)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestPipelineModelRejectsWrongKind(t *testing.T) {
	model, err := smallArtifact().Build()
	require.NoError(t, err)

	record := smallRecord()
	record["branch"] = Number(1)
	frame := NewFrame(model.FeatureNames())
	require.NoError(t, frame.AppendRecord(record))

	_, err = model.Predict(frame)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestUnknownCategoryEncodesAsZeros(t *testing.T) {
	model, err := smallArtifact().Build()
	require.NoError(t, err)

	record := smallRecord()
	record["branch"] = Category("Aero")
	frame := NewFrame(model.FeatureNames())
	require.NoError(t, frame.AppendRecord(record))

	out, err := model.Predict(frame)
	require.NoError(t, err)
	assert.InDelta(t, 6.5, out[0], 1e-9)
}

func TestFrameAppendRecordMissingInput(t *testing.T) {
	frame := NewFrame([]string{"cgpa", "branch", "backlogs"})
	err := frame.AppendRecord(FeatureRecord{"cgpa": Number(8)})
	require.ErrorIs(t, err, ErrSchemaMismatch)
	assert.Contains(t, err.Error(), "branch")
	assert.Contains(t, err.Error(), "backlogs")
	assert.Equal(t, 0, frame.Len())
}

func TestEnsembles(t *testing.T) {
	stump := func(left, right float64) TreeSpec {
		return TreeSpec{Nodes: []TreeNode{
			{Feature: "cgpa", Threshold: 8, LeftChild: 1, RightChild: 2},
			{IsLeaf: true, Value: left},
			{IsLeaf: true, Value: right},
		}}
	}
	base := Artifact{FeatureNamesIn: []string{"cgpa"}}

	forestArtifact := base
	forestArtifact.ModelType = ModelTypeRandomForest
	forestArtifact.Trees = []TreeSpec{stump(4, 10), stump(6, 12)}

	boostArtifact := base
	boostArtifact.ModelType = ModelTypeGradientBoosting
	boostArtifact.Trees = []TreeSpec{stump(-1, 2), stump(-1, 4)}
	boostArtifact.InitValue = 5
	boostArtifact.LearningRate = 0.5

	cases := []struct {
		name     string
		artifact Artifact
		cgpa     float64
		want     float64
	}{
		{"forest low", forestArtifact, 7, 5},
		{"forest high", forestArtifact, 9, 11},
		{"boost low", boostArtifact, 8, 4},
		{"boost high", boostArtifact, 9.5, 8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			model, err := tc.artifact.Build()
			require.NoError(t, err)
			frame := NewFrame(model.FeatureNames())
			require.NoError(t, frame.AppendRecord(FeatureRecord{"cgpa": Number(tc.cgpa)}))
			out, err := model.Predict(frame)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, out[0], 1e-9)
		})
	}
}

func TestValueAccessors(t *testing.T) {
	n := Number(2.5)
	f, ok := n.Float()
	assert.True(t, ok)
	assert.Equal(t, 2.5, f)
	_, ok = n.Label()
	assert.False(t, ok)

	c := Category("Tier 1")
	label, ok := c.Label()
	assert.True(t, ok)
	assert.Equal(t, "Tier 1", label)
	assert.True(t, Value{}.IsZero())

	raw, err := c.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"Tier 1"`, string(raw))
}
