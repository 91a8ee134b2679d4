package ml

import (
	"fmt"
	"strings"
)

// Model is a loaded, read-only regression predictor.
type Model interface {
	Name() string
	Version() string
	// FeatureNames returns the input columns in the order the model was fitted on.
	FeatureNames() []string
	// Predict returns one output per frame row. The frame's columns must equal
	// FeatureNames exactly, order included.
	Predict(frame *Frame) ([]float64, error)
}

type estimator interface {
	Predict(features []float64) (float64, error)
}

// PipelineModel chains the fitted preprocessor and estimator of an artifact.
type PipelineModel struct {
	modelType    string
	version      string
	featureNames []string
	pre          *Preprocessor
	est          estimator
}

func (m *PipelineModel) Name() string { return m.modelType }

func (m *PipelineModel) Version() string { return m.version }

func (m *PipelineModel) FeatureNames() []string {
	return append([]string(nil), m.featureNames...)
}

// IsCategorical reports whether the named input is categorical.
func (m *PipelineModel) IsCategorical(name string) bool {
	return m.pre.IsCategorical(name)
}

func (m *PipelineModel) Predict(frame *Frame) ([]float64, error) {
	if frame == nil {
		return nil, fmt.Errorf("%w: nil frame", ErrSchemaMismatch)
	}
	if err := checkColumns(frame.Columns, m.featureNames); err != nil {
		return nil, err
	}
	out := make([]float64, len(frame.Rows))
	for i, row := range frame.Rows {
		vector, err := m.pre.Transform(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		y, err := m.est.Predict(vector)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = y
	}
	return out, nil
}

func checkColumns(got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("%w: frame has %d columns, model expects %d", ErrSchemaMismatch, len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("%w: column %d is %q, model expects %q (expected order: %s)",
				ErrSchemaMismatch, i, got[i], want[i], strings.Join(want, ", "))
		}
	}
	return nil
}
