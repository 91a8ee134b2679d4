package ml

import (
	"fmt"
	"sort"
)

// Preprocessor turns a row of raw feature values into the numeric vector the
// estimator was fitted on: one-hot for categorical features, optional
// standardization for numeric ones.
type Preprocessor struct {
	features    []string
	categorical map[string][]string
	scaler      map[string]ScalerParams
	columns     []string
}

func newPreprocessor(features []string, spec PreprocessorSpec) (*Preprocessor, error) {
	declared := make(map[string]bool, len(features))
	for _, name := range features {
		declared[name] = true
	}
	for _, name := range sortedKeys(spec.Categorical) {
		if !declared[name] {
			return nil, fmt.Errorf("categorical encoder references undeclared feature %q", name)
		}
		if len(spec.Categorical[name]) == 0 {
			return nil, fmt.Errorf("categorical feature %q has no categories", name)
		}
	}
	for name := range spec.Scaler {
		if !declared[name] {
			return nil, fmt.Errorf("scaler references undeclared feature %q", name)
		}
		if _, ok := spec.Categorical[name]; ok {
			return nil, fmt.Errorf("scaler references categorical feature %q", name)
		}
	}

	p := &Preprocessor{
		features:    features,
		categorical: spec.Categorical,
		scaler:      spec.Scaler,
	}
	for _, name := range features {
		if cats, ok := spec.Categorical[name]; ok {
			for _, cat := range cats {
				p.columns = append(p.columns, name+"="+cat)
			}
			continue
		}
		p.columns = append(p.columns, name)
	}
	return p, nil
}

// Columns returns the encoded column names in vector order.
func (p *Preprocessor) Columns() []string {
	return p.columns
}

func (p *Preprocessor) columnIndex() map[string]int {
	index := make(map[string]int, len(p.columns))
	for i, name := range p.columns {
		index[name] = i
	}
	return index
}

// Transform encodes one row aligned to the declared features.
func (p *Preprocessor) Transform(row []Value) ([]float64, error) {
	if len(row) != len(p.features) {
		return nil, fmt.Errorf("%w: row has %d values, model expects %d", ErrSchemaMismatch, len(row), len(p.features))
	}
	vector := make([]float64, 0, len(p.columns))
	for i, name := range p.features {
		value := row[i]
		if cats, ok := p.categorical[name]; ok {
			label, ok := value.Label()
			if !ok {
				return nil, fmt.Errorf("%w: feature %q expects a category, got %s", ErrSchemaMismatch, name, value.Kind())
			}
			// Unknown categories encode as all zeros.
			for _, cat := range cats {
				if cat == label {
					vector = append(vector, 1)
				} else {
					vector = append(vector, 0)
				}
			}
			continue
		}
		x, ok := value.Float()
		if !ok {
			return nil, fmt.Errorf("%w: feature %q expects a number, got %s", ErrSchemaMismatch, name, value.Kind())
		}
		if params, ok := p.scaler[name]; ok && params.Std > 0 {
			x = (x - params.Mean) / params.Std
		}
		vector = append(vector, x)
	}
	return vector, nil
}

// IsCategorical reports whether the feature is one-hot encoded.
func (p *Preprocessor) IsCategorical(name string) bool {
	_, ok := p.categorical[name]
	return ok
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
