package predictor

import (
	"fmt"
	"sort"
	"strings"

	"salarypredict/ml"
)

// SchemaError lists how the form table and the model's declared inputs disagree.
type SchemaError struct {
	// Missing are inputs the model expects that the form does not supply.
	Missing []string
	// Unexpected are form fields the model does not declare.
	Unexpected []string
	// KindMismatch are inputs that are categorical on one side only.
	KindMismatch []string
}

func (e *SchemaError) empty() bool {
	return len(e.Missing) == 0 && len(e.Unexpected) == 0 && len(e.KindMismatch) == 0
}

func (e *SchemaError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.Unexpected) > 0 {
		parts = append(parts, "unexpected "+strings.Join(e.Unexpected, ", "))
	}
	if len(e.KindMismatch) > 0 {
		parts = append(parts, "kind mismatch "+strings.Join(e.KindMismatch, ", "))
	}
	return fmt.Sprintf("%v: %s", ml.ErrSchemaMismatch, strings.Join(parts, "; "))
}

func (e *SchemaError) Unwrap() error { return ml.ErrSchemaMismatch }

// InputError reports form values no widget could have produced.
type InputError struct {
	Fields map[string]string
}

func (e *InputError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	msgs := make([]string, len(names))
	for i, name := range names {
		msgs[i] = name + ": " + e.Fields[name]
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}
