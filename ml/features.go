package ml

import (
	"fmt"
	"strconv"
)

type Kind int

const (
	KindNumber Kind = iota + 1
	KindCategory
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindCategory:
		return "category"
	default:
		return "unknown"
	}
}

// Value is a single cell of a feature row: either a number or a category label.
type Value struct {
	kind Kind
	num  float64
	str  string
}

func Number(v float64) Value { return Value{kind: KindNumber, num: v} }

func Category(v string) Value { return Value{kind: KindCategory, str: v} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsZero() bool { return v.kind == 0 }

func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

func (v Value) Label() (string, bool) {
	if v.kind != KindCategory {
		return "", false
	}
	return v.str, true
}

func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindCategory:
		return v.str
	default:
		return "<nil>"
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return []byte(strconv.FormatFloat(v.num, 'g', -1, 64)), nil
	case KindCategory:
		return []byte(strconv.Quote(v.str)), nil
	default:
		return []byte("null"), nil
	}
}

// FeatureRecord maps feature names to the values supplied for one inference.
// Column order is never taken from the record; it always comes from the model.
type FeatureRecord map[string]Value

// Frame is a table of rows aligned to Columns.
type Frame struct {
	Columns []string
	Rows    [][]Value
}

// NewFrame returns an empty frame with the given column order.
func NewFrame(columns []string) *Frame {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Frame{Columns: cols}
}

// AppendRecord appends one row, reading each column from record.
func (f *Frame) AppendRecord(record FeatureRecord) error {
	row := make([]Value, len(f.Columns))
	var missing []string
	for i, name := range f.Columns {
		value, ok := record[name]
		if !ok || value.IsZero() {
			missing = append(missing, name)
			continue
		}
		row[i] = value
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing inputs %v", ErrSchemaMismatch, missing)
	}
	f.Rows = append(f.Rows, row)
	return nil
}

func (f *Frame) Len() int { return len(f.Rows) }
