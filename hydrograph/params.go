package hydrograph

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// FieldTable renames the labels a form presents to the keywords a model
// reads. It is fixed per model.
type FieldTable struct {
	model  ModelID
	fields map[string]string
}

// NewFieldTable returns a table for model mapping each label to its
// keyword.
func NewFieldTable(model ModelID, fields map[string]string) FieldTable {
	m := make(map[string]string, len(fields))
	for k, v := range fields {
		m[k] = v
	}
	return FieldTable{model: model, fields: m}
}

// Labels returns the accepted labels in sorted order.
func (t FieldTable) Labels() []string {
	out := make([]string, 0, len(t.fields))
	for l := range t.fields {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Keyword returns the keyword for label.
func (t FieldTable) Keyword(label string) (string, bool) {
	k, ok := t.fields[label]
	return k, ok
}

// Map renames every label in raw. Values are passed through untouched.
func (t FieldTable) Map(raw map[string]string) (Params, error) {
	out := make(Params, len(raw))
	for label, v := range raw {
		k, ok := t.fields[label]
		if !ok {
			return nil, &UnknownFieldError{Model: string(t.model), Label: label}
		}
		out[k] = v
	}
	return out, nil
}

// Params are mapped parameters keyed by keyword. Values stay text until a
// model reads them.
type Params map[string]string

// Int returns the integer value of key. Surrounding whitespace and an
// integral decimal form such as "353.0" are accepted. Values must fit in
// 32 bits.
func (p Params) Int(key string) (int, error) {
	raw, ok := p[key]
	if !ok {
		return 0, &InvalidParameterError{Field: key, Reason: "is required"}
	}
	s := strings.TrimSpace(raw)
	if n, err := strconv.Atoi(s); err == nil {
		if n > math.MaxInt32 || n < math.MinInt32 {
			return 0, &InvalidParameterError{Field: key, Value: raw, Reason: "is out of range"}
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, &InvalidParameterError{Field: key, Value: raw, Reason: "is not a number"}
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, &InvalidParameterError{Field: key, Value: raw, Reason: "is not an integer"}
	}
	return int(f), nil
}
