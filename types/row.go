package types

import "strings"

// Row is an ordered list of typed values. It is checked against a schema by
// arity and per-field type, never by where it came from.
type Row struct {
	Fields []Field
}

func NewRow(fields ...Field) Row {
	return Row{Fields: fields}
}

func (r Row) Len() int {
	return len(r.Fields)
}

func (r Row) Field(i int) Field {
	return r.Fields[i]
}

func (r Row) Clone() Row {
	out := make([]Field, len(r.Fields))
	copy(out, r.Fields)
	return Row{Fields: out}
}

func (r Row) Equal(o Row) bool {
	if len(r.Fields) != len(o.Fields) {
		return false
	}
	for i := range r.Fields {
		if r.Fields[i] != o.Fields[i] {
			return false
		}
	}
	return true
}

func (r Row) String() string {
	parts := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		parts[i] = f.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
