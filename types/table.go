package types

import "strings"

// TableKind selects the row organization backing a table file.
type TableKind string

const (
	KindHeap  TableKind = "heap"
	KindBTree TableKind = "btree"
)

type ColumnDef struct {
	Name string `json:"name" toml:"name"`
	Type string `json:"type" toml:"type"`
}

// TableDef describes one table file as written in the config file.
type TableDef struct {
	Name    string      `json:"name" toml:"name"`
	Kind    TableKind   `json:"kind" toml:"kind"`
	Key     string      `json:"key,omitempty" toml:"key"`
	Columns []ColumnDef `json:"columns" toml:"columns"`
}

// Signature is a canonical text form of the column list, used as a cache key
// for descriptors.
func (d TableDef) Signature() string {
	var sb strings.Builder
	for i, c := range d.Columns {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(c.Name)
		sb.WriteByte(':')
		sb.WriteString(strings.ToLower(c.Type))
	}
	return sb.String()
}
