package access

import (
	"SlotDB/storage_engine/tuple"
	"SlotDB/types"
)

/*
Row-store contract shared by the heap and B+Tree organizations.

Query operators only ever see this interface: they walk a file from Begin()
to End() with Next() and read rows with Get(). A Cursor names one row by
(page, slot); each organization decides what its end sentinel looks like.
*/

// Cursor is a position inside a row store.
type Cursor struct {
	Page uint64
	Slot uint64
}

type RowStore interface {
	Name() string
	Schema() *tuple.Descriptor

	Insert(row types.Row) error
	Delete(c Cursor) error
	Get(c Cursor) (types.Row, error)

	Begin() (Cursor, error)
	End() Cursor
	Next(c Cursor) (Cursor, error)
}

// Scan calls fn for every row of rs in iteration order and stops at the
// first error.
func Scan(rs RowStore, fn func(c Cursor, row types.Row) error) error {
	c, err := rs.Begin()
	if err != nil {
		return err
	}
	for c != rs.End() {
		row, err := rs.Get(c)
		if err != nil {
			return err
		}
		if err := fn(c, row); err != nil {
			return err
		}
		if c, err = rs.Next(c); err != nil {
			return err
		}
	}
	return nil
}

// Collect returns every row of rs in iteration order.
func Collect(rs RowStore) ([]types.Row, error) {
	var rows []types.Row
	err := Scan(rs, func(_ Cursor, row types.Row) error {
		rows = append(rows, row)
		return nil
	})
	return rows, err
}
