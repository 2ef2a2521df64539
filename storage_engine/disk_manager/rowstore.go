package diskmanager

import (
	"SlotDB/storage_engine/access"
	"SlotDB/types"

	"github.com/pkg/errors"
)

// A bare DbFile stores pages, not rows. Heap and B+Tree files embed *DbFile
// and override these methods.

var ErrNotImplemented = errors.New("not implemented for this file organization")

func (df *DbFile) Insert(types.Row) error {
	return types.UnsupportedError("Insert", errors.Wrap(ErrNotImplemented, df.name))
}

func (df *DbFile) Delete(access.Cursor) error {
	return types.UnsupportedError("Delete", errors.Wrap(ErrNotImplemented, df.name))
}

func (df *DbFile) Get(access.Cursor) (types.Row, error) {
	return types.Row{}, types.UnsupportedError("Get", errors.Wrap(ErrNotImplemented, df.name))
}

func (df *DbFile) Begin() (access.Cursor, error) {
	return access.Cursor{}, types.UnsupportedError("Begin", errors.Wrap(ErrNotImplemented, df.name))
}

func (df *DbFile) End() access.Cursor {
	return access.Cursor{}
}

func (df *DbFile) Next(access.Cursor) (access.Cursor, error) {
	return access.Cursor{}, types.UnsupportedError("Next", errors.Wrap(ErrNotImplemented, df.name))
}

var _ access.RowStore = (*DbFile)(nil)
