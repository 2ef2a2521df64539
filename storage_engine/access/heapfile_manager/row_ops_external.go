package heapfile

import (
	"SlotDB/logger"
	"SlotDB/storage_engine/access"
	"SlotDB/storage_engine/bufferpool"
	diskmanager "SlotDB/storage_engine/disk_manager"
	"SlotDB/types"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

/* this file contains the row operations of the heapfile
every page is reached through the buffer pool and every modified page is marked dirty there,
the pool decides when the bytes actually reach the disk
*/

// NewHeapFile wraps an open paged file as a heap. The file must have a schema.
func NewHeapFile(file *diskmanager.DbFile, bufferPool *bufferpool.BufferPool) (*HeapFile, error) {
	if file.Schema() == nil {
		return nil, types.PreconditionError("NewHeapFile", errors.Errorf("heap file %q has no schema", file.Name()))
	}
	if HeapCapacity(types.PageSize, file.Schema().Length()) == 0 {
		return nil, types.PreconditionError("NewHeapFile",
			errors.Errorf("row length %d does not fit in a page", file.Schema().Length()))
	}
	return &HeapFile{DbFile: file, bufferPool: bufferPool}, nil
}

// Insert appends row to the last page, allocating a new page at the end of
// the file when the last one is full. Pages are never reclaimed.
func (hf *HeapFile) Insert(row types.Row) error {
	_, err := hf.InsertRow(row)
	return err
}

// InsertRow is Insert that also returns where the row landed.
func (hf *HeapFile) InsertRow(row types.Row) (access.Cursor, error) {
	if !hf.Schema().Compatible(row) {
		return access.Cursor{}, types.PreconditionError("Insert",
			errors.Wrapf(ErrRowMismatch, "%s into %s", row, hf.Name()))
	}

	last := hf.PageCount() - 1
	c, ok, err := hf.insertInto(last, row)
	if err != nil || ok {
		return c, err
	}

	num, err := hf.AllocatePage()
	if err != nil {
		return access.Cursor{}, err
	}
	logger.Debug("heap file grew", zap.String("file", hf.Name()), zap.Uint64("page", num))

	c, ok, err = hf.insertInto(num, row)
	if err != nil {
		return access.Cursor{}, err
	}
	if !ok {
		return access.Cursor{}, types.CapacityError("Insert", errors.Errorf("fresh page %d of %s is full", num, hf.Name()))
	}
	return c, nil
}

var ErrRowMismatch = errors.New("row does not match heap schema")

func (hf *HeapFile) insertInto(num uint64, row types.Row) (access.Cursor, bool, error) {
	hp, fr, err := hf.fetchPage(num)
	if err != nil {
		return access.Cursor{}, false, err
	}
	slot, ok, err := hp.InsertAt(row)
	if err != nil || !ok {
		return access.Cursor{}, false, err
	}
	if err := fr.MarkDirty(); err != nil {
		return access.Cursor{}, false, err
	}
	return access.Cursor{Page: num, Slot: uint64(slot)}, true, nil
}

// Delete removes the row at c. Deleting an empty slot is an error.
func (hf *HeapFile) Delete(c access.Cursor) error {
	if err := hf.checkCursor("Delete", c); err != nil {
		return err
	}
	hp, fr, err := hf.fetchPage(c.Page)
	if err != nil {
		return err
	}
	if err := hp.Delete(int(c.Slot)); err != nil {
		return err
	}
	return fr.MarkDirty()
}

// Get returns the row at c.
func (hf *HeapFile) Get(c access.Cursor) (types.Row, error) {
	if err := hf.checkCursor("Get", c); err != nil {
		return types.Row{}, err
	}
	hp, _, err := hf.fetchPage(c.Page)
	if err != nil {
		return types.Row{}, err
	}
	return hp.Get(int(c.Slot))
}

var _ access.RowStore = (*HeapFile)(nil)
