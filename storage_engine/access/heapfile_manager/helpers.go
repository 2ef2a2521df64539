package heapfile

import (
	"SlotDB/storage_engine/access"
	"SlotDB/storage_engine/bufferpool"
	"SlotDB/storage_engine/page"
	"SlotDB/types"

	"github.com/pkg/errors"
)

/*
This file contains helpers related to Heapfile: page access through the buffer
pool and the (page, slot) cursor walk.
*/

var ErrCursorOutOfRange = errors.New("cursor out of range")

// fetchPage pins nothing: the returned view is only valid until the next
// buffer pool access.
func (hf *HeapFile) fetchPage(num uint64) (*HeapPage, *bufferpool.Frame, error) {
	fr, err := hf.bufferPool.GetPage(page.PageID{File: hf.Name(), Num: num})
	if err != nil {
		return nil, nil, err
	}
	data, err := fr.Data()
	if err != nil {
		return nil, nil, err
	}
	return NewHeapPage(data, hf.Schema()), fr, nil
}

func (hf *HeapFile) checkCursor(op string, c access.Cursor) error {
	if c.Page >= hf.PageCount() {
		return types.PreconditionError(op,
			errors.Wrapf(ErrCursorOutOfRange, "page %d of %d", c.Page, hf.PageCount()))
	}
	return nil
}

// firstFrom returns the first populated (page, slot) at or after page num, or End().
func (hf *HeapFile) firstFrom(num uint64) (access.Cursor, error) {
	for ; num < hf.PageCount(); num++ {
		hp, _, err := hf.fetchPage(num)
		if err != nil {
			return access.Cursor{}, err
		}
		if s := hp.Begin(); s < hp.End() {
			return access.Cursor{Page: num, Slot: uint64(s)}, nil
		}
	}
	return hf.End(), nil
}

// Begin returns the first row of the file, or End() if there is none.
func (hf *HeapFile) Begin() (access.Cursor, error) {
	return hf.firstFrom(0)
}

// End is (PageCount, 0).
func (hf *HeapFile) End() access.Cursor {
	return access.Cursor{Page: hf.PageCount(), Slot: 0}
}

// Next returns the row after c, crossing into later pages when c's page is exhausted.
func (hf *HeapFile) Next(c access.Cursor) (access.Cursor, error) {
	if err := hf.checkCursor("Next", c); err != nil {
		return access.Cursor{}, err
	}
	hp, _, err := hf.fetchPage(c.Page)
	if err != nil {
		return access.Cursor{}, err
	}
	if s := hp.Next(int(c.Slot)); s < hp.End() {
		return access.Cursor{Page: c.Page, Slot: uint64(s)}, nil
	}
	return hf.firstFrom(c.Page + 1)
}
