package bplus

import (
	"SlotDB/storage_engine/access"
	"SlotDB/types"

	"github.com/pkg/errors"
)

// The cursor walks the leaf chain: (leaf page, slot). The zero cursor is the
// end, since page 0 is the meta page and never a leaf.

var ErrCursorEnd = errors.New("cursor is at the end")

// Begin returns slot 0 of the leftmost leaf, or End() for an empty tree.
func (t *BTreeFile) Begin() (access.Cursor, error) {
	num, err := t.leftmostLeaf()
	if err != nil {
		return access.Cursor{}, err
	}
	leaf, _, err := t.fetchLeaf(num)
	if err != nil {
		return access.Cursor{}, err
	}
	if leaf.Size() == 0 {
		return t.End(), nil
	}
	return access.Cursor{Page: num, Slot: 0}, nil
}

func (t *BTreeFile) End() access.Cursor {
	return access.Cursor{}
}

// Next advances within the leaf, then follows the next-leaf pointer.
func (t *BTreeFile) Next(c access.Cursor) (access.Cursor, error) {
	if err := t.checkCursor("Next", c); err != nil {
		return access.Cursor{}, err
	}
	leaf, _, err := t.fetchLeaf(c.Page)
	if err != nil {
		return access.Cursor{}, err
	}
	if int(c.Slot)+1 < leaf.Size() {
		return access.Cursor{Page: c.Page, Slot: c.Slot + 1}, nil
	}
	if next := leaf.Next(); next != 0 {
		return access.Cursor{Page: next, Slot: 0}, nil
	}
	return t.End(), nil
}

// Get decodes the row under c. It fails past the leaf's row count.
func (t *BTreeFile) Get(c access.Cursor) (types.Row, error) {
	if err := t.checkCursor("Get", c); err != nil {
		return types.Row{}, err
	}
	leaf, _, err := t.fetchLeaf(c.Page)
	if err != nil {
		return types.Row{}, err
	}
	return leaf.Get(int(c.Slot))
}

func (t *BTreeFile) checkCursor(op string, c access.Cursor) error {
	if c == t.End() {
		return types.PreconditionError(op, ErrCursorEnd)
	}
	if c.Page >= t.PageCount() {
		return types.PreconditionError(op, errors.Errorf("page %d past end of %s", c.Page, t.Name()))
	}
	return nil
}

var _ access.RowStore = (*BTreeFile)(nil)
