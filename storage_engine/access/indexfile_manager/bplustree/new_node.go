package bplus

import (
	"SlotDB/logger"
	"SlotDB/storage_engine/bufferpool"
	"SlotDB/storage_engine/page"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Every view returned here aliases a pool slot and is only valid until the
// next GetPage on the pool.

func (t *BTreeFile) pid(num uint64) page.PageID {
	return page.PageID{File: t.Name(), Num: num}
}

func (t *BTreeFile) pageFrame(num uint64) (*bufferpool.Frame, []byte, error) {
	fr, err := t.bufferPool.GetPage(t.pid(num))
	if err != nil {
		return nil, nil, err
	}
	data, err := fr.Data()
	if err != nil {
		return nil, nil, err
	}
	return fr, data, nil
}

// framePair fetches two pages so that both views are usable at once.
// The pool must hold at least two pages.
func (t *BTreeFile) framePair(a, b uint64) (fa, fb *bufferpool.Frame, da, db []byte, err error) {
	if fa, err = t.bufferPool.GetPage(t.pid(a)); err != nil {
		return
	}
	if fb, err = t.bufferPool.GetPage(t.pid(b)); err != nil {
		return
	}
	if da, err = fa.Data(); err != nil {
		return
	}
	db, err = fb.Data()
	return
}

func (t *BTreeFile) fetchLeaf(num uint64) (*LeafPage, *bufferpool.Frame, error) {
	fr, data, err := t.pageFrame(num)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "fetchLeaf %d", num)
	}
	lp, err := NewLeafPage(data, t.Schema(), t.keyIndex)
	if err != nil {
		return nil, nil, err
	}
	return lp, fr, nil
}

func (t *BTreeFile) fetchInternal(num uint64) (*InternalPage, *bufferpool.Frame, error) {
	fr, data, err := t.pageFrame(num)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "fetchInternal %d", num)
	}
	return NewInternalPage(data), fr, nil
}

// allocPage appends a zero page to the file. A zero page is already a valid
// empty leaf.
func (t *BTreeFile) allocPage() (uint64, error) {
	num, err := t.AllocatePage()
	if err != nil {
		return 0, err
	}
	logger.Debug("[BTree] new page", zap.String("file", t.Name()), zap.Uint64("page", num))
	return num, nil
}
