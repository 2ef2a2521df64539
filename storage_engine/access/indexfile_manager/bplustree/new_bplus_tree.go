package bplus

import (
	"SlotDB/logger"
	"SlotDB/storage_engine/bufferpool"
	diskmanager "SlotDB/storage_engine/disk_manager"
	"SlotDB/storage_engine/page"
	"SlotDB/types"
	"encoding/binary"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

/*
Meta page (page 0 of every tree file):

	Offset  Size  Field
	──────────────────────────────────────
	0       8     root page number uint64, 0 = no root yet
	8       1     root-is-internal flag
	──────────────────────────────────────

A brand new file has an all-zero meta page, so the first open allocates page
1 as an empty root leaf. Page 0 is never a leaf, which makes 0 usable as the
end of the leaf chain and as the end cursor.
*/

var (
	ErrBadMeta      = errors.New("meta page names a root outside the file")
	ErrPoolTooSmall = errors.New("buffer pool too small for a B+Tree")
)

// OpenBTreeFile wraps an open paged file as a B+Tree keyed on the INT field
// keyIndex, creating the root leaf if the file has none yet.
func OpenBTreeFile(file *diskmanager.DbFile, bufferPool *bufferpool.BufferPool, keyIndex int) (*BTreeFile, error) {
	schema := file.Schema()
	if schema == nil {
		return nil, types.PreconditionError("OpenBTreeFile", errors.Errorf("tree file %q has no schema", file.Name()))
	}
	if keyIndex < 0 || keyIndex >= schema.Size() || schema.TypeOf(keyIndex) != types.TypeInt {
		return nil, types.PreconditionError("OpenBTreeFile", errors.Wrapf(ErrKeyNotInt, "field %d of %s", keyIndex, file.Name()))
	}
	if bufferPool.Capacity() < types.MinTreePoolPages {
		return nil, types.PreconditionError("OpenBTreeFile",
			errors.Wrapf(ErrPoolTooSmall, "%d pages, need %d", bufferPool.Capacity(), types.MinTreePoolPages))
	}
	if LeafCapacity(page.PageSize, schema.Length()) < 2 {
		return nil, types.PreconditionError("OpenBTreeFile",
			errors.Errorf("row length %d leaves no room to split a leaf", schema.Length()))
	}

	t := &BTreeFile{
		DbFile:     file,
		bufferPool: bufferPool,
		keyIndex:   keyIndex,
	}
	if err := t.loadRoot(); err != nil {
		return nil, err
	}

	if t.root == metaPage {
		num, err := t.allocPage()
		if err != nil {
			return nil, errors.Wrap(err, "OpenBTreeFile: allocate root leaf")
		}
		t.root, t.rootInternal = num, false
		if err := t.saveRoot(); err != nil {
			return nil, err
		}
		logger.Info("new tree", zap.String("file", file.Name()), zap.Uint64("root", t.root))
	} else {
		logger.Debug("loaded tree", zap.String("file", file.Name()),
			zap.Uint64("root", t.root), zap.Bool("rootInternal", t.rootInternal))
	}
	return t, nil
}

func (t *BTreeFile) loadRoot() error {
	_, data, err := t.pageFrame(metaPage)
	if err != nil {
		return errors.Wrap(err, "loadRoot")
	}
	root := binary.LittleEndian.Uint64(data[0:8])
	if root != metaPage && root >= t.PageCount() {
		return types.PreconditionError("loadRoot", errors.Wrapf(ErrBadMeta, "root %d, %d pages", root, t.PageCount()))
	}
	t.root = root
	t.rootInternal = data[8] != 0
	return nil
}

// saveRoot persists the current root in the meta page.
// Called after every operation that changes the root.
func (t *BTreeFile) saveRoot() error {
	fr, data, err := t.pageFrame(metaPage)
	if err != nil {
		return errors.Wrap(err, "saveRoot")
	}
	binary.LittleEndian.PutUint64(data[0:8], t.root)
	data[8] = 0
	if t.rootInternal {
		data[8] = 1
	}
	return fr.MarkDirty()
}

// Root is the page number of the root page.
func (t *BTreeFile) Root() uint64 { return t.root }

// KeyIndex is the position of the key field in the schema.
func (t *BTreeFile) KeyIndex() int { return t.keyIndex }

// Height is the number of levels, 1 for a tree that is a single leaf.
func (t *BTreeFile) Height() (int, error) {
	h := 1
	num, internal := t.root, t.rootInternal
	for internal {
		ip, _, err := t.fetchInternal(num)
		if err != nil {
			return 0, err
		}
		h++
		internal = ip.ChildrenInternal()
		num = ip.Child(0)
	}
	return h, nil
}
