package bplus

import (
	diskmanager "SlotDB/storage_engine/disk_manager"
	"SlotDB/storage_engine/page"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/xlab/treeprint"
)

/*
Tree inspector: renders every page reachable from the root.

	BTreeFile.Inspect   goes through the buffer pool and knows the schema,
	                    so leaves show their key range
	InspectIndexFile    reads a tree file straight from disk with no schema,
	                    read-only, leaves show row count and next pointer only

Pages are copied out before recursing: a deep walk touches more pages than a
small pool holds.
*/

type pageLoader func(num uint64) ([]byte, error)

// Inspect writes a dump of the tree to w.
func (t *BTreeFile) Inspect(w io.Writer) error {
	load := func(num uint64) ([]byte, error) {
		_, data, err := t.pageFrame(num)
		if err != nil {
			return nil, err
		}
		return append([]byte(nil), data...), nil
	}
	leafLabel := func(num uint64, data []byte) string {
		lp, err := NewLeafPage(data, t.Schema(), t.keyIndex)
		if err != nil {
			return fmt.Sprintf("leaf #%d <%v>", num, err)
		}
		if lp.Size() == 0 {
			return fmt.Sprintf("leaf #%d rows=0 next=%d", num, lp.Next())
		}
		return fmt.Sprintf("leaf #%d rows=%d keys=[%d..%d] next=%d",
			num, lp.Size(), lp.Key(0), lp.Key(lp.Size()-1), lp.Next())
	}

	h, err := t.Height()
	if err != nil {
		return err
	}
	tree := treeprint.NewWithRoot(fmt.Sprintf("%s root=#%d height=%d", t.Name(), t.root, h))
	if err := render(tree, load, leafLabel, t.root, t.rootInternal); err != nil {
		return err
	}
	_, err = io.WriteString(w, tree.String())
	return err
}

// InspectIndexFile dumps the tree stored in the file at path. The file is
// opened read-only and must already exist.
func InspectIndexFile(path string, w io.Writer) error {
	df, err := diskmanager.OpenReadOnly(path, nil)
	if err != nil {
		return err
	}
	defer df.Close()

	load := func(num uint64) ([]byte, error) {
		buf := make([]byte, page.PageSize)
		if err := df.ReadPage(num, buf); err != nil {
			return nil, err
		}
		return buf, nil
	}
	leafLabel := func(num uint64, data []byte) string {
		return fmt.Sprintf("leaf #%d rows=%d next=%d", num,
			binary.LittleEndian.Uint64(data[0:8]), binary.LittleEndian.Uint64(data[8:16]))
	}

	meta, err := load(metaPage)
	if err != nil {
		return err
	}
	root := binary.LittleEndian.Uint64(meta[0:8])
	rootInternal := meta[8] != 0
	if root == metaPage {
		_, err := fmt.Fprintf(w, "%s: empty (no root)\n", df.Name())
		return err
	}
	if root >= df.PageCount() {
		return errors.Wrapf(ErrBadMeta, "root %d, %d pages", root, df.PageCount())
	}

	tree := treeprint.NewWithRoot(fmt.Sprintf("%s root=#%d pages=%d", df.Name(), root, df.PageCount()))
	if err := render(tree, load, leafLabel, root, rootInternal); err != nil {
		return err
	}
	_, err = io.WriteString(w, tree.String())
	return err
}

func render(tree treeprint.Tree, load pageLoader, leafLabel func(uint64, []byte) string, num uint64, internal bool) error {
	data, err := load(num)
	if err != nil {
		return errors.Wrapf(err, "inspect page %d", num)
	}
	if !internal {
		tree.AddNode(leafLabel(num, data))
		return nil
	}

	ip := NewInternalPage(data)
	if ip.Size() > InternalCapacity {
		return errors.Errorf("inspect page %d: internal size %d exceeds capacity", num, ip.Size())
	}
	branch := tree.AddMetaBranch(fmt.Sprintf("internal #%d", num), fmt.Sprint(ip.Keys()))
	for i := 0; i <= ip.Size(); i++ {
		if err := render(branch, load, leafLabel, ip.Child(i), ip.ChildrenInternal()); err != nil {
			return err
		}
	}
	return nil
}
