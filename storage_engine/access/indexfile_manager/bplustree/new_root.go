package bplus

import (
	"SlotDB/logger"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// createNewRoot creates a new root internal page with left and right as its
// two children, separated by key. childrenInternal tells whether left and
// right are internal pages.
func (t *BTreeFile) createNewRoot(left uint64, key int32, right uint64, childrenInternal bool) error {
	num, err := t.allocPage()
	if err != nil {
		return errors.Wrap(err, "createNewRoot: failed to allocate new root")
	}
	fr, data, err := t.pageFrame(num)
	if err != nil {
		return err
	}
	NewInternalPage(data).InitRoot(childrenInternal, key, left, right)
	if err := fr.MarkDirty(); err != nil {
		return err
	}

	t.root, t.rootInternal = num, true
	logger.Debug("[BTree] new root", zap.String("file", t.Name()), zap.Uint64("root", num), zap.Int32("key", key))
	return t.saveRoot()
}
