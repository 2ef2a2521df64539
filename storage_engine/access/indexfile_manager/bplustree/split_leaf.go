package bplus

import (
	"SlotDB/logger"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// splitLeaf moves the upper half of leaf num into a new page and returns the
// new page's first key and number.
func (t *BTreeFile) splitLeaf(num uint64) (int32, uint64, error) {
	rightNum, err := t.allocPage()
	if err != nil {
		return 0, 0, errors.Wrap(err, "splitLeaf: failed to allocate right sibling")
	}

	lf, rf, ld, rd, err := t.framePair(num, rightNum)
	if err != nil {
		return 0, 0, errors.Wrap(err, "splitLeaf")
	}
	left, err := NewLeafPage(ld, t.Schema(), t.keyIndex)
	if err != nil {
		return 0, 0, err
	}
	right, err := NewLeafPage(rd, t.Schema(), t.keyIndex)
	if err != nil {
		return 0, 0, err
	}

	// right inherits leaf's old next pointer
	splitKey := left.Split(right, rightNum)

	if err := lf.MarkDirty(); err != nil {
		return 0, 0, err
	}
	if err := rf.MarkDirty(); err != nil {
		return 0, 0, err
	}
	logger.Debug("[BTree] split leaf", zap.String("file", t.Name()),
		zap.Uint64("left", num), zap.Uint64("right", rightNum), zap.Int32("key", splitKey))
	return splitKey, rightNum, nil
}
