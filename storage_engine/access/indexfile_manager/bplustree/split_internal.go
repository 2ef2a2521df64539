package bplus

import (
	"SlotDB/logger"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// splitInternal splits a full internal page and returns the promoted middle
// key with the new right sibling.
func (t *BTreeFile) splitInternal(num uint64) (int32, uint64, error) {
	rightNum, err := t.allocPage()
	if err != nil {
		return 0, 0, errors.Wrap(err, "splitInternal: failed to allocate right sibling")
	}

	lf, rf, ld, rd, err := t.framePair(num, rightNum)
	if err != nil {
		return 0, 0, errors.Wrap(err, "splitInternal")
	}
	promoted := NewInternalPage(ld).Split(NewInternalPage(rd))

	if err := lf.MarkDirty(); err != nil {
		return 0, 0, err
	}
	if err := rf.MarkDirty(); err != nil {
		return 0, 0, err
	}
	logger.Debug("[BTree] split internal", zap.String("file", t.Name()),
		zap.Uint64("left", num), zap.Uint64("right", rightNum), zap.Int32("promoted", promoted))
	return promoted, rightNum, nil
}
