package bplus

import (
	"SlotDB/logger"
	"SlotDB/types"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Insert adds row at its key position. A row whose key is already present
// replaces the stored row.
func (t *BTreeFile) Insert(row types.Row) error {
	if !t.Schema().Compatible(row) {
		return types.PreconditionError("Insert", errors.Wrapf(ErrRowMismatch, "%s into %s", row, t.Name()))
	}
	key, _ := row.Fields[t.keyIndex].Int()

	path, leafNum, err := t.findLeaf(key)
	if err != nil {
		return errors.Wrap(err, "Insert: failed to find leaf")
	}
	leaf, fr, err := t.fetchLeaf(leafNum)
	if err != nil {
		return err
	}

	// A leaf is left full when an earlier split failed. Split it now and
	// route the row again.
	if _, found := leaf.Find(key); !found && leaf.Size() >= leaf.Capacity() {
		logger.Warn("[BTree] splitting full leaf before insert", zap.String("file", t.Name()), zap.Uint64("leaf", leafNum))
		if err := t.splitAndPromote(path, leafNum); err != nil {
			return err
		}
		return t.Insert(row)
	}

	full, err := leaf.Insert(row)
	if err != nil {
		return err
	}
	if err := fr.MarkDirty(); err != nil {
		return err
	}

	// Split if full.
	if !full {
		return nil
	}
	return t.splitAndPromote(path, leafNum)
}

func (t *BTreeFile) splitAndPromote(path []uint64, leafNum uint64) error {
	splitKey, right, err := t.splitLeaf(leafNum)
	if err != nil {
		return err
	}
	return t.insertIntoParent(path, leafNum, splitKey, right, false)
}
