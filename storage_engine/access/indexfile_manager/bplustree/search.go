package bplus

import (
	"SlotDB/types"

	"github.com/pkg/errors"
)

// Lookup returns the row stored under key, if any.
func (t *BTreeFile) Lookup(key int32) (types.Row, bool, error) {
	_, leafNum, err := t.findLeaf(key)
	if err != nil {
		return types.Row{}, false, errors.Wrap(err, "failed to find leaf")
	}
	leaf, _, err := t.fetchLeaf(leafNum)
	if err != nil {
		return types.Row{}, false, err
	}
	slot, found := leaf.Find(key)
	if !found {
		return types.Row{}, false, nil
	}
	row, err := leaf.Get(slot)
	return row, err == nil, err
}
