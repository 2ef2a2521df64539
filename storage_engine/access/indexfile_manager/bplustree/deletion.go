package bplus

import (
	"SlotDB/storage_engine/access"
	diskmanager "SlotDB/storage_engine/disk_manager"
	"SlotDB/types"

	"github.com/pkg/errors"
)

// Delete is not supported: leaves never shrink, so no merge or redistribution
// exists.
func (t *BTreeFile) Delete(access.Cursor) error {
	return types.UnsupportedError("Delete", errors.Wrapf(diskmanager.ErrNotImplemented, "tree file %s", t.Name()))
}
