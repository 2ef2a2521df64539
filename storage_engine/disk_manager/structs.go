package diskmanager

import (
	"SlotDB/storage_engine/tuple"
	"os"
)

// ############################################# DB FILE #############################################

// DbFile is one flat backing file of fixed-size pages. Page n lives at bytes
// [n*PageSize, (n+1)*PageSize).
type DbFile struct {
	name     string
	path     string
	file     *os.File
	schema   *tuple.Descriptor
	numPages uint64

	// access trace, in call order
	reads  []uint64
	writes []uint64
}
