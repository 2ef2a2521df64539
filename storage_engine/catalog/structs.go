package catalog

import (
	"SlotDB/storage_engine/access"
	"SlotDB/storage_engine/tuple"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/tidwall/btree"
)

// Table is what the catalog keeps under a name: a paged file that is also a
// row store. *diskmanager.DbFile, *heapfile.HeapFile and *bplus.BTreeFile all
// qualify.
type Table interface {
	access.RowStore

	ReadPage(num uint64, buf []byte) error
	WritePage(num uint64, buf []byte) error
	PageCount() uint64
	Size() int64
	Close() error
}

type CatalogManager struct {
	dbRoot string

	files       btree.Map[string, Table]                     // name -> open file, ordered by name
	descriptors *ristretto.Cache[string, *tuple.Descriptor] // signature -> descriptor
}
