package storageengine

import (
	heapfile "SlotDB/storage_engine/access/heapfile_manager"
	indexfile "SlotDB/storage_engine/access/indexfile_manager"
	"SlotDB/storage_engine/bufferpool"
	"SlotDB/storage_engine/catalog"
)

// StorageEngine is the database context: one data directory, one catalog and
// one buffer pool shared by every table file in it.
type StorageEngine struct {
	BufferPool *bufferpool.BufferPool

	CatalogManager *catalog.CatalogManager
	IndexManager   *indexfile.IndexFileManager
	HeapManager    *heapfile.HeapFileManager

	DbRoot string
}

// TableInfo is a summary of one open table.
type TableInfo struct {
	Name      string
	Kind      string
	Columns   int
	RowLength int
	Pages     uint64
	Bytes     int64
}
