package heapfile

import (
	"SlotDB/storage_engine/bufferpool"
	diskmanager "SlotDB/storage_engine/disk_manager"
)

// HeapFile is an unordered row store: a sequence of heap pages that only
// grows at the end. It embeds the paged file for page I/O and overrides the
// row operations.
type HeapFile struct {
	*diskmanager.DbFile
	bufferPool *bufferpool.BufferPool
}

type HeapFileManager struct {
	baseDir    string
	bufferPool *bufferpool.BufferPool
}
