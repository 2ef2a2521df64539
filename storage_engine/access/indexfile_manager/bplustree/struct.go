// Structure of B+ Tree
/*
Tree
 ├── Internal Page (int32 keys + child page numbers)
 │      └── Child Internal Pages ...
 │             └── Leaf Pages (whole rows sorted by key + next pointer)

- keys: sorted ascending, unique
- internal pages: children length == size+1
- leaf pages: rows sorted by the INT key field, no duplicate keys
- leaf pages linked with `next` for range scans, 0 ends the chain
- all leaf pages at same depth
- page 0 of the file is the meta page holding the root

Nothing is cached outside the buffer pool: a page is always read through a
Frame and reinterpreted in place by an InternalPage or LeafPage view.
*/
package bplus

import (
	"SlotDB/storage_engine/bufferpool"
	diskmanager "SlotDB/storage_engine/disk_manager"
	"SlotDB/storage_engine/page"
	"SlotDB/storage_engine/tuple"
)

const (
	pageHeaderSize = 16

	// InternalCapacity is the maximum key count of an internal page:
	// 16 header bytes, c int32 keys and c+1 uint64 children in one page.
	InternalCapacity = (page.PageSize - pageHeaderSize - 8) / 12

	metaPage      uint64 = 0
	firstTreePage uint64 = 1
)

// BTreeFile is a row store whose rows are kept sorted by one INT field.
type BTreeFile struct {
	*diskmanager.DbFile
	bufferPool *bufferpool.BufferPool

	keyIndex     int
	root         uint64
	rootInternal bool
}

// InternalPage is a view over an internal page's bytes.
type InternalPage struct {
	data []byte
}

// LeafPage is a view over a leaf page's bytes.
type LeafPage struct {
	data      []byte
	schema    *tuple.Descriptor
	keyIndex  int
	keyOffset int
	rowLen    int
	capacity  int
}
