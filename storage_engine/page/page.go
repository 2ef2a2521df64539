package page

import (
	"SlotDB/types"
	"fmt"
)

const (
	PageSize = types.PageSize
)

/*
This contains the page identity shared by every layer.

A page is PageSize raw bytes; it has no header of its own. What the bytes
mean is decided by the row organization that owns the file:
for heap page: /SlotDB/storage_engine/access/heapfile_manager/heap_page.go
for index pages: /SlotDB/storage_engine/access/indexfile_manager/bplustree/index_page.go and leaf_page.go

The buffer pool owns the memory of every resident page; page views alias those
bytes in place and own nothing.
*/

// Page is one fixed-size block of bytes.
type Page [PageSize]byte

// PageID names one page across the whole store: the file it lives in and its
// position inside that file.
type PageID struct {
	File string
	Num  uint64
}

func (id PageID) String() string {
	return fmt.Sprintf("%s#%d", id.File, id.Num)
}

// ReadWriter is the page I/O a backing file offers the buffer pool.
type ReadWriter interface {
	ReadPage(num uint64, buf []byte) error
	WritePage(num uint64, buf []byte) error
}

// Resolver maps a file name to its page I/O; the catalog implements it.
type Resolver interface {
	Resolve(name string) (ReadWriter, error)
}
