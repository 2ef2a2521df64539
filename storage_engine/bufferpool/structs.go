package bufferpool

import (
	"SlotDB/storage_engine/page"
	"container/list"
)

// ############################################# BUFFER POOL #############################################

// BufferPool caches pages in a fixed array of slots allocated once.
// Pages are identified by page.PageID (file name + page number).
//
// At every point the page table and the free list partition the slots, the
// LRU list holds exactly the resident pages, and dirty is a subset of the
// resident pages.
type BufferPool struct {
	slots      []page.Page
	owner      []page.PageID // which page occupies each slot
	generation []uint64      // bumped whenever a slot changes owner

	pageTable map[page.PageID]int           // resident page -> slot
	lru       *list.List                    // of page.PageID, front = most recently used
	lruIndex  map[page.PageID]*list.Element // resident page -> its LRU element
	dirty     map[page.PageID]struct{}
	free      []int // free slot indices, used front first

	resolver page.Resolver

	hits       uint64
	misses     uint64
	evictions  uint64
	writeBacks uint64
}

// Frame is a handle on a resident page. It stays valid until the pool gives
// its slot to another page; after that Data reports ErrStaleFrame instead of
// returning somebody else's bytes.
type Frame struct {
	pool *BufferPool
	slot int
	gen  uint64
	id   page.PageID
}

// Stats returns buffer pool statistics
type BufferPoolStats struct {
	TotalPages int
	DirtyPages int
	Capacity   int
	Hits       uint64
	Misses     uint64
	Evictions  uint64
	WriteBacks uint64
}

func (s BufferPoolStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
