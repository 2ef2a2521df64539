package bufferpool

import (
	"SlotDB/storage_engine/page"
	"SlotDB/types"

	"github.com/pkg/errors"
)

/*
This file holds helper functions for the bufferpool
*/

func (f *Frame) ID() page.PageID {
	return f.id
}

// Data returns the page bytes, aliasing pool storage. The slice must not be
// kept past the next GetPage call on the same pool.
func (f *Frame) Data() ([]byte, error) {
	if !f.Valid() {
		return nil, types.PreconditionError("Frame.Data", errors.Wrap(ErrStaleFrame, f.id.String()))
	}
	return f.pool.slots[f.slot][:], nil
}

// Valid reports whether the frame's slot still holds its page.
func (f *Frame) Valid() bool {
	return f.pool.generation[f.slot] == f.gen && f.pool.owner[f.slot] == f.id
}

// MarkDirty marks the frame's page as modified.
func (f *Frame) MarkDirty() error {
	if !f.Valid() {
		return types.PreconditionError("Frame.MarkDirty", errors.Wrap(ErrStaleFrame, f.id.String()))
	}
	return f.pool.MarkDirty(f.id)
}

// GetStats returns current buffer pool statistics
func (bp *BufferPool) GetStats() BufferPoolStats {
	return BufferPoolStats{
		TotalPages: len(bp.pageTable),
		DirtyPages: len(bp.dirty),
		Capacity:   len(bp.slots),
		Hits:       bp.hits,
		Misses:     bp.misses,
		Evictions:  bp.evictions,
		WriteBacks: bp.writeBacks,
	}
}

// Size returns the current number of pages in the buffer pool
func (bp *BufferPool) Size() int {
	return len(bp.pageTable)
}

// Capacity returns the maximum capacity of the buffer pool
func (bp *BufferPool) Capacity() int {
	return len(bp.slots)
}

// LRUOrder lists resident pages from most to least recently used.
func (bp *BufferPool) LRUOrder() []page.PageID {
	out := make([]page.PageID, 0, bp.lru.Len())
	for el := bp.lru.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(page.PageID))
	}
	return out
}

// SetResolver replaces the file resolver.
func (bp *BufferPool) SetResolver(r page.Resolver) {
	bp.resolver = r
}
