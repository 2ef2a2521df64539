package bufferpool

import (
	"SlotDB/logger"
	"SlotDB/storage_engine/page"
	"SlotDB/types"
	"container/list"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

/*
This file is the main file of the bufferpool
The buffer pool works on LRU based caching mechanism
and resolves the owning file through the catalog for loading pages on a miss
and for writing dirty pages back before their slot is reused

Pages are identified by page.PageID (file name, page number)

GetPage hands out a Frame, not the bytes themselves. Every Frame remembers the
generation of its slot; the slot's generation changes whenever it is given to
another page, so a Frame held across an eviction fails loudly on its next use.
*/

var (
	ErrPageNotResident = errors.New("page not in buffer pool")
	ErrStaleFrame      = errors.New("frame no longer holds its page")
	ErrInvalidConfig   = errors.New("invalid buffer pool configuration")
)

// NewBufferPool creates a new buffer pool with the given number of slots.
func NewBufferPool(capacity int, resolver page.Resolver) (*BufferPool, error) {
	if capacity <= 0 {
		return nil, types.PreconditionError("NewBufferPool", errors.Wrapf(ErrInvalidConfig, "capacity %d", capacity))
	}
	bp := &BufferPool{
		slots:      make([]page.Page, capacity),
		owner:      make([]page.PageID, capacity),
		generation: make([]uint64, capacity),
		pageTable:  make(map[page.PageID]int, capacity),
		lru:        list.New(),
		lruIndex:   make(map[page.PageID]*list.Element, capacity),
		dirty:      make(map[page.PageID]struct{}),
		free:       make([]int, capacity),
		resolver:   resolver,
	}
	for i := range bp.free {
		bp.free[i] = i
	}
	return bp, nil
}

// GetPage returns a frame for pid, loading the page from its file on a miss
// and making it the most recently used page.
func (bp *BufferPool) GetPage(pid page.PageID) (*Frame, error) {
	if slot, ok := bp.pageTable[pid]; ok {
		bp.hits++
		logger.Debug("[BufferPool] HIT", zap.Stringer("page", pid), zap.Int("slot", slot))
		bp.lru.MoveToFront(bp.lruIndex[pid])
		return bp.frame(slot), nil
	}

	bp.misses++
	logger.Debug("[BufferPool] MISS, loading from disk", zap.Stringer("page", pid))

	file, err := bp.resolve(pid.File)
	if err != nil {
		return nil, err
	}

	slot, err := bp.takeSlot()
	if err != nil {
		return nil, err
	}

	if err := file.ReadPage(pid.Num, bp.slots[slot][:]); err != nil {
		bp.free = append([]int{slot}, bp.free...)
		return nil, errors.Wrapf(err, "failed to read page %s from disk", pid)
	}

	bp.owner[slot] = pid
	bp.pageTable[pid] = slot
	bp.lruIndex[pid] = bp.lru.PushFront(pid)
	return bp.frame(slot), nil
}

// MarkDirty marks a resident page as modified.
func (bp *BufferPool) MarkDirty(pid page.PageID) error {
	if !bp.Contains(pid) {
		return types.PreconditionError("MarkDirty", errors.Wrap(ErrPageNotResident, pid.String()))
	}
	bp.dirty[pid] = struct{}{}
	return nil
}

// IsDirty reports whether a resident page has been modified since its last write-back.
func (bp *BufferPool) IsDirty(pid page.PageID) (bool, error) {
	if !bp.Contains(pid) {
		return false, types.PreconditionError("IsDirty", errors.Wrap(ErrPageNotResident, pid.String()))
	}
	_, ok := bp.dirty[pid]
	return ok, nil
}

func (bp *BufferPool) Contains(pid page.PageID) bool {
	_, ok := bp.pageTable[pid]
	return ok
}

// DiscardPage drops pid from the pool without writing it back.
func (bp *BufferPool) DiscardPage(pid page.PageID) {
	slot, ok := bp.pageTable[pid]
	if !ok {
		return
	}
	bp.forget(pid, slot)
	bp.free = append(bp.free, slot)
	logger.Debug("[BufferPool] DISCARD", zap.Stringer("page", pid))
}

// DiscardFile drops every resident page of the named file without writing
// any of them back.
func (bp *BufferPool) DiscardFile(name string) {
	for pid := range bp.pageTable {
		if pid.File == name {
			bp.DiscardPage(pid)
		}
	}
}

// FlushPage writes pid back and clears its dirty flag if it is resident and dirty.
func (bp *BufferPool) FlushPage(pid page.PageID) error {
	slot, ok := bp.pageTable[pid]
	if !ok {
		return nil
	}
	if _, dirty := bp.dirty[pid]; !dirty {
		return nil
	}
	file, err := bp.resolve(pid.File)
	if err != nil {
		return err
	}
	if err := file.WritePage(pid.Num, bp.slots[slot][:]); err != nil {
		return errors.Wrapf(err, "failed to flush page %s", pid)
	}
	delete(bp.dirty, pid)
	bp.writeBacks++
	logger.Debug("[BufferPool] FLUSH", zap.Stringer("page", pid))
	return nil
}

// FlushFile flushes every resident dirty page of the named file.
func (bp *BufferPool) FlushFile(name string) error {
	for _, pid := range bp.dirtyPages() {
		if pid.File != name {
			continue
		}
		if err := bp.FlushPage(pid); err != nil {
			return err
		}
	}
	return nil
}

// FlushAllPages writes all dirty pages to disk
func (bp *BufferPool) FlushAllPages() error {
	pids := bp.dirtyPages()
	logger.Debug("[BufferPool] FlushAllPages", zap.Int("dirty", len(pids)))
	for _, pid := range pids {
		if err := bp.FlushPage(pid); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes every dirty page. The pool must not be used afterwards.
func (bp *BufferPool) Close() error {
	return bp.FlushAllPages()
}

// takeSlot returns a free slot, evicting the least recently used page if
// there is none.
// Assumes the page being loaded is not resident.
func (bp *BufferPool) takeSlot() (int, error) {
	if len(bp.free) > 0 {
		slot := bp.free[0]
		bp.free = bp.free[1:]
		return slot, nil
	}

	tail := bp.lru.Back()
	if tail == nil {
		return 0, types.CapacityError("takeSlot", errors.New("no slot to evict"))
	}
	victim := tail.Value.(page.PageID)
	slot := bp.pageTable[victim]

	_, isDirty := bp.dirty[victim]
	logger.Debug("[BufferPool] EVICT", zap.Stringer("page", victim), zap.Bool("dirty", isDirty))
	if isDirty {
		if err := bp.FlushPage(victim); err != nil {
			return 0, errors.Wrapf(err, "failed to write page %s during eviction", victim)
		}
	}

	bp.forget(victim, slot)
	bp.evictions++
	return slot, nil
}

// forget removes every trace of pid and retires the current generation of its slot.
func (bp *BufferPool) forget(pid page.PageID, slot int) {
	delete(bp.pageTable, pid)
	if el, ok := bp.lruIndex[pid]; ok {
		bp.lru.Remove(el)
		delete(bp.lruIndex, pid)
	}
	delete(bp.dirty, pid)
	bp.owner[slot] = page.PageID{}
	bp.generation[slot]++
}

func (bp *BufferPool) resolve(name string) (page.ReadWriter, error) {
	if bp.resolver == nil {
		return nil, types.PreconditionError("resolve", errors.New("no file resolver set"))
	}
	file, err := bp.resolver.Resolve(name)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve file %q", name)
	}
	return file, nil
}

func (bp *BufferPool) frame(slot int) *Frame {
	return &Frame{pool: bp, slot: slot, gen: bp.generation[slot], id: bp.owner[slot]}
}

func (bp *BufferPool) dirtyPages() []page.PageID {
	pids := make([]page.PageID, 0, len(bp.dirty))
	for pid := range bp.dirty {
		pids = append(pids, pid)
	}
	return pids
}
