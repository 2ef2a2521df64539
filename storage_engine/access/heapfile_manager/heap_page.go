package heapfile

import (
	"SlotDB/storage_engine/tuple"
	"SlotDB/types"

	"github.com/pkg/errors"
)

/*
This file contains the heap page view: a HeapPage reinterprets one page's bytes
in place. It owns no memory; the bytes belong to the buffer pool slot.

Heap page binary layout:

	Offset                     Size                 Field
	──────────────────────────────────────────────────────────────────────
	0                          ceil(capacity/8)     presence bitmap, 1 bit per slot
	ceil(capacity/8)           gap                  unused padding
	PageSize-capacity*rowLen   capacity*rowLen      row slots, slot i at dataStart + i*rowLen
	──────────────────────────────────────────────────────────────────────

	capacity = floor(PageSize*8 / (rowLen*8 + 1))

Bit ordering is MSB-first: slot i is bit (7 - i%8) of bitmap byte i/8.
A slot holds a row iff its bit is set. Rows never move once written.
*/

var (
	ErrSlotEmpty      = errors.New("slot is empty")
	ErrSlotOutOfRange = errors.New("slot out of range")
)

type HeapPage struct {
	data      []byte
	schema    *tuple.Descriptor
	capacity  int
	dataStart int
}

// HeapCapacity is the number of rowLen-byte slots a pageSize-byte page holds
// when each slot costs one extra bitmap bit.
func HeapCapacity(pageSize, rowLen int) int {
	return (pageSize * 8) / (rowLen*8 + 1)
}

// NewHeapPage wraps data, which must be one whole page.
func NewHeapPage(data []byte, schema *tuple.Descriptor) *HeapPage {
	capacity := HeapCapacity(len(data), schema.Length())
	return &HeapPage{
		data:      data,
		schema:    schema,
		capacity:  capacity,
		dataStart: len(data) - capacity*schema.Length(),
	}
}

func (hp *HeapPage) Capacity() int { return hp.capacity }

// Begin returns the first populated slot, or End() if the page is empty.
func (hp *HeapPage) Begin() int {
	return hp.advance(0)
}

// End is the sentinel slot one past the last.
func (hp *HeapPage) End() int {
	return hp.capacity
}

// Next returns the first populated slot after slot, or End().
func (hp *HeapPage) Next(slot int) int {
	return hp.advance(slot + 1)
}

// Empty reports whether slot holds no row. Slots past the end count as empty.
func (hp *HeapPage) Empty(slot int) bool {
	if slot < 0 || slot >= hp.capacity {
		return true
	}
	return hp.data[slot/8]&bitFor(slot) == 0
}

// Insert writes row into the first free slot. It returns false, without
// error, when the page is full.
func (hp *HeapPage) Insert(row types.Row) (bool, error) {
	_, ok, err := hp.InsertAt(row)
	return ok, err
}

// InsertAt is Insert that also reports the slot used.
func (hp *HeapPage) InsertAt(row types.Row) (int, bool, error) {
	slot, ok := hp.firstFree()
	if !ok {
		return 0, false, nil
	}
	if err := hp.schema.Serialize(hp.slotBytes(slot), row); err != nil {
		return 0, false, errors.Wrap(err, "heap page insert")
	}
	hp.data[slot/8] |= bitFor(slot)
	return slot, true, nil
}

// Delete clears the slot's bit and zeroes its bytes.
func (hp *HeapPage) Delete(slot int) error {
	if err := hp.checkPopulated("Delete", slot); err != nil {
		return err
	}
	hp.data[slot/8] &^= bitFor(slot)
	clear(hp.slotBytes(slot))
	return nil
}

// Get decodes the row in slot.
func (hp *HeapPage) Get(slot int) (types.Row, error) {
	if err := hp.checkPopulated("Get", slot); err != nil {
		return types.Row{}, err
	}
	return hp.schema.Deserialize(hp.slotBytes(slot))
}

// Count returns the number of populated slots.
func (hp *HeapPage) Count() int {
	n := 0
	for s := hp.Begin(); s < hp.End(); s = hp.Next(s) {
		n++
	}
	return n
}
