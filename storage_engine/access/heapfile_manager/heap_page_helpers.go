package heapfile

import (
	"SlotDB/types"

	"github.com/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Bitmap and slot addressing
// ─────────────────────────────────────────────────────────────────────────────

// bitFor is the mask of slot's bit inside its bitmap byte (MSB-first).
func bitFor(slot int) byte {
	return 1 << (7 - uint(slot%8))
}

func (hp *HeapPage) slotBytes(slot int) []byte {
	start := hp.dataStart + slot*hp.schema.Length()
	return hp.data[start : start+hp.schema.Length()]
}

func (hp *HeapPage) advance(from int) int {
	for s := from; s < hp.capacity; s++ {
		if !hp.Empty(s) {
			return s
		}
	}
	return hp.capacity
}

func (hp *HeapPage) firstFree() (int, bool) {
	for s := 0; s < hp.capacity; s++ {
		if hp.Empty(s) {
			return s, true
		}
	}
	return 0, false
}

func (hp *HeapPage) checkPopulated(op string, slot int) error {
	if slot < 0 || slot >= hp.capacity {
		return types.PreconditionError(op, errors.Wrapf(ErrSlotOutOfRange, "slot %d, capacity %d", slot, hp.capacity))
	}
	if hp.Empty(slot) {
		return types.PreconditionError(op, errors.Wrapf(ErrSlotEmpty, "slot %d", slot))
	}
	return nil
}
