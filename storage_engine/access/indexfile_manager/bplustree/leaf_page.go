package bplus

import (
	"SlotDB/storage_engine/tuple"
	"SlotDB/types"
	"encoding/binary"

	"github.com/pkg/errors"
)

/*
LeafPage reinterprets one page as a leaf of the tree.

Layout:

	Offset              Size          Field
	──────────────────────────────────────────────────────────────
	0                   8             size (number of rows) uint64
	8                   8             next leaf page number, 0 = last leaf
	16                  rowLen*cap    rows, sorted by key, no gaps
	──────────────────────────────────────────────────────────────

	cap = (PageSize-16)/rowLen

The key is an INT field of the row, read in place at its descriptor offset.
*/

var (
	ErrLeafFull    = errors.New("leaf page is full")
	ErrSlotInvalid = errors.New("slot past the leaf's row count")
	ErrKeyNotInt   = errors.New("key field is not INT")
	ErrRowMismatch = errors.New("row does not match tree schema")
)

// LeafCapacity is the number of rowLen-byte rows a pageSize-byte leaf holds.
func LeafCapacity(pageSize, rowLen int) int {
	return (pageSize - pageHeaderSize) / rowLen
}

// NewLeafPage wraps data; keyIndex must name an INT field of schema.
func NewLeafPage(data []byte, schema *tuple.Descriptor, keyIndex int) (*LeafPage, error) {
	if keyIndex < 0 || keyIndex >= schema.Size() || schema.TypeOf(keyIndex) != types.TypeInt {
		return nil, types.PreconditionError("NewLeafPage", errors.Wrapf(ErrKeyNotInt, "field %d", keyIndex))
	}
	off, err := schema.OffsetOf(keyIndex)
	if err != nil {
		return nil, err
	}
	return &LeafPage{
		data:      data,
		schema:    schema,
		keyIndex:  keyIndex,
		keyOffset: off,
		rowLen:    schema.Length(),
		capacity:  LeafCapacity(len(data), schema.Length()),
	}, nil
}

func (lp *LeafPage) Capacity() int { return lp.capacity }

func (lp *LeafPage) Size() int {
	return int(binary.LittleEndian.Uint64(lp.data[0:8]))
}

func (lp *LeafPage) setSize(n int) {
	binary.LittleEndian.PutUint64(lp.data[0:8], uint64(n))
}

// Next is the page number of the following leaf, 0 if this is the last one.
func (lp *LeafPage) Next() uint64 {
	return binary.LittleEndian.Uint64(lp.data[8:16])
}

func (lp *LeafPage) SetNext(n uint64) {
	binary.LittleEndian.PutUint64(lp.data[8:16], n)
}

func (lp *LeafPage) rowBytes(slot int) []byte {
	off := pageHeaderSize + slot*lp.rowLen
	return lp.data[off : off+lp.rowLen]
}

// Key reads the key of the row in slot without decoding the row.
func (lp *LeafPage) Key(slot int) int32 {
	off := pageHeaderSize + slot*lp.rowLen + lp.keyOffset
	return int32(binary.LittleEndian.Uint32(lp.data[off:]))
}

// Find returns the slot holding key, or the slot it would be inserted at.
func (lp *LeafPage) Find(key int32) (int, bool) {
	size := lp.Size()
	slot := lowerBound(size, lp.Key, key)
	return slot, slot < size && lp.Key(slot) == key
}

func (lp *LeafPage) Get(slot int) (types.Row, error) {
	if slot < 0 || slot >= lp.Size() {
		return types.Row{}, types.PreconditionError("LeafPage.Get",
			errors.Wrapf(ErrSlotInvalid, "slot %d, size %d", slot, lp.Size()))
	}
	return lp.schema.Deserialize(lp.rowBytes(slot))
}

// Insert writes row at its sorted position, or over the row with the same
// key. It reports whether the page is now full.
func (lp *LeafPage) Insert(row types.Row) (bool, error) {
	if !lp.schema.Compatible(row) {
		return false, types.PreconditionError("LeafPage.Insert", errors.Wrapf(ErrRowMismatch, "%s", row))
	}
	key, _ := row.Fields[lp.keyIndex].Int()
	size := lp.Size()

	slot, found := lp.Find(key)
	if found {
		return false, lp.schema.Serialize(lp.rowBytes(slot), row)
	}
	if size >= lp.capacity {
		return false, types.CapacityError("LeafPage.Insert", errors.Wrapf(ErrLeafFull, "size %d", size))
	}

	start := pageHeaderSize + slot*lp.rowLen
	end := pageHeaderSize + size*lp.rowLen
	copy(lp.data[start+lp.rowLen:end+lp.rowLen], lp.data[start:end])
	if err := lp.schema.Serialize(lp.rowBytes(slot), row); err != nil {
		return false, err
	}
	lp.setSize(size + 1)
	return size+1 == lp.capacity, nil
}

// Split moves rows [size/2, size) into right, a zeroed page numbered
// rightNum, and links it after this leaf. It returns right's first key.
func (lp *LeafPage) Split(right *LeafPage, rightNum uint64) int32 {
	size := lp.Size()
	mid := size / 2

	from := pageHeaderSize + mid*lp.rowLen
	to := pageHeaderSize + size*lp.rowLen
	copy(right.data[pageHeaderSize:], lp.data[from:to])
	right.setSize(size - mid)
	right.SetNext(lp.Next())

	clear(lp.data[from:to])
	lp.setSize(mid)
	lp.SetNext(rightNum)
	return right.Key(0)
}
