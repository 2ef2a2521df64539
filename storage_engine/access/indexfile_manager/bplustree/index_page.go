package bplus

import (
	"SlotDB/types"
	"encoding/binary"

	"github.com/pkg/errors"
)

/*
InternalPage reinterprets one page as an internal node of the tree.

Layout:

	Offset              Size          Field
	──────────────────────────────────────────────────────────────
	0                   8             size (number of keys) uint64
	8                   1             children-are-internal flag
	9                   7             reserved
	16                  4*c           keys, int32, ascending
	16+4*c              8*(c+1)       children, uint64 page numbers
	──────────────────────────────────────────────────────────────

	c = InternalCapacity = (PageSize-16-8)/12

Invariant: the subtree under children[i] holds keys < keys[i], and
keys[i] <= every key under children[i+1].
*/

var (
	ErrInternalFull = errors.New("internal page is full")
	ErrDuplicateKey = errors.New("separator key already present")
)

const (
	internalFlagIndex = 8
	childrenOffset    = pageHeaderSize + 4*InternalCapacity
)

func NewInternalPage(data []byte) *InternalPage {
	return &InternalPage{data: data}
}

// Size is the number of keys; the page has Size()+1 children.
func (ip *InternalPage) Size() int {
	return int(binary.LittleEndian.Uint64(ip.data[0:8]))
}

func (ip *InternalPage) setSize(n int) {
	binary.LittleEndian.PutUint64(ip.data[0:8], uint64(n))
}

// ChildrenInternal reports whether the children are internal pages (true)
// or leaves (false).
func (ip *InternalPage) ChildrenInternal() bool {
	return ip.data[internalFlagIndex] != 0
}

func (ip *InternalPage) setChildrenInternal(v bool) {
	if v {
		ip.data[internalFlagIndex] = 1
	} else {
		ip.data[internalFlagIndex] = 0
	}
}

func (ip *InternalPage) Key(i int) int32 {
	off := pageHeaderSize + 4*i
	return int32(binary.LittleEndian.Uint32(ip.data[off:]))
}

func (ip *InternalPage) setKey(i int, k int32) {
	off := pageHeaderSize + 4*i
	binary.LittleEndian.PutUint32(ip.data[off:], uint32(k))
}

func (ip *InternalPage) Child(i int) uint64 {
	off := childrenOffset + 8*i
	return binary.LittleEndian.Uint64(ip.data[off:])
}

func (ip *InternalPage) setChild(i int, c uint64) {
	off := childrenOffset + 8*i
	binary.LittleEndian.PutUint64(ip.data[off:], c)
}

// ChildIndex returns the index of the child whose subtree covers key.
func (ip *InternalPage) ChildIndex(key int32) int {
	return upperBound(ip.Size(), ip.Key, key)
}

// InitRoot turns the page into a fresh root with one key and two children.
func (ip *InternalPage) InitRoot(childrenInternal bool, key int32, left, right uint64) {
	clear(ip.data)
	ip.setChildrenInternal(childrenInternal)
	ip.setKey(0, key)
	ip.setChild(0, left)
	ip.setChild(1, right)
	ip.setSize(1)
}

// Insert places key at its sorted position with child as the subtree
// holding keys >= key. It reports whether the page is now full.
func (ip *InternalPage) Insert(key int32, child uint64) (bool, error) {
	size := ip.Size()
	if size >= InternalCapacity {
		return false, types.CapacityError("InternalPage.Insert", errors.Wrapf(ErrInternalFull, "size %d", size))
	}
	pos := lowerBound(size, ip.Key, key)
	if pos < size && ip.Key(pos) == key {
		return false, types.PreconditionError("InternalPage.Insert", errors.Wrapf(ErrDuplicateKey, "key %d", key))
	}

	// keys[pos:size] and children[pos+1:size+1] move right by one
	kOff := pageHeaderSize + 4*pos
	copy(ip.data[kOff+4:pageHeaderSize+4*(size+1)], ip.data[kOff:pageHeaderSize+4*size])
	cOff := childrenOffset + 8*(pos+1)
	copy(ip.data[cOff+8:childrenOffset+8*(size+2)], ip.data[cOff:childrenOffset+8*(size+1)])

	ip.setKey(pos, key)
	ip.setChild(pos+1, child)
	ip.setSize(size + 1)
	return size+1 == InternalCapacity, nil
}

// Split moves the upper half of the page into right, which must be a zeroed
// page. The middle key is returned for the parent and is kept in neither page.
func (ip *InternalPage) Split(right *InternalPage) int32 {
	size := ip.Size()
	mid := size / 2
	promoted := ip.Key(mid)

	right.setChildrenInternal(ip.ChildrenInternal())
	moved := size - mid - 1
	for i := 0; i < moved; i++ {
		right.setKey(i, ip.Key(mid+1+i))
	}
	for i := 0; i <= moved; i++ {
		right.setChild(i, ip.Child(mid+1+i))
	}
	right.setSize(moved)

	clear(ip.data[pageHeaderSize+4*mid : pageHeaderSize+4*size])
	clear(ip.data[childrenOffset+8*(mid+1) : childrenOffset+8*(size+1)])
	ip.setSize(mid)
	return promoted
}

// Keys returns a copy of the page's keys.
func (ip *InternalPage) Keys() []int32 {
	keys := make([]int32, ip.Size())
	for i := range keys {
		keys[i] = ip.Key(i)
	}
	return keys
}
