package bplus

import (
	"SlotDB/storage_engine/access"
	"SlotDB/storage_engine/bufferpool"
	diskmanager "SlotDB/storage_engine/disk_manager"
	"SlotDB/storage_engine/page"
	"SlotDB/storage_engine/tuple"
	"SlotDB/types"
	"bytes"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/btree"
)

type oneFile struct{ df *diskmanager.DbFile }

func (o oneFile) Resolve(name string) (page.ReadWriter, error) {
	if name != o.df.Name() {
		return nil, types.PreconditionError("Resolve", errors.Errorf("no file %q", name))
	}
	return o.df, nil
}

// narrow rows: 4 + 64 bytes, 60 per leaf
func narrowSchema(t *testing.T) *tuple.Descriptor {
	t.Helper()
	d, err := tuple.NewDescriptor([]types.FieldType{types.TypeInt, types.TypeChar}, []string{"id", "name"})
	require.NoError(t, err)
	return d
}

func narrowRow(k int, name string) types.Row {
	return types.NewRow(types.IntField(int32(k)), types.CharField(name))
}

// wide rows: 15 CHAR columns then the key, 4 per leaf
func wideSchema(t *testing.T) *tuple.Descriptor {
	t.Helper()
	ts := make([]types.FieldType, 16)
	ns := make([]string, 16)
	for i := 0; i < 15; i++ {
		ts[i] = types.TypeChar
		ns[i] = fmt.Sprintf("c%d", i)
	}
	ts[15], ns[15] = types.TypeInt, "key"
	d, err := tuple.NewDescriptor(ts, ns)
	require.NoError(t, err)
	return d
}

func wideRow(k int32) types.Row {
	fs := make([]types.Field, 16)
	for i := 0; i < 15; i++ {
		fs[i] = types.CharField(fmt.Sprintf("%d/%d", k, i))
	}
	fs[15] = types.IntField(k)
	return types.NewRow(fs...)
}

func openTree(t *testing.T, path string, schema *tuple.Descriptor, keyIndex, poolPages int) (*BTreeFile, *bufferpool.BufferPool) {
	t.Helper()
	df, err := diskmanager.Open(path, schema)
	require.NoError(t, err)
	t.Cleanup(func() { df.Close() })

	bp, err := bufferpool.NewBufferPool(poolPages, oneFile{df})
	require.NoError(t, err)
	tree, err := OpenBTreeFile(df, bp, keyIndex)
	require.NoError(t, err)
	return tree, bp
}

func keysOf(t *testing.T, tree *BTreeFile, keyIndex int) []int32 {
	t.Helper()
	rows, err := access.Collect(tree)
	require.NoError(t, err)
	keys := make([]int32, len(rows))
	for i, r := range rows {
		keys[i], _ = r.Field(keyIndex).Int()
	}
	return keys
}

func TestInternalPageInsertAndChildIndex(t *testing.T) {
	ip := NewInternalPage(make([]byte, page.PageSize))
	ip.InitRoot(false, 20, 100, 200)

	full, err := ip.Insert(10, 300)
	require.NoError(t, err)
	assert.False(t, full)
	full, err = ip.Insert(30, 400)
	require.NoError(t, err)
	assert.False(t, full)

	assert.Equal(t, []int32{10, 20, 30}, ip.Keys())
	children := []uint64{ip.Child(0), ip.Child(1), ip.Child(2), ip.Child(3)}
	assert.Equal(t, []uint64{100, 300, 200, 400}, children)

	assert.Equal(t, 0, ip.ChildIndex(5))
	assert.Equal(t, 1, ip.ChildIndex(10), "equal key goes right")
	assert.Equal(t, 2, ip.ChildIndex(25))
	assert.Equal(t, 3, ip.ChildIndex(99))

	_, err = ip.Insert(20, 500)
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestInternalPageSplit(t *testing.T) {
	assert.Equal(t, 339, InternalCapacity)

	ip := NewInternalPage(make([]byte, page.PageSize))
	ip.InitRoot(true, 0, 1000, 1001)
	var full bool
	var err error
	for k := 1; k < InternalCapacity; k++ {
		full, err = ip.Insert(int32(k), uint64(1001+k))
		require.NoError(t, err)
	}
	require.True(t, full)
	_, err = ip.Insert(5000, 1)
	assert.True(t, types.IsCapacity(err))

	right := NewInternalPage(make([]byte, page.PageSize))
	promoted := ip.Split(right)

	mid := InternalCapacity / 2
	assert.Equal(t, int32(mid), promoted)
	assert.Equal(t, mid, ip.Size())
	assert.Equal(t, InternalCapacity-mid-1, right.Size())
	assert.True(t, right.ChildrenInternal())
	assert.Equal(t, int32(mid-1), ip.Key(ip.Size()-1))
	assert.Equal(t, int32(mid+1), right.Key(0))
	assert.Equal(t, uint64(1000+mid), ip.Child(mid))
	assert.Equal(t, uint64(1000+mid+1), right.Child(0))
}

func TestLeafPageInsertSortedAndOverwrite(t *testing.T) {
	lp, err := NewLeafPage(make([]byte, page.PageSize), narrowSchema(t), 0)
	require.NoError(t, err)
	assert.Equal(t, 60, lp.Capacity())

	for _, k := range []int{5, 1, 3} {
		full, err := lp.Insert(narrowRow(k, "a"))
		require.NoError(t, err)
		assert.False(t, full)
	}
	full, err := lp.Insert(narrowRow(3, "b"))
	require.NoError(t, err)
	assert.False(t, full)
	assert.Equal(t, 3, lp.Size())

	var keys []int32
	for s := 0; s < lp.Size(); s++ {
		keys = append(keys, lp.Key(s))
	}
	assert.Equal(t, []int32{1, 3, 5}, keys)

	row, err := lp.Get(1)
	require.NoError(t, err)
	assert.True(t, narrowRow(3, "b").Equal(row))

	_, err = lp.Get(3)
	assert.True(t, types.IsPrecondition(err))
	assert.ErrorIs(t, err, ErrSlotInvalid)
}

func TestLeafPageSplitLinksSibling(t *testing.T) {
	schema := narrowSchema(t)
	left, err := NewLeafPage(make([]byte, page.PageSize), schema, 0)
	require.NoError(t, err)
	left.SetNext(77)
	for k := 1; k <= 10; k++ {
		_, err := left.Insert(narrowRow(k, "x"))
		require.NoError(t, err)
	}

	right, err := NewLeafPage(make([]byte, page.PageSize), schema, 0)
	require.NoError(t, err)
	key := left.Split(right, 9)

	assert.Equal(t, int32(6), key)
	assert.Equal(t, 5, left.Size())
	assert.Equal(t, 5, right.Size())
	assert.Equal(t, uint64(9), left.Next())
	assert.Equal(t, uint64(77), right.Next())
	assert.Equal(t, int32(5), left.Key(4))
}

func TestLeafPageRejectsNonIntKey(t *testing.T) {
	_, err := NewLeafPage(make([]byte, page.PageSize), narrowSchema(t), 1)
	assert.True(t, types.IsPrecondition(err))
	assert.ErrorIs(t, err, ErrKeyNotInt)
}

func TestFirstOpenCreatesRootLeaf(t *testing.T) {
	tree, _ := openTree(t, filepath.Join(t.TempDir(), "t.idx"), narrowSchema(t), 0, 4)
	assert.Equal(t, uint64(1), tree.Root())
	assert.Equal(t, uint64(2), tree.PageCount())

	h, err := tree.Height()
	require.NoError(t, err)
	assert.Equal(t, 1, h)

	c, err := tree.Begin()
	require.NoError(t, err)
	assert.Equal(t, tree.End(), c)
}

func TestLeafOverflowCreatesRoot(t *testing.T) {
	tree, _ := openTree(t, filepath.Join(t.TempDir(), "t.idx"), narrowSchema(t), 0, 4)

	for k := 1; k < 60; k++ {
		require.NoError(t, tree.Insert(narrowRow(k, "v")))
	}
	assert.Equal(t, uint64(1), tree.Root(), "59 rows still fit one leaf")

	require.NoError(t, tree.Insert(narrowRow(60, "v")))
	assert.NotEqual(t, uint64(1), tree.Root())

	h, err := tree.Height()
	require.NoError(t, err)
	assert.Equal(t, 2, h)

	root, _, err := tree.fetchInternal(tree.Root())
	require.NoError(t, err)
	assert.Equal(t, []int32{31}, root.Keys())
	assert.False(t, root.ChildrenInternal())
	leftNum, rightNum := root.Child(0), root.Child(1)
	assert.Equal(t, uint64(1), leftNum)

	left, _, err := tree.fetchLeaf(leftNum)
	require.NoError(t, err)
	assert.Equal(t, 30, left.Size())
	assert.Equal(t, rightNum, left.Next())

	right, _, err := tree.fetchLeaf(rightNum)
	require.NoError(t, err)
	assert.Equal(t, 30, right.Size())
	assert.Equal(t, uint64(0), right.Next())

	keys := keysOf(t, tree, 0)
	require.Len(t, keys, 60)
	for i, k := range keys {
		assert.Equal(t, int32(i+1), k)
	}
}

func TestDuplicateKeyOverwrites(t *testing.T) {
	tree, _ := openTree(t, filepath.Join(t.TempDir(), "t.idx"), narrowSchema(t), 0, 4)
	for k := 0; k < 100; k++ {
		require.NoError(t, tree.Insert(narrowRow(k, "old")))
	}
	require.NoError(t, tree.Insert(narrowRow(42, "new")))

	assert.Len(t, keysOf(t, tree, 0), 100)
	row, ok, err := tree.Lookup(42)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, narrowRow(42, "new").Equal(row))

	_, ok, err = tree.Lookup(1000)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeepTreeMatchesOracle(t *testing.T) {
	schema := wideSchema(t)
	require.Equal(t, 4, LeafCapacity(page.PageSize, schema.Length()))

	path := filepath.Join(t.TempDir(), "deep.idx")
	tree, bp := openTree(t, path, schema, 15, 8)

	oracle := btree.NewBTreeG[int32](func(a, b int32) bool { return a < b })
	rnd := rand.New(rand.NewSource(7))
	for _, k := range rnd.Perm(3000) {
		key := int32(k*3 - 2000)
		require.NoError(t, tree.Insert(wideRow(key)))
		oracle.Set(key)
	}
	// a few overwrites
	for _, k := range []int32{-2000, 1, 6997} {
		require.NoError(t, tree.Insert(wideRow(k)))
		oracle.Set(k)
	}

	h, err := tree.Height()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, h, 3)

	var want []int32
	oracle.Scan(func(k int32) bool {
		want = append(want, k)
		return true
	})
	assert.Equal(t, want, keysOf(t, tree, 15))

	for _, k := range []int32{-2000, 1, 4, 6997} {
		row, ok, err := tree.Lookup(k)
		require.NoError(t, err)
		require.True(t, ok, "key %d", k)
		assert.True(t, wideRow(k).Equal(row))
	}
	_, ok, err := tree.Lookup(2)
	require.NoError(t, err)
	assert.False(t, ok)

	stats := bp.GetStats()
	assert.NotZero(t, stats.Evictions)
	assert.NotZero(t, stats.WriteBacks)

	// everything must come back from disk
	root := tree.Root()
	require.NoError(t, bp.FlushAllPages())
	require.NoError(t, tree.Close())

	again, _ := openTree(t, path, schema, 15, 8)
	assert.Equal(t, root, again.Root())
	assert.Equal(t, want, keysOf(t, again, 15))
}

func TestCursorPreconditions(t *testing.T) {
	tree, _ := openTree(t, filepath.Join(t.TempDir(), "t.idx"), narrowSchema(t), 0, 4)
	require.NoError(t, tree.Insert(narrowRow(1, "a")))

	c, err := tree.Begin()
	require.NoError(t, err)
	_, err = tree.Get(access.Cursor{Page: c.Page, Slot: 1})
	assert.ErrorIs(t, err, ErrSlotInvalid)

	end, err := tree.Next(c)
	require.NoError(t, err)
	assert.Equal(t, tree.End(), end)

	_, err = tree.Get(end)
	assert.ErrorIs(t, err, ErrCursorEnd)
	_, err = tree.Next(end)
	assert.True(t, types.IsPrecondition(err))
}

func TestDeleteUnsupported(t *testing.T) {
	tree, _ := openTree(t, filepath.Join(t.TempDir(), "t.idx"), narrowSchema(t), 0, 4)
	err := tree.Delete(access.Cursor{Page: 1})
	assert.True(t, types.IsUnsupported(err))
}

func TestOpenRejectsBadKey(t *testing.T) {
	df, err := diskmanager.Open(filepath.Join(t.TempDir(), "t.idx"), narrowSchema(t))
	require.NoError(t, err)
	defer df.Close()
	bp, err := bufferpool.NewBufferPool(4, oneFile{df})
	require.NoError(t, err)

	_, err = OpenBTreeFile(df, bp, 1)
	assert.ErrorIs(t, err, ErrKeyNotInt)
	_, err = OpenBTreeFile(df, bp, 2)
	assert.ErrorIs(t, err, ErrKeyNotInt)
}

func TestInsertRejectsWrongRow(t *testing.T) {
	tree, _ := openTree(t, filepath.Join(t.TempDir(), "t.idx"), narrowSchema(t), 0, 4)
	err := tree.Insert(types.NewRow(types.IntField(1)))
	assert.True(t, types.IsPrecondition(err))
	assert.ErrorIs(t, err, ErrRowMismatch)
}

func TestInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.idx")
	tree, bp := openTree(t, path, narrowSchema(t), 0, 4)
	for k := 1; k <= 60; k++ {
		require.NoError(t, tree.Insert(narrowRow(k, "v")))
	}

	var buf bytes.Buffer
	require.NoError(t, tree.Inspect(&buf))
	out := buf.String()
	assert.Contains(t, out, "height=2")
	assert.Contains(t, out, "[31]")
	assert.Contains(t, out, "leaf #1 rows=30 keys=[1..30]")
	assert.Contains(t, out, "keys=[31..60] next=0")

	require.NoError(t, bp.FlushAllPages())
	buf.Reset()
	require.NoError(t, InspectIndexFile(path, &buf))
	assert.Contains(t, buf.String(), "leaf #1 rows=30")
}

func TestInspectMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.idx")
	var buf bytes.Buffer
	err := InspectIndexFile(path, &buf)
	assert.True(t, types.IsIO(err))
	assert.Empty(t, buf.String())
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestOpenRejectsOnePagePool(t *testing.T) {
	df, err := diskmanager.Open(filepath.Join(t.TempDir(), "t.idx"), narrowSchema(t))
	require.NoError(t, err)
	defer df.Close()
	bp, err := bufferpool.NewBufferPool(1, oneFile{df})
	require.NoError(t, err)

	_, err = OpenBTreeFile(df, bp, 0)
	assert.True(t, types.IsPrecondition(err))
	assert.ErrorIs(t, err, ErrPoolTooSmall)
}

func TestTwoPagePoolSplits(t *testing.T) {
	tree, _ := openTree(t, filepath.Join(t.TempDir(), "t.idx"), narrowSchema(t), 0, 2)
	for k := 1; k <= 500; k++ {
		require.NoError(t, tree.Insert(narrowRow(k, "v")), "insert %d", k)
	}

	keys := keysOf(t, tree, 0)
	require.Len(t, keys, 500)
	for i, k := range keys {
		assert.Equal(t, int32(i+1), k)
	}
	h, err := tree.Height()
	require.NoError(t, err)
	assert.Equal(t, 2, h)
}

func TestInsertSplitsLeafLeftFull(t *testing.T) {
	tree, _ := openTree(t, filepath.Join(t.TempDir(), "t.idx"), narrowSchema(t), 0, 4)

	// fill the root leaf to capacity without splitting it
	leaf, fr, err := tree.fetchLeaf(tree.Root())
	require.NoError(t, err)
	for k := 1; k <= leaf.Capacity(); k++ {
		_, err := leaf.Insert(narrowRow(k, "v"))
		require.NoError(t, err)
	}
	require.NoError(t, fr.MarkDirty())
	require.Equal(t, 60, leaf.Size())

	require.NoError(t, tree.Insert(narrowRow(61, "v")))
	require.NoError(t, tree.Insert(narrowRow(62, "v")))
	require.NoError(t, tree.Insert(narrowRow(5, "new")))

	keys := keysOf(t, tree, 0)
	require.Len(t, keys, 62)
	for i, k := range keys {
		assert.Equal(t, int32(i+1), k)
	}
	row, ok, err := tree.Lookup(5)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, narrowRow(5, "new").Equal(row))
}
