package diskmanager

import (
	"SlotDB/storage_engine/page"
	"SlotDB/types"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCreatesOneZeroPage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.dat")

	df, err := Open(path, nil)
	require.NoError(t, err)
	defer df.Close()

	assert.Equal(t, "fresh", df.Name())
	assert.Equal(t, uint64(1), df.PageCount())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(page.PageSize), info.Size())

	buf := make([]byte, page.PageSize)
	require.NoError(t, df.ReadPage(0, buf))
	assert.Equal(t, make([]byte, page.PageSize), buf)
}

func TestReopenKeepsPageCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grow.dat")

	df, err := Open(path, nil)
	require.NoError(t, err)
	n, err := df.AllocatePage()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)
	n, err = df.AllocatePage()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)
	require.NoError(t, df.Close())

	df, err = Open(path, nil)
	require.NoError(t, err)
	defer df.Close()
	assert.Equal(t, uint64(3), df.PageCount())
}

func TestReadWriteRoundTripAndTrace(t *testing.T) {
	df, err := Open(filepath.Join(t.TempDir(), "rw.dat"), nil)
	require.NoError(t, err)
	defer df.Close()

	out := make([]byte, page.PageSize)
	for i := range out {
		out[i] = byte(i % 251)
	}
	require.NoError(t, df.WritePage(0, out))

	in := make([]byte, page.PageSize)
	require.NoError(t, df.ReadPage(0, in))
	assert.Equal(t, out, in)

	assert.Equal(t, []uint64{0}, df.Writes())
	assert.Equal(t, []uint64{0}, df.Reads())

	df.ResetTrace()
	assert.Empty(t, df.Reads())
	assert.Empty(t, df.Writes())
}

func TestReadPastEndIsIOError(t *testing.T) {
	df, err := Open(filepath.Join(t.TempDir(), "short.dat"), nil)
	require.NoError(t, err)
	defer df.Close()

	err = df.ReadPage(5, make([]byte, page.PageSize))
	require.Error(t, err)
	assert.True(t, types.IsIO(err))
	assert.Equal(t, []uint64{5}, df.Reads())
}

func TestWrongBufferSize(t *testing.T) {
	df, err := Open(filepath.Join(t.TempDir(), "size.dat"), nil)
	require.NoError(t, err)
	defer df.Close()

	err = df.WritePage(0, make([]byte, 10))
	assert.True(t, types.IsPrecondition(err))
}

func TestRowOperationsUnsupported(t *testing.T) {
	df, err := Open(filepath.Join(t.TempDir(), "raw.dat"), nil)
	require.NoError(t, err)
	defer df.Close()

	assert.True(t, types.IsUnsupported(df.Insert(types.NewRow(types.IntField(1)))))
	_, err = df.Begin()
	assert.True(t, types.IsUnsupported(err))
	_, err = df.Get(df.End())
	assert.True(t, types.IsUnsupported(err))
}

func TestClosedFile(t *testing.T) {
	df, err := Open(filepath.Join(t.TempDir(), "closed.dat"), nil)
	require.NoError(t, err)
	require.NoError(t, df.Close())
	require.NoError(t, df.Close())

	err = df.ReadPage(0, make([]byte, page.PageSize))
	assert.True(t, types.IsIO(err))
}

func TestOpenReadOnly(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.idx")
	_, err := OpenReadOnly(missing, nil)
	assert.True(t, types.IsIO(err))
	_, statErr := os.Stat(missing)
	assert.True(t, os.IsNotExist(statErr), "must not create the file")

	empty := filepath.Join(dir, "empty.idx")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	_, err = OpenReadOnly(empty, nil)
	assert.ErrorIs(t, err, ErrShortIO)

	path := filepath.Join(dir, "two.idx")
	df, err := Open(path, nil)
	require.NoError(t, err)
	_, err = df.AllocatePage()
	require.NoError(t, err)
	require.NoError(t, df.Close())

	ro, err := OpenReadOnly(path, nil)
	require.NoError(t, err)
	defer ro.Close()
	assert.Equal(t, "two", ro.Name())
	assert.Equal(t, uint64(2), ro.PageCount())
	buf := make([]byte, page.PageSize)
	require.NoError(t, ro.ReadPage(1, buf))
	assert.Error(t, ro.WritePage(1, buf))
}
