package storageengine

import (
	"SlotDB/config"
	"SlotDB/storage_engine/access"
	bplus "SlotDB/storage_engine/access/indexfile_manager/bplustree"
	"SlotDB/storage_engine/catalog"
	"SlotDB/types"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) config.Config {
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.PoolPages = 3
	cfg.Tables = []types.TableDef{
		{
			Name: "people", Kind: types.KindBTree, Key: "id",
			Columns: []types.ColumnDef{{Name: "name", Type: "char"}, {Name: "id", Type: "int"}},
		},
		{
			Name: "events", Kind: types.KindHeap,
			Columns: []types.ColumnDef{{Name: "at", Type: "double"}, {Name: "what", Type: "char"}},
		},
	}
	return cfg
}

func person(id int) types.Row {
	return types.NewRow(types.CharField(fmt.Sprintf("p%d", id)), types.IntField(int32(id)))
}

func event(i int) types.Row {
	return types.NewRow(types.DoubleField(float64(i)/2), types.CharField("tick"))
}

func TestOpenCreatesConfiguredTables(t *testing.T) {
	se, err := NewStorageEngine(testConfig(t))
	require.NoError(t, err)
	defer se.Close()

	assert.Equal(t, []string{"events", "people"}, se.CatalogManager.Names())
	people, err := se.File("people")
	require.NoError(t, err)
	assert.IsType(t, &bplus.BTreeFile{}, people)

	infos := se.Tables()
	require.Len(t, infos, 2)
	assert.Equal(t, "heap", infos[0].Kind)
	assert.Equal(t, "btree", infos[1].Kind)
	assert.Equal(t, 68, infos[1].RowLength)
}

func TestDataSurvivesReopen(t *testing.T) {
	cfg := testConfig(t)
	se, err := NewStorageEngine(cfg)
	require.NoError(t, err)

	people, _ := se.File("people")
	events, _ := se.File("events")
	for i := 300; i > 0; i-- {
		require.NoError(t, people.Insert(person(i)))
		require.NoError(t, events.Insert(event(i)))
	}
	assert.NotZero(t, se.BufferPool.GetStats().Evictions)
	require.NoError(t, se.Close())

	// definitions come back from disk without the config
	cfg.Tables = nil
	se, err = NewStorageEngine(cfg)
	require.NoError(t, err)
	defer se.Close()

	people, err = se.File("people")
	require.NoError(t, err)
	rows, err := access.Collect(people)
	require.NoError(t, err)
	require.Len(t, rows, 300)
	for i, r := range rows {
		assert.True(t, person(i+1).Equal(r))
	}

	events, err = se.File("events")
	require.NoError(t, err)
	rows, err = access.Collect(events)
	require.NoError(t, err)
	assert.Len(t, rows, 300)
}

func TestRemoveFlushesFirst(t *testing.T) {
	cfg := testConfig(t)
	se, err := NewStorageEngine(cfg)
	require.NoError(t, err)
	defer se.Close()

	events, _ := se.File("events")
	for i := 0; i < 10; i++ {
		require.NoError(t, events.Insert(event(i)))
	}
	require.NoError(t, se.Remove("events"))

	_, err = se.File("events")
	assert.ErrorIs(t, err, catalog.ErrFileNotFound)
	for _, pid := range se.BufferPool.LRUOrder() {
		assert.NotEqual(t, "events", pid.File)
	}

	reopened, err := se.OpenTable(cfg.Tables[1])
	require.NoError(t, err)
	rows, err := access.Collect(reopened)
	require.NoError(t, err)
	assert.Len(t, rows, 10)

	assert.ErrorIs(t, se.Remove("nope"), catalog.ErrFileNotFound)
}

func TestCreateDuplicateAndSchemaChange(t *testing.T) {
	cfg := testConfig(t)
	se, err := NewStorageEngine(cfg)
	require.NoError(t, err)
	defer se.Close()

	same, err := se.OpenTable(cfg.Tables[0])
	require.NoError(t, err)
	first, _ := se.File("people")
	assert.Same(t, first, same)

	desc, err := se.CatalogManager.Descriptor(cfg.Tables[1])
	require.NoError(t, err)
	_, err = se.CreateHeap("events", desc)
	assert.True(t, types.IsPrecondition(err))
	assert.ErrorIs(t, err, catalog.ErrDuplicateFile)

	changed := cfg.Tables[1]
	changed.Columns = append([]types.ColumnDef{}, changed.Columns...)
	changed.Columns[1].Type = "int"
	_, err = se.OpenTable(changed)
	assert.ErrorIs(t, err, ErrSchemaChanged)
}

func TestBadBTreeKeyIsRejected(t *testing.T) {
	cfg := testConfig(t)
	cfg.Tables[0].Key = "name"
	_, err := NewStorageEngine(cfg)
	assert.ErrorIs(t, err, bplus.ErrKeyNotInt)
}

func TestDropDeletesFiles(t *testing.T) {
	cfg := testConfig(t)
	se, err := NewStorageEngine(cfg)
	require.NoError(t, err)
	defer se.Close()

	require.NoError(t, se.Drop("people"))
	_, err = os.Stat(se.IndexManager.Path("people"))
	assert.True(t, os.IsNotExist(err))

	defs, err := se.CatalogManager.LoadSchemas()
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "events", defs[0].Name)
}

func TestReopenWithDifferentKeyOrKind(t *testing.T) {
	cfg := testConfig(t)
	cfg.Tables[0].Columns = append(cfg.Tables[0].Columns, types.ColumnDef{Name: "age", Type: "int"})
	se, err := NewStorageEngine(cfg)
	require.NoError(t, err)
	defer se.Close()

	rekeyed := cfg.Tables[0]
	rekeyed.Key = "age"
	_, err = se.OpenTable(rekeyed)
	assert.True(t, types.IsPrecondition(err))
	assert.ErrorIs(t, err, ErrKeyChanged)

	asHeap := cfg.Tables[0]
	asHeap.Kind, asHeap.Key = types.KindHeap, ""
	_, err = se.OpenTable(asHeap)
	assert.ErrorIs(t, err, ErrKeyChanged)

	asTree := cfg.Tables[1]
	asTree.Kind, asTree.Key = types.KindBTree, "at"
	_, err = se.OpenTable(asTree)
	assert.ErrorIs(t, err, ErrKeyChanged)

	_, err = se.OpenTable(cfg.Tables[0])
	assert.NoError(t, err)
}

func TestPersistedKeyWinsOverConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Tables[0].Columns = append(cfg.Tables[0].Columns, types.ColumnDef{Name: "age", Type: "int"})
	se, err := NewStorageEngine(cfg)
	require.NoError(t, err)
	require.NoError(t, se.Close())

	cfg.Tables[0].Key = "age"
	_, err = NewStorageEngine(cfg)
	assert.ErrorIs(t, err, ErrKeyChanged)
}

func TestFailedSchemaWriteUnregisters(t *testing.T) {
	se, err := NewStorageEngine(testConfig(t))
	require.NoError(t, err)
	defer se.Close()

	desc, err := se.CatalogManager.Descriptor(testConfig(t).Tables[0])
	require.NoError(t, err)

	// a directory where the schema file goes makes the write fail
	block := filepath.Join(se.DbRoot, "tables", "orders_schema.json")
	require.NoError(t, os.MkdirAll(block, 0755))

	_, err = se.CreateBTree("orders", desc, 1)
	assert.True(t, types.IsIO(err))
	assert.False(t, se.CatalogManager.Contains("orders"))
	for _, pid := range se.BufferPool.LRUOrder() {
		assert.NotEqual(t, "orders", pid.File)
	}

	_, err = se.CreateHeap("orders", desc)
	assert.True(t, types.IsIO(err))
	assert.False(t, se.CatalogManager.Contains("orders"))

	require.NoError(t, os.Remove(block))
	tree, err := se.CreateBTree("orders", desc, 1)
	require.NoError(t, err)
	require.NoError(t, tree.Insert(person(7)))
	row, ok, err := tree.Lookup(7)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, person(7).Equal(row))
}
