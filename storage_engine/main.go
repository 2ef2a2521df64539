package storageengine

import (
	"SlotDB/config"
	"SlotDB/logger"
	heapfile "SlotDB/storage_engine/access/heapfile_manager"
	indexfile "SlotDB/storage_engine/access/indexfile_manager"
	bplus "SlotDB/storage_engine/access/indexfile_manager/bplustree"
	"SlotDB/storage_engine/bufferpool"
	"SlotDB/storage_engine/catalog"
	diskmanager "SlotDB/storage_engine/disk_manager"
	"SlotDB/storage_engine/tuple"
	"SlotDB/types"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

/*
The main file of storage engine, that initializes the catalog manager, the buffer
pool and the heap/index file managers for one data directory.

Layout of a data directory:

	<data_dir>/heap/<table>.heap        heap files
	<data_dir>/indexes/<table>.idx      B+Tree files
	<data_dir>/tables/<table>_schema.json

On open, every persisted table is reopened, then the tables of the config
that are not there yet are created.
*/

var (
	ErrSchemaChanged = errors.New("table exists with a different schema")
	ErrKeyChanged    = errors.New("table exists with a different kind or key")
)

func NewStorageEngine(cfg config.Config) (*StorageEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, types.IOError("NewStorageEngine", errors.Wrap(err, "failed to create db root"))
	}

	catalogManager, err := catalog.NewCatalogManager(cfg.DataDir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to init catalog manager")
	}
	bufferPool, err := bufferpool.NewBufferPool(cfg.PoolPages, catalogManager)
	if err != nil {
		return nil, err
	}
	heapManager, err := heapfile.NewHeapFileManager(filepath.Join(cfg.DataDir, "heap"), bufferPool)
	if err != nil {
		return nil, err
	}
	indexManager, err := indexfile.NewIndexFileManager(filepath.Join(cfg.DataDir, "indexes"), bufferPool)
	if err != nil {
		return nil, err
	}

	se := &StorageEngine{
		BufferPool:     bufferPool,
		CatalogManager: catalogManager,
		IndexManager:   indexManager,
		HeapManager:    heapManager,
		DbRoot:         cfg.DataDir,
	}

	persisted, err := catalogManager.LoadSchemas()
	if err != nil {
		return nil, err
	}
	for _, def := range append(persisted, cfg.Tables...) {
		if _, err := se.OpenTable(def); err != nil {
			se.Close()
			return nil, errors.Wrapf(err, "open table %q", def.Name)
		}
	}
	logger.Info("storage engine ready", zap.String("dir", cfg.DataDir),
		zap.Int("poolPages", cfg.PoolPages), zap.Strings("tables", catalogManager.Names()))
	return se, nil
}

// OpenTable opens the table described by def, creating its file and
// persisting its definition if needed. Opening a table that is already open
// with the same columns, kind and key returns the open file.
func (se *StorageEngine) OpenTable(def types.TableDef) (catalog.Table, error) {
	desc, err := se.CatalogManager.Descriptor(def)
	if err != nil {
		return nil, err
	}
	if t, err := se.CatalogManager.Get(def.Name); err == nil {
		if !sameSchema(t.Schema(), desc) {
			return nil, types.PreconditionError("OpenTable", errors.Wrapf(ErrSchemaChanged, "%q", def.Name))
		}
		if err := sameKey(t, def); err != nil {
			return nil, err
		}
		return t, nil
	}

	switch def.Kind {
	case types.KindHeap:
		return se.CreateHeap(def.Name, desc)
	case types.KindBTree:
		keyIndex, err := desc.IndexOf(def.Key)
		if err != nil {
			return nil, errors.Wrapf(err, "key of %q", def.Name)
		}
		return se.CreateBTree(def.Name, desc, keyIndex)
	default:
		return nil, types.PreconditionError("OpenTable", errors.Errorf("unknown table kind %q", def.Kind))
	}
}

// CreateHeap opens or creates the heap file name and registers it.
func (se *StorageEngine) CreateHeap(name string, desc *tuple.Descriptor) (*heapfile.HeapFile, error) {
	if se.CatalogManager.Contains(name) {
		return nil, types.PreconditionError("CreateHeap", errors.Wrapf(catalog.ErrDuplicateFile, "%q", name))
	}
	hf, err := se.HeapManager.OpenHeapFile(name, desc)
	if err != nil {
		return nil, err
	}
	if err := se.CatalogManager.Add(hf); err != nil {
		hf.Close()
		return nil, err
	}
	if err := se.CatalogManager.PersistSchema(tableDef(name, types.KindHeap, "", desc)); err != nil {
		se.discard(name, hf)
		return nil, err
	}
	return hf, nil
}

// CreateBTree opens or creates the tree file name keyed on field keyIndex
// and registers it.
func (se *StorageEngine) CreateBTree(name string, desc *tuple.Descriptor, keyIndex int) (*bplus.BTreeFile, error) {
	if se.CatalogManager.Contains(name) {
		return nil, types.PreconditionError("CreateBTree", errors.Wrapf(catalog.ErrDuplicateFile, "%q", name))
	}
	if keyIndex < 0 || keyIndex >= desc.Size() {
		return nil, types.PreconditionError("CreateBTree", errors.Wrapf(tuple.ErrFieldNotFound, "key index %d", keyIndex))
	}

	register := func(df *diskmanager.DbFile) error { return se.CatalogManager.Add(df) }
	unregister := func(name string) {
		se.BufferPool.DiscardFile(name)
		_, _ = se.CatalogManager.Remove(name)
	}
	tree, err := se.IndexManager.OpenIndex(name, desc, keyIndex, register, unregister)
	if err != nil {
		return nil, err
	}
	if err := se.CatalogManager.Rebind(tree); err != nil {
		se.discard(name, tree)
		return nil, err
	}
	if err := se.CatalogManager.PersistSchema(tableDef(name, types.KindBTree, desc.NameOf(keyIndex), desc)); err != nil {
		se.discard(name, tree)
		return nil, err
	}
	return tree, nil
}

// discard undoes a half-done create: the pages of name leave the pool
// unwritten, name is unregistered and t is closed.
func (se *StorageEngine) discard(name string, t catalog.Table) {
	se.BufferPool.DiscardFile(name)
	_, _ = se.CatalogManager.Remove(name)
	if err := t.Close(); err != nil {
		logger.Warn("close after failed create", zap.String("table", name), zap.Error(err))
	}
}

// File returns the open table name.
func (se *StorageEngine) File(name string) (catalog.Table, error) {
	return se.CatalogManager.Get(name)
}

// Remove detaches table name: its dirty pages are written back, its pages
// leave the pool, and the file is unregistered and closed. The file and its
// persisted definition stay on disk.
func (se *StorageEngine) Remove(name string) error {
	if _, err := se.CatalogManager.Get(name); err != nil {
		return err
	}
	if err := se.BufferPool.FlushFile(name); err != nil {
		return errors.Wrapf(err, "flush %q before remove", name)
	}
	se.BufferPool.DiscardFile(name)
	t, err := se.CatalogManager.Remove(name)
	if err != nil {
		return err
	}
	return t.Close()
}

// Drop removes table name and deletes its file and definition.
func (se *StorageEngine) Drop(name string) error {
	t, err := se.CatalogManager.Get(name)
	if err != nil {
		return err
	}
	path := se.HeapManager.Path(name)
	if _, isTree := t.(*bplus.BTreeFile); isTree {
		path = se.IndexManager.Path(name)
	}
	if err := se.Remove(name); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return types.IOError("Drop", errors.Wrap(err, path))
	}
	return se.CatalogManager.DeleteSchema(name)
}

// Tables summarises every open table in name order.
func (se *StorageEngine) Tables() []TableInfo {
	var infos []TableInfo
	for _, name := range se.CatalogManager.Names() {
		t, err := se.CatalogManager.Get(name)
		if err != nil {
			continue
		}
		kind := types.KindHeap
		if _, isTree := t.(*bplus.BTreeFile); isTree {
			kind = types.KindBTree
		}
		infos = append(infos, TableInfo{
			Name:      name,
			Kind:      string(kind),
			Columns:   t.Schema().Size(),
			RowLength: t.Schema().Length(),
			Pages:     t.PageCount(),
			Bytes:     t.Size(),
		})
	}
	return infos
}

// Flush writes every dirty page back.
func (se *StorageEngine) Flush() error {
	return se.BufferPool.FlushAllPages()
}

// Close flushes the pool and closes every file. The first error is returned
// but every file is still closed.
func (se *StorageEngine) Close() error {
	firstErr := se.BufferPool.Close()
	for _, name := range se.CatalogManager.Names() {
		t, err := se.CatalogManager.Remove(name)
		if err != nil {
			continue
		}
		if err := t.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	se.CatalogManager.Close()
	return firstErr
}

func sameSchema(a, b *tuple.Descriptor) bool {
	if a.Size() != b.Size() {
		return false
	}
	for i := 0; i < a.Size(); i++ {
		if a.TypeOf(i) != b.TypeOf(i) || a.NameOf(i) != b.NameOf(i) {
			return false
		}
	}
	return true
}

// sameKey checks that the open table t has the kind and key def asks for.
func sameKey(t catalog.Table, def types.TableDef) error {
	tree, isTree := t.(*bplus.BTreeFile)
	switch {
	case isTree != (def.Kind == types.KindBTree):
		return types.PreconditionError("OpenTable", errors.Wrapf(ErrKeyChanged, "%q is not a %s table", def.Name, def.Kind))
	case isTree && t.Schema().NameOf(tree.KeyIndex()) != def.Key:
		return types.PreconditionError("OpenTable", errors.Wrapf(ErrKeyChanged,
			"%q is keyed on %q, not %q", def.Name, t.Schema().NameOf(tree.KeyIndex()), def.Key))
	}
	return nil
}

func tableDef(name string, kind types.TableKind, key string, desc *tuple.Descriptor) types.TableDef {
	def := types.TableDef{Name: name, Kind: kind, Key: key}
	for i := 0; i < desc.Size(); i++ {
		def.Columns = append(def.Columns, types.ColumnDef{Name: desc.NameOf(i), Type: desc.TypeOf(i).String()})
	}
	return def
}
