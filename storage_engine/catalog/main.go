package catalog

import (
	"SlotDB/logger"
	"SlotDB/storage_engine/page"
	"SlotDB/storage_engine/tuple"
	"SlotDB/types"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

/*
This file is the main access of Catalog Manager
Catalog manager maps file names to open files. The buffer pool resolves every
PageID through it, so a page can only be read or written back while its file
is registered.

It also builds schema descriptors from table definitions; descriptors are
memoised by the definition's column signature.
Schemas of created tables are persisted on disk (schema_store.go) so a data
directory can be reopened without its config.
*/

var (
	ErrDuplicateFile = errors.New("file already registered")
	ErrFileNotFound  = errors.New("file not registered")
)

func NewCatalogManager(dbRoot string) (*CatalogManager, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, *tuple.Descriptor]{
		NumCounters: 1 << 10,
		MaxCost:     1 << 8,
		BufferItems: 64,
	})
	if err != nil {
		return nil, errors.Wrap(err, "descriptor cache")
	}
	return &CatalogManager{
		dbRoot:      dbRoot,
		descriptors: cache,
	}, nil
}

// Add registers t under t.Name().
func (cm *CatalogManager) Add(t Table) error {
	if _, exists := cm.files.Get(t.Name()); exists {
		return types.PreconditionError("Add", errors.Wrapf(ErrDuplicateFile, "%q", t.Name()))
	}
	cm.files.Set(t.Name(), t)
	logger.Info("catalog: registered file", zap.String("name", t.Name()), zap.Uint64("pages", t.PageCount()))
	return nil
}

// Rebind replaces the file registered under t.Name() with t, which must wrap
// the same pages (a tree opened over a registered raw file).
func (cm *CatalogManager) Rebind(t Table) error {
	if _, exists := cm.files.Get(t.Name()); !exists {
		return types.PreconditionError("Rebind", errors.Wrapf(ErrFileNotFound, "%q", t.Name()))
	}
	cm.files.Set(t.Name(), t)
	return nil
}

func (cm *CatalogManager) Get(name string) (Table, error) {
	t, ok := cm.files.Get(name)
	if !ok {
		return nil, types.PreconditionError("Get", errors.Wrapf(ErrFileNotFound, "%q", name))
	}
	return t, nil
}

// Remove unregisters name and returns the file, which stays open.
func (cm *CatalogManager) Remove(name string) (Table, error) {
	t, ok := cm.files.Delete(name)
	if !ok {
		return nil, types.PreconditionError("Remove", errors.Wrapf(ErrFileNotFound, "%q", name))
	}
	logger.Info("catalog: unregistered file", zap.String("name", name))
	return t, nil
}

func (cm *CatalogManager) Contains(name string) bool {
	_, ok := cm.files.Get(name)
	return ok
}

// Names returns the registered names in ascending order.
func (cm *CatalogManager) Names() []string {
	names := make([]string, 0, cm.files.Len())
	cm.files.Scan(func(name string, _ Table) bool {
		names = append(names, name)
		return true
	})
	return names
}

// Resolve implements page.Resolver for the buffer pool.
func (cm *CatalogManager) Resolve(name string) (page.ReadWriter, error) {
	t, err := cm.Get(name)
	if err != nil {
		return nil, errors.Wrap(err, "Resolve")
	}
	return t, nil
}

// Descriptor returns the schema descriptor of def, building it at most once
// per column signature while it stays cached.
func (cm *CatalogManager) Descriptor(def types.TableDef) (*tuple.Descriptor, error) {
	sig := def.Signature()
	if d, ok := cm.descriptors.Get(sig); ok {
		return d, nil
	}
	d, err := tuple.FromTableDef(def)
	if err != nil {
		return nil, errors.Wrapf(err, "table %q", def.Name)
	}
	cm.descriptors.Set(sig, d, 1)
	cm.descriptors.Wait()
	return d, nil
}

// Close drops the descriptor cache. Registered files are left alone.
func (cm *CatalogManager) Close() {
	cm.descriptors.Close()
}

var _ page.Resolver = (*CatalogManager)(nil)
