package catalog

import (
	"SlotDB/types"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Table definitions live next to the data files:
// <dbRoot>/tables/<name>_schema.json

const schemaSuffix = "_schema.json"

func (cm *CatalogManager) schemaPath(name string) string {
	return filepath.Join(cm.dbRoot, "tables", name+schemaSuffix)
}

// PersistSchema writes def to disk, replacing any earlier definition.
func (cm *CatalogManager) PersistSchema(def types.TableDef) error {
	schemaDir := filepath.Join(cm.dbRoot, "tables")
	if err := os.MkdirAll(schemaDir, 0755); err != nil {
		return types.IOError("PersistSchema", errors.Wrap(err, schemaDir))
	}

	data, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "encode schema %q", def.Name)
	}
	if err := os.WriteFile(cm.schemaPath(def.Name), data, 0644); err != nil {
		return types.IOError("PersistSchema", errors.Wrapf(err, "write schema %q", def.Name))
	}
	return nil
}

// DeleteSchema removes the persisted definition of name, if any.
func (cm *CatalogManager) DeleteSchema(name string) error {
	if err := os.Remove(cm.schemaPath(name)); err != nil && !os.IsNotExist(err) {
		return types.IOError("DeleteSchema", errors.Wrapf(err, "delete schema %q", name))
	}
	return nil
}

// LoadSchemas reads every persisted definition, sorted by table name.
// A missing tables directory means no tables.
func (cm *CatalogManager) LoadSchemas() ([]types.TableDef, error) {
	tablesDir := filepath.Join(cm.dbRoot, "tables")
	entries, err := os.ReadDir(tablesDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, types.IOError("LoadSchemas", errors.Wrap(err, tablesDir))
	}

	var defs []types.TableDef
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), schemaSuffix) {
			continue
		}
		path := filepath.Join(tablesDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, types.IOError("LoadSchemas", errors.Wrapf(err, "read %s", path))
		}
		var def types.TableDef
		if err := json.Unmarshal(data, &def); err != nil {
			return nil, types.PreconditionError("LoadSchemas", errors.Wrapf(err, "invalid schema in %s", path))
		}
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs, nil
}
