package config

import (
	"SlotDB/types"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "slotdb.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `
data_dir = "/tmp/slot"
log_level = "debug"

[[tables]]
name = "people"
kind = "btree"
key = "id"
  [[tables.columns]]
  name = "id"
  type = "int"
  [[tables.columns]]
  name = "name"
  type = "char"

[[tables]]
name = "events"
kind = "heap"
  [[tables.columns]]
  name = "at"
  type = "double"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/slot", cfg.DataDir)
	assert.Equal(t, types.DefaultPoolPages, cfg.PoolPages)
	assert.Equal(t, "debug", cfg.LogLevel)
	require.Len(t, cfg.Tables, 2)

	people, ok := cfg.Table("people")
	require.True(t, ok)
	assert.Equal(t, types.KindBTree, people.Kind)
	assert.Equal(t, "id", people.Key)
	assert.Equal(t, []types.ColumnDef{{Name: "id", Type: "int"}, {Name: "name", Type: "char"}}, people.Columns)

	_, ok = cfg.Table("nope")
	assert.False(t, ok)
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":  `pool_size = 3`,
		"zero pool":    `pool_pages = 0`,
		"bad kind":     "[[tables]]\nname = \"a\"\nkind = \"hash\"\n[[tables.columns]]\nname = \"x\"\ntype = \"int\"",
		"btree no key": "[[tables]]\nname = \"a\"\nkind = \"btree\"\n[[tables.columns]]\nname = \"x\"\ntype = \"int\"",
		"no columns":   "[[tables]]\nname = \"a\"\nkind = \"heap\"",
		"btree pool 1": "pool_pages = 1\n[[tables]]\nname = \"a\"\nkind = \"btree\"\nkey = \"x\"\n[[tables.columns]]\nname = \"x\"\ntype = \"int\"",
		"duplicate":    "[[tables]]\nname = \"a\"\nkind = \"heap\"\n[[tables.columns]]\nname = \"x\"\ntype = \"int\"\n[[tables]]\nname = \"a\"\nkind = \"heap\"\n[[tables.columns]]\nname = \"x\"\ntype = \"int\"",
		"not toml":     `data_dir = `,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, body))
			assert.True(t, types.IsPrecondition(err), "%v", err)
		})
	}
}

func TestDefault(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestOnePagePoolOnlyForHeaps(t *testing.T) {
	cfg := Default()
	cfg.PoolPages = 1
	cfg.Tables = []types.TableDef{{Name: "h", Kind: types.KindHeap, Columns: []types.ColumnDef{{Name: "x", Type: "int"}}}}
	assert.NoError(t, cfg.Validate())

	cfg.Tables = append(cfg.Tables, types.TableDef{Name: "b", Kind: types.KindBTree, Key: "x",
		Columns: []types.ColumnDef{{Name: "x", Type: "int"}}})
	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "pool_pages >= 2")

	cfg.PoolPages = 2
	assert.NoError(t, cfg.Validate())
}
