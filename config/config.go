package config

import (
	"SlotDB/types"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

/*
Config file format (TOML):

	data_dir   = "data"
	pool_pages = 50
	log_level  = "info"

	[[tables]]
	name = "people"
	kind = "btree"
	key  = "id"
	  [[tables.columns]]
	  name = "id"
	  type = "int"
	  [[tables.columns]]
	  name = "name"
	  type = "char"

Every field is optional; missing ones take the values of Default().
*/

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	DataDir   string           `toml:"data_dir"`
	PoolPages int              `toml:"pool_pages"`
	LogLevel  string           `toml:"log_level"`
	Tables    []types.TableDef `toml:"tables"`
}

func Default() Config {
	return Config{
		DataDir:   "data",
		PoolPages: types.DefaultPoolPages,
		LogLevel:  "info",
	}
}

// Load decodes the TOML file at path over Default() and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, types.PreconditionError("config.Load", errors.Wrapf(err, "decode %s", path))
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, types.PreconditionError("config.Load",
			errors.Wrapf(ErrInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", ")))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the fields that cannot be caught when tables are opened.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return types.PreconditionError("config.Validate", errors.Wrap(ErrInvalidConfig, "data_dir is empty"))
	}
	if c.PoolPages <= 0 {
		return types.PreconditionError("config.Validate",
			errors.Wrapf(ErrInvalidConfig, "pool_pages must be positive, got %d", c.PoolPages))
	}
	seen := make(map[string]bool, len(c.Tables))
	for _, t := range c.Tables {
		if t.Name == "" {
			return types.PreconditionError("config.Validate", errors.Wrap(ErrInvalidConfig, "table without name"))
		}
		if seen[t.Name] {
			return types.PreconditionError("config.Validate", errors.Wrapf(ErrInvalidConfig, "table %q defined twice", t.Name))
		}
		seen[t.Name] = true

		switch t.Kind {
		case types.KindHeap:
		case types.KindBTree:
			if t.Key == "" {
				return types.PreconditionError("config.Validate",
					errors.Wrapf(ErrInvalidConfig, "btree table %q needs a key", t.Name))
			}
			if c.PoolPages < types.MinTreePoolPages {
				return types.PreconditionError("config.Validate",
					errors.Wrapf(ErrInvalidConfig, "btree table %q needs pool_pages >= %d, got %d",
						t.Name, types.MinTreePoolPages, c.PoolPages))
			}
		default:
			return types.PreconditionError("config.Validate",
				errors.Wrapf(ErrInvalidConfig, "table %q has unknown kind %q", t.Name, t.Kind))
		}
		if len(t.Columns) == 0 {
			return types.PreconditionError("config.Validate",
				errors.Wrapf(ErrInvalidConfig, "table %q has no columns", t.Name))
		}
	}
	return nil
}

// Table returns the definition of the named table.
func (c Config) Table(name string) (types.TableDef, bool) {
	for _, t := range c.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return types.TableDef{}, false
}
