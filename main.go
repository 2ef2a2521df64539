package main

import (
	"SlotDB/config"
	"SlotDB/logger"
	storageengine "SlotDB/storage_engine"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func init() {
	cobra.OnInitialize(loadConfig)
	initRootFlags()
	initLoadCmd()
	initScanCmd()
	initStatsCmd()
	initInspectCmd()
	initAggregateCmd()
	initHistogramCmd()
}

var cliCfg = config.Default()

///root cmd

var info = "slotdb: paged table files with a shared buffer pool"
var RootCmd = &cobra.Command{
	Use:          "slotdb",
	Short:        info,
	Long:         info,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("use slotdb --help or -h")
	},
}

var cfgFile string

func initRootFlags() {
	flags := RootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./slotdb.toml if present)")
	flags.String("data_dir", cliCfg.DataDir, "directory holding table files")
	flags.Int("pool_pages", cliCfg.PoolPages, "buffer pool size in pages")
	flags.String("log_level", cliCfg.LogLevel, "debug, info, warn or error")

	viper.BindPFlag("data_dir", flags.Lookup("data_dir"))
	viper.BindPFlag("pool_pages", flags.Lookup("pool_pages"))
	viper.BindPFlag("log_level", flags.Lookup("log_level"))
	viper.SetEnvPrefix("slotdb")
	viper.AutomaticEnv()
}

var defCfgFilePaths = []string{".", "etc"}
var cfgFileName = "slotdb.toml"

// loadConfig reads the TOML file, then lets flags and SLOTDB_* environment
// variables override its scalar settings.
func loadConfig() {
	path := cfgFile
	if path == "" {
		for _, dir := range defCfgFilePaths {
			p := filepath.Join(dir, cfgFileName)
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cliCfg = cfg
	}

	viper.SetDefault("data_dir", cliCfg.DataDir)
	viper.SetDefault("pool_pages", cliCfg.PoolPages)
	viper.SetDefault("log_level", cliCfg.LogLevel)
	cliCfg.DataDir = viper.GetString("data_dir")
	cliCfg.PoolPages = viper.GetInt("pool_pages")
	cliCfg.LogLevel = viper.GetString("log_level")

	if err := logger.Init(cliCfg.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.Debug("config loaded", zap.String("file", path), zap.String("data_dir", cliCfg.DataDir),
		zap.Int("pool_pages", cliCfg.PoolPages))
}

// withEngine opens the configured data directory for the duration of fn.
func withEngine(fn func(se *storageengine.StorageEngine) error) (err error) {
	if err := cliCfg.Validate(); err != nil {
		return err
	}
	se, err := storageengine.NewStorageEngine(cliCfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := se.Close(); cerr != nil && err == nil {
			err = cerr
		}
		logger.Sync()
	}()
	return fn(se)
}

func main() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
