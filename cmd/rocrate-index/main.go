package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"

	"github.com/arunaengine/rocrate-indexer/internal/common"
	"github.com/arunaengine/rocrate-indexer/internal/crateindex"
)

var (
	configFile string
	baseDirFlag string

	config *common.Config
	logger arbor.ILogger
	index  *crateindex.CrateIndex
)

var rootCmd = &cobra.Command{
	Use:   "rocrate-index",
	Short: "Catalog and search RO-Crate datasets",
	Long:  `rocrate-index ingests RO-Crate metadata from directories, zip archives, and URLs into a local full-text search catalog.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		config, err = common.LoadFromFile(configFile)
		if err != nil {
			return err
		}
		if baseDirFlag != "" {
			config.Index.BaseDir = baseDirFlag
		}

		logger = common.SetupLogger(config)
		common.PrintBanner(config, logger)

		index, err = crateindex.OpenOrCreate(config, logger)
		if err != nil {
			return fmt.Errorf("failed to open crate index: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if index != nil {
			return index.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file path (TOML)")
	rootCmd.PersistentFlags().StringVar(&baseDirFlag, "base-dir", "", "Index base directory (overrides config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
