package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arunaengine/rocrate-indexer/internal/common"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rocrate-index version %s\n", common.GetVersion())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
