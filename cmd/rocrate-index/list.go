package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every catalogued crate",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	entries := index.ListCrateEntries()
	if len(entries) == 0 {
		fmt.Println("no crates indexed")
		return nil
	}

	for _, entry := range entries {
		depth := len(entry.FullPath) - 1
		indent := strings.Repeat("  ", depth)
		name := entry.Name
		if name == "" {
			name = "(untitled)"
		}
		fmt.Printf("%s%s  %s\n", indent, entry.CrateID, name)
	}
	return nil
}
