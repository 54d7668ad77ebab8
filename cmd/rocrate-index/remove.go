package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <crate-id>",
	Short: "Remove a crate from the catalog",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	crateID := args[0]
	if err := index.Remove(crateID); err != nil {
		return fmt.Errorf("remove failed: %w", err)
	}
	fmt.Printf("removed %s\n", crateID)
	return nil
}
