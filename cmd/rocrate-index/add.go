package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arunaengine/rocrate-indexer/internal/models"
)

var addCmd = &cobra.Command{
	Use:   "add <path-or-url>",
	Short: "Ingest a crate from a directory, zip file, or URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	source, err := resolveSource(args[0])
	if err != nil {
		return err
	}

	result, err := index.AddFromSource(source)
	if err != nil {
		return fmt.Errorf("add failed: %w", err)
	}

	printAddResult(result, 0)
	return nil
}

// resolveSource classifies a CLI argument into a CrateSource: a URL scheme
// prefix means SourceURL, an existing directory means SourceDirectory,
// anything else is treated as a zip file path.
func resolveSource(arg string) (models.CrateSource, error) {
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		return models.NewURLSource(arg), nil
	}

	info, err := os.Stat(arg)
	if err != nil {
		return models.CrateSource{}, fmt.Errorf("cannot access %q: %w", arg, err)
	}
	if info.IsDir() {
		return models.NewDirectorySource(arg), nil
	}
	return models.NewZipFileSource(arg), nil
}

func printAddResult(result *models.AddResult, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Printf("%s%s (%d entities)\n", indent, result.CrateID, result.EntityCount)
	for _, sub := range result.Subcrates {
		printAddResult(sub, depth+1)
	}
}
