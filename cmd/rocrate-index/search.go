package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arunaengine/rocrate-indexer/internal/models"
)

var (
	searchType    string
	searchLimit   int
	searchContent string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over indexed crate entities",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchType, "type", "", "Restrict to entities of this @type")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "Maximum number of hits to return")
	searchCmd.Flags().StringVar(&searchContent, "content", "", "Column-filtered content query, used together with --type")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	var hits []models.SearchHit
	var err error

	switch {
	case searchType != "" && searchContent != "":
		hits, err = index.SearchTypedContent(searchType, searchContent, searchLimit)
	case searchType != "":
		hits, err = index.SearchByType(searchType, searchLimit)
	default:
		hits, err = index.Search(query, searchLimit)
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(hits) == 0 {
		fmt.Println("no matches")
		return nil
	}
	for _, hit := range hits {
		fmt.Printf("%.4f  %s  %s\n", hit.Score, hit.CrateID, hit.EntityID)
	}
	return nil
}
