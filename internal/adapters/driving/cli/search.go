package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pathok-dev/pathok/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the textbooks",
	Long: `Ranks textbook passages by similarity to the query.
Uses embedding similarity when an embedding service is available and falls
back to keyword overlap otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultSearchLimit, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	requireAI(searchCmd)
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil || corpusService == nil {
		return errors.New("search service not configured")
	}

	ctx := cmd.Context()
	books, err := corpusService.Books(ctx)
	if err != nil {
		return fmt.Errorf("load books: %w", err)
	}

	results, err := searchService.Search(ctx, query, books, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

type searchResultJSON struct {
	Book    string  `json:"book"`
	ChunkID string  `json:"chunk_id"`
	Score   float64 `json:"score"`
	Method  string  `json:"method"`
	Text    string  `json:"text"`
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	out := make([]searchResultJSON, len(results))
	for i := range results {
		out[i] = searchResultJSON{
			Book:    results[i].BookTitle,
			ChunkID: results[i].Chunk.ID,
			Score:   results[i].Score,
			Method:  results[i].Method.String(),
			Text:    results[i].Chunk.Text,
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		// Format: [N] Book (87%, embedding)
		cmd.Printf("  [%d] %s (%d%%, %s)\n", i+1, results[i].BookTitle, results[i].Percent(), results[i].Method)
		cmd.Printf("      %s\n", domain.Preview(results[i].Chunk.Text, domain.SourcePreviewLength))
		cmd.Println()
	}

	if keywordOnly {
		cmd.Println(domain.MsgKeywordOnly)
	}
	return nil
}
