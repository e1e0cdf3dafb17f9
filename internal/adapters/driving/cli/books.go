package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "List loaded textbooks",
	RunE:  runBooksList,
}

var booksStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus statistics",
	RunE:  runBooksStats,
}

var booksReloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Reload textbooks from disk",
	RunE:  runBooksReload,
}

func init() {
	booksCmd.AddCommand(booksStatsCmd)
	booksCmd.AddCommand(booksReloadCmd)
	rootCmd.AddCommand(booksCmd)
}

func runBooksList(cmd *cobra.Command, _ []string) error {
	if corpusService == nil {
		return errors.New("corpus service not configured")
	}

	books, err := corpusService.Books(cmd.Context())
	if err != nil {
		return fmt.Errorf("load books: %w", err)
	}

	if len(books) == 0 {
		cmd.Println("No books loaded.")
		return nil
	}

	cmd.Println("Books:")
	for i := range books {
		cmd.Printf("  %s", books[i].Title())
		if books[i].Metadata.Class != "" {
			cmd.Printf(" (class %s, %s)", books[i].Metadata.Class, books[i].Metadata.Subject)
		}
		cmd.Printf(" - %d chunks\n", len(books[i].Chunks))
	}
	return nil
}

func runBooksStats(cmd *cobra.Command, _ []string) error {
	if corpusService == nil {
		return errors.New("corpus service not configured")
	}

	if _, err := corpusService.Books(cmd.Context()); err != nil {
		return fmt.Errorf("load books: %w", err)
	}

	stats := corpusService.Stats()
	cmd.Printf("Books:           %d\n", stats.Books)
	cmd.Printf("Chunks:          %d\n", stats.Chunks)
	cmd.Printf("Embedded chunks: %d\n", stats.EmbeddedChunks)
	if stats.Dimensions > 0 {
		cmd.Printf("Dimensions:      %d\n", stats.Dimensions)
	} else {
		cmd.Println("Dimensions:      none (keyword search only)")
	}
	return nil
}

func runBooksReload(cmd *cobra.Command, _ []string) error {
	if corpusService == nil {
		return errors.New("corpus service not configured")
	}

	books, err := corpusService.Reload(cmd.Context())
	if err != nil {
		return fmt.Errorf("reload books: %w", err)
	}

	cmd.Printf("Reloaded %d books.\n", len(books))
	return nil
}
