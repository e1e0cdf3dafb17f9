package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pathok-dev/pathok/internal/core/domain"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the textbooks",
	Long: `Answers a question using only the loaded textbooks.

The most relevant passages are retrieved and passed to the configured
language model, which answers in the language of the question and cites
the passages it used.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	requireAI(askCmd)
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if answerService == nil || corpusService == nil {
		return errors.New("answer service not configured")
	}

	ctx := cmd.Context()
	books, err := corpusService.Books(ctx)
	if err != nil {
		return fmt.Errorf("load books: %w", err)
	}

	answer := answerService.Answer(ctx, args[0], books, currentUser())

	if askJSON {
		data, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if !answer.OK() {
		cmd.Println(domain.UserMessage(answer.Err))
		if answer.IsNotFound() {
			return nil
		}
		return fmt.Errorf("ask failed: %s", answer.Error)
	}

	cmd.Println(answer.Text)
	cmd.Println()
	cmd.Println("Sources:")
	for i, src := range answer.Sources {
		cmd.Printf("  [%d] %s (%d%%)\n", i+1, src.BookTitle, src.Similarity)
		cmd.Printf("      %s\n", src.Text)
	}
	if answer.KeywordOnly {
		cmd.Println()
		cmd.Println(domain.MsgKeywordOnly)
	}
	return nil
}
