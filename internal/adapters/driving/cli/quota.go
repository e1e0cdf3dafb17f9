package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var quotaCmd = &cobra.Command{
	Use:   "quota",
	Short: "Show today's question quota",
	RunE:  runQuota,
}

func init() {
	rootCmd.AddCommand(quotaCmd)
}

func runQuota(cmd *cobra.Command, _ []string) error {
	if quotaReporter == nil {
		return errors.New("quota store not configured")
	}

	ctx := cmd.Context()
	key := currentUser()

	used, err := quotaReporter.Used(ctx, key)
	if err != nil {
		return fmt.Errorf("read quota: %w", err)
	}
	remaining, err := quotaReporter.Remaining(ctx, key)
	if err != nil {
		return fmt.Errorf("read quota: %w", err)
	}

	cmd.Printf("User: %s\n", key)
	cmd.Printf("Used today: %d\n", used)
	if remaining < 0 {
		cmd.Println("Remaining: unlimited")
	} else {
		cmd.Printf("Remaining: %d\n", remaining)
	}
	return nil
}
