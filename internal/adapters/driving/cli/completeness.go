package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	completenessThreshold float64
	completenessJSON      bool
)

var completenessCmd = &cobra.Command{
	Use:   "completeness [doc-id] [topic...]",
	Short: "Check which topics a document covers",
	Long: `Embeds each topic and finds the closest chunk of the document. A topic
is covered when that chunk lies within the distance threshold.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompleteness,
}

func init() {
	completenessCmd.Flags().Float64VarP(&completenessThreshold, "threshold", "t", 0,
		"maximum distance for a covered topic (default from config)")
	completenessCmd.Flags().BoolVar(&completenessJSON, "json", false, "output report as JSON")
	rootCmd.AddCommand(completenessCmd)
}

func runCompleteness(cmd *cobra.Command, args []string) error {
	if completenessService == nil {
		return errors.New("completeness service not configured")
	}

	threshold := completenessThreshold
	if !cmd.Flags().Changed("threshold") {
		threshold = appSettings.Completeness.Threshold
	}

	report, err := completenessService.Evaluate(context.Background(), args[0], args[1:], threshold)
	if err != nil {
		return fmt.Errorf("completeness check failed: %w", err)
	}

	if completenessJSON {
		return printJSON(cmd, report)
	}

	cmd.Printf("Document: %s\n", report.DocumentID)
	cmd.Printf("Coverage: %.2f%%\n", report.Coverage)
	cmd.Printf("Covered:  %s\n", joinOrNone(report.Covered))
	cmd.Printf("Missing:  %s\n", joinOrNone(report.Missing))
	return nil
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
