package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

var ingestJSON bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Index one or more files",
	Long: `Extracts text from each file, splits it into chunks, embeds the chunks
and stores them. Supported types: txt, md, html, xhtml, pdf, docx, eml.

A file whose content is already indexed is skipped. A file whose name is
already indexed with different content replaces the old version.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := context.Background()
	responses := make([]any, 0, len(args))
	var failed int

	for _, path := range args {
		result, err := ingestFile(ctx, path)
		if err != nil {
			failed++
			cmd.PrintErrf("Failed %s: %v\n", path, err)
			continue
		}

		responses = append(responses, result.Response())
		if !ingestJSON {
			printIngestResult(cmd, result)
		}
	}

	if ingestJSON {
		if err := printJSON(cmd, responses); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

// ingestFile reads path and ingests it under its base name.
func ingestFile(ctx context.Context, path string) (*domain.IngestResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return ingestService.Ingest(ctx, domain.IngestRequest{
		Filename: filepath.Base(path),
		Content:  content,
	})
}

func printIngestResult(cmd *cobra.Command, result *domain.IngestResult) {
	switch {
	case result.Duplicate:
		cmd.Printf("Skipped %s: %s (document %s)\n", result.Filename, domain.DuplicateMessage, result.DocumentID)
	case result.Reindexed:
		cmd.Printf("Reindexed %s: %d chunks (document %s)\n", result.Filename, result.TotalChunks, result.DocumentID)
	default:
		cmd.Printf("Ingested %s: %d chunks (document %s)\n", result.Filename, result.TotalChunks, result.DocumentID)
	}
}
