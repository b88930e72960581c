package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

var (
	queryTopK int
	queryJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Search indexed chunks by meaning",
	Long: `Embeds the query and returns the closest chunks across all documents.
Lower scores are closer; results are ordered most relevant first.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of results (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	topK := queryTopK
	if topK <= 0 {
		topK = appSettings.Query.TopK
	}

	resp, err := retrievalService.Query(context.Background(), strings.Join(args, " "), topK)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return printJSON(cmd, resp)
	}
	printQueryResults(cmd, resp)
	return nil
}

func printQueryResults(cmd *cobra.Command, resp *domain.QueryResponse) {
	if len(resp.Results) == 0 {
		cmd.Println("No results found.")
		return
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, r := range resp.Results {
		cmd.Printf("  [%d] %s (%.4f)\n", i+1, r.Filename, r.Score)
		cmd.Printf("      %s\n", r.Text)
		cmd.Println()
	}
}
