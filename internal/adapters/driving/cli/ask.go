package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

var (
	askTopK        int
	askJSON        bool
	askShowSources bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from indexed documents",
	Long: `Retrieves the chunks closest to the question and asks the configured LLM
to answer using only that context. Requires an LLM provider; see
'ragindex config llm'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of context chunks (default from config)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output answer as JSON")
	askCmd.Flags().BoolVarP(&askShowSources, "sources", "s", false, "print the context chunks")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if qaService == nil {
		return fmt.Errorf("ask: %w (configure one with: ragindex config llm)", domain.ErrLLMUnavailable)
	}

	topK := askTopK
	if topK <= 0 {
		topK = appSettings.Query.TopK
	}

	answer, err := qaService.Answer(context.Background(), strings.Join(args, " "), topK)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return printJSON(cmd, answer)
	}

	cmd.Println(answer.Answer)
	if askShowSources && len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for i, src := range answer.Sources {
			cmd.Printf("  [%d] %s\n", i+1, src)
		}
	}
	return nil
}
