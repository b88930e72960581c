package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragindex/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch an interactive terminal browser for the index.

Query the index, ask questions, and browse or delete indexed documents
with keyboard navigation.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Submit / Actions
  n        - New query or question
  Esc      - Back
  q        - Quit (from the menu)`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// newTUIApp builds the TUI over the configured services.
func newTUIApp() (*tui.App, error) {
	if retrievalService == nil {
		return nil, errors.New("retrieval service not configured")
	}

	ports := &tui.Ports{
		Retrieval: retrievalService,
		QA:        qaService,
		Document:  documentService,
	}
	app, err := tui.NewApp(ports, tui.WithTopK(appSettings.Query.TopK))
	if err != nil {
		return nil, fmt.Errorf("failed to create TUI: %w", err)
	}
	return app, nil
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("panic in TUI: %v", r)
		}
	}()

	app, err := newTUIApp()
	if err != nil {
		return err
	}

	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
