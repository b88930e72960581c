package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragindex/internal/core/ports/driving"
)

var documentJSON bool

var documentCmd = &cobra.Command{
	Use:     "document",
	Aliases: []string{"doc"},
	Short:   "Inspect and remove indexed documents",
}

var documentListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List indexed documents",
	Args:    cobra.NoArgs,
	RunE: withDocuments(func(cmd *cobra.Command, docs driving.DocumentService, _ []string) error {
		list, err := docs.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list documents: %w", err)
		}
		if documentJSON {
			return printJSON(cmd, list)
		}
		if len(list) == 0 {
			cmd.Println("No documents indexed.")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tFILENAME\tCHUNKS\tHASH")
		for _, d := range list {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%.12s\n", d.DocumentID, d.Filename, d.TotalChunks, d.ContentHash)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		cmd.Printf("\n%d document(s)\n", len(list))
		return nil
	}),
}

var documentGetCmd = &cobra.Command{
	Use:   "get <document-id>",
	Short: "Show a document and its chunks",
	Args:  cobra.ExactArgs(1),
	RunE: withDocuments(func(cmd *cobra.Command, docs driving.DocumentService, args []string) error {
		doc, err := docs.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get document: %w", err)
		}
		if documentJSON {
			return printJSON(cmd, doc)
		}

		cmd.Printf("%s  %s\n", doc.ID, doc.Filename)
		cmd.Printf("sha256 %s, %d chunk(s)\n\n", doc.ContentHash, len(doc.Chunks))
		for _, c := range doc.Chunks {
			cmd.Printf("#%d  %s\n", c.Position, c.Content)
		}
		return nil
	}),
}

var documentContentCmd = &cobra.Command{
	Use:   "content <document-id>",
	Short: "Print a document's indexed text",
	Long:  `Prints the document's chunks joined in order. Whitespace is normalised to single spaces.`,
	Args:  cobra.ExactArgs(1),
	RunE: withDocuments(func(cmd *cobra.Command, docs driving.DocumentService, args []string) error {
		text, err := docs.Content(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("read document: %w", err)
		}
		cmd.Println(text)
		return nil
	}),
}

var documentDeleteCmd = &cobra.Command{
	Use:     "delete <document-id>",
	Aliases: []string{"rm"},
	Short:   "Remove a document and its chunks",
	Args:    cobra.ExactArgs(1),
	RunE: withDocuments(func(cmd *cobra.Command, docs driving.DocumentService, args []string) error {
		removed, err := docs.Delete(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("delete document: %w", err)
		}
		if documentJSON {
			return printJSON(cmd, map[string]any{"document_id": args[0], "deleted_chunks": removed})
		}
		cmd.Printf("Removed %s (%d chunk(s)).\n", args[0], removed)
		return nil
	}),
}

func init() {
	for _, c := range []*cobra.Command{documentListCmd, documentGetCmd, documentDeleteCmd} {
		c.Flags().BoolVar(&documentJSON, "json", false, "print JSON")
		documentCmd.AddCommand(c)
	}
	documentCmd.AddCommand(documentContentCmd)
	rootCmd.AddCommand(documentCmd)
}

// withDocuments fails early when no index is open.
func withDocuments(run func(*cobra.Command, driving.DocumentService, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if documentService == nil {
			return errors.New("document service not configured")
		}
		return run(cmd, documentService, args)
	}
}
