package cli

import (
	"errors"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragindex/internal/adapters/driving/mcp"
)

var (
	mcpPort int
	mcpHost string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol integration",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the index to MCP clients",
	Long: `Serves the index to AI assistants over the Model Context Protocol.

Without --port the server speaks JSON-RPC on stdin and stdout, which is what
desktop assistants expect when they launch ragindex themselves:

  {"mcpServers": {"ragindex": {"command": "ragindex", "args": ["mcp", "serve"]}}}

With --port it serves the streamable HTTP transport on --host (loopback by
default) until interrupted.

Tools: query, ingest, completeness, ask, delete_document. ask reports an
error until an LLM is configured with 'ragindex config llm'.
Resources: ragindex://documents and ragindex://documents/{document_id}.`,
	Example: `  ragindex mcp serve
  ragindex mcp serve --port 8080
  ragindex mcp serve --port 8080 --host 0.0.0.0`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "serve HTTP on this port instead of stdio")
	mcpServeCmd.Flags().StringVar(&mcpHost, "host", "127.0.0.1", "interface to bind with --port")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func newMCPServer() (*mcp.Server, error) {
	if retrievalService == nil {
		return nil, errors.New("retrieval service not configured")
	}

	return mcp.NewServer(&mcp.Ports{
		Retrieval:    retrievalService,
		Ingest:       ingestService,
		Completeness: completenessService,
		QA:           qaService,
		Document:     documentService,
	}, mcp.WithDefaults(appSettings.Query.TopK, appSettings.Completeness.Threshold))
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	if mcpPort < 0 || mcpPort > 65535 {
		return errors.New("--port must be between 1 and 65535")
	}

	server, err := newMCPServer()
	if err != nil {
		return err
	}
	if mcpPort == 0 {
		return server.Run(cmd.Context())
	}

	addr := net.JoinHostPort(mcpHost, strconv.Itoa(mcpPort))
	cmd.PrintErrf("MCP server on http://%s\n", addr)
	return server.RunHTTP(cmd.Context(), addr)
}
