// Package driving lists what the CLI, TUI and MCP server may ask of the
// core. Each interface is implemented by a type in internal/core/services.
package driving
