// Command ragindex indexes documents into a local vector store and answers
// semantic queries over them.
package main

import (
	"os"

	"github.com/custodia-labs/ragindex/internal/adapters/driving/cli"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
