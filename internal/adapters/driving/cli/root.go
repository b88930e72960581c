// Package cli provides the ragindex command-line interface.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragindex/internal/adapters/driven/ai"
	"github.com/custodia-labs/ragindex/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ragindex/internal/adapters/driven/storage"
	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
	"github.com/custodia-labs/ragindex/internal/core/ports/driving"
	"github.com/custodia-labs/ragindex/internal/core/services"
	"github.com/custodia-labs/ragindex/internal/logger"
	"github.com/custodia-labs/ragindex/internal/normalisers"
	"github.com/custodia-labs/ragindex/internal/postprocessors/chunker"
)

// version is set at build time via SetVersion.
var version = "dev"

// Services used by the commands. They are built once by initServices and
// replaced by tests.
var (
	ingestService       driving.IngestService
	retrievalService    driving.RetrievalService
	completenessService driving.CompletenessService
	qaService           driving.QAService
	documentService     driving.DocumentService
	settingsService     driving.SettingsService

	// appSettings holds the resolved settings; commands read defaults from it.
	appSettings = domain.DefaultAppSettings()

	servicesReady bool
	closers       []func()
)

// Command annotation selecting which services a command needs.
const (
	annotationServices = "services"
	scopeNone          = "none"
	scopeSettings      = "settings"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "ragindex",
	Short: "Index documents and query them by meaning",
	Long: `ragindex splits uploaded documents into chunks, embeds them and stores
them in a local vector index. Query the index semantically, check which
topics a document covers, or ask questions answered from the indexed text.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return initServices(cmd.Context(), cmd.Annotations[annotationServices])
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline progress to stderr")
}

// SetVersion sets the version reported by 'ragindex version'.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command and releases services on exit.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

// initServices builds the services needed for scope from the user's settings.
func initServices(ctx context.Context, scope string) error {
	if servicesReady || scope == scopeNone {
		return nil
	}
	loadEnvFiles()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	settingsService = services.NewSettingsService(configStore, ai.Validator{})

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	appSettings = *settings

	if scope == scopeSettings {
		servicesReady = true
		return nil
	}

	index, err := storage.Open(appSettings.Storage)
	if err != nil {
		return fmt.Errorf("open %s index: %w", appSettings.Storage.Backend, err)
	}
	closers = append(closers, func() { _ = index.Close() })

	providers := ai.Connect(ctx, &appSettings)
	closers = append(closers, providers.Close)
	for _, w := range providers.Warnings {
		logger.Warn("%s", w)
	}

	var prompts driven.PromptStore
	if store, err := file.NewPromptStore(""); err != nil {
		logger.Warn("prompt store unavailable, using built-in prompts: %v", err)
	} else {
		prompts = store
	}

	wireServices(index, providers.Embedder, providers.LLM, prompts)
	servicesReady = true
	return nil
}

// wireServices builds the core services over the given collaborators.
// embedder and llm may be nil.
func wireServices(
	index driven.VectorIndex,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	prompts driven.PromptStore,
) {
	registry := normalisers.NewDefaultRegistry()
	chunks := chunker.New(chunker.WithMaxChars(appSettings.Chunk.MaxChars))

	retrieval := services.NewRetrievalService(index, embedder)

	ingestService = services.NewIngestService(index, registry, chunks, embedder)
	retrievalService = retrieval
	completenessService = services.NewCompletenessService(retrieval)
	documentService = services.NewDocumentService(index)

	// Without an LLM there is no QA service, so the ask tool and the TUI
	// Ask entry are not offered.
	qaService = nil
	if llm != nil {
		qa := services.NewQAService(retrieval, llm)
		if prompts != nil {
			qa.SetPromptStore(prompts)
		}
		qaService = qa
	}
}

// loadEnvFiles adds variables from ./.env and ~/.ragindex/.env to the
// environment. Variables that are already set are kept.
func loadEnvFiles() {
	files := []string{".env"}
	if home, err := os.UserHomeDir(); err == nil {
		files = append(files, filepath.Join(home, ".ragindex", ".env"))
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("read %s: %v", f, err)
		}
	}
}

func closeServices() {
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
	closers = nil
}

// printJSON writes v as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
