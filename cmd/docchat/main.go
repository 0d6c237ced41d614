package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	configfile "github.com/custodia-labs/docchat-cli/internal/adapters/driven/config/file"
	embollama "github.com/custodia-labs/docchat-cli/internal/adapters/driven/embedding/ollama"
	embopenai "github.com/custodia-labs/docchat-cli/internal/adapters/driven/embedding/openai"
	llmollama "github.com/custodia-labs/docchat-cli/internal/adapters/driven/llm/ollama"
	llmopenai "github.com/custodia-labs/docchat-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driven/storage/sqlite"
	vsmemory "github.com/custodia-labs/docchat-cli/internal/adapters/driven/vectorstore/memory"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driven/vectorstore/qdrant"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/services"
	"github.com/custodia-labs/docchat-cli/internal/ingest"
	"github.com/custodia-labs/docchat-cli/internal/logger"
	"github.com/custodia-labs/docchat-cli/internal/scraper"
)

func main() {
	// Missing .env is fine; environment variables may come from the shell.
	_ = godotenv.Load()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "docchat: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return err
	}

	llm, err := buildLLM(cfg)
	if err != nil {
		return err
	}

	chunks, err := buildChunkStore(cfg, embedder)
	if err != nil {
		return err
	}

	docs, err := sqlite.NewStore(cfg.GetString("storage.data_dir"))
	if err != nil {
		return fmt.Errorf("opening metadata store: %w", err)
	}
	defer docs.Close()

	prompts, err := configfile.NewPromptStore(cfg.GetString("prompts.dir"), services.DefaultPrompts())
	if err != nil {
		return fmt.Errorf("opening prompt store: %w", err)
	}
	if err := prompts.Watch(); err != nil {
		logger.Warn("Prompt hot reload disabled: %v", err)
	}
	defer prompts.Close()

	reframer := services.NewReframeService(llm)
	reframer.SetPromptStore(prompts)

	answer := services.NewAnswerService(chunks, llm, reframer)
	answer.SetPromptStore(prompts)

	ingestSvc, err := buildIngest(cfg, embedder, chunks, docs)
	if err != nil {
		return err
	}

	cli.SetServices(cli.Services{
		Chat:   answer,
		Ingest: ingestSvc,
		Docs:   docs,
	})

	return cli.Execute()
}

func buildEmbedder(cfg *configfile.ConfigStore) (driven.EmbeddingService, error) {
	switch provider := cfg.GetString("embedding.provider"); provider {
	case "", "ollama":
		return embollama.NewEmbeddingService(embollama.Config{
			BaseURL:    cfg.GetString("embedding.base_url"),
			Model:      cfg.GetString("embedding.model"),
			Dimensions: cfg.GetInt("embedding.dimensions"),
		}), nil
	case "openai":
		return embopenai.NewEmbeddingService(embopenai.Config{
			APIKey:     os.Getenv("OPENAI_API_KEY"),
			BaseURL:    cfg.GetString("embedding.base_url"),
			Model:      cfg.GetString("embedding.model"),
			Dimensions: cfg.GetInt("embedding.dimensions"),
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", provider)
	}
}

func buildLLM(cfg *configfile.ConfigStore) (driven.LLMService, error) {
	switch provider := cfg.GetString("llm.provider"); provider {
	case "", "ollama":
		return llmollama.NewLLMService(llmollama.LLMConfig{
			BaseURL: cfg.GetString("llm.base_url"),
			Model:   cfg.GetString("llm.model"),
			Timeout: time.Duration(cfg.GetInt("llm.timeout_seconds")) * time.Second,
		}), nil
	case "openai":
		return llmopenai.NewLLMService(llmopenai.LLMConfig{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: cfg.GetString("llm.base_url"),
			Model:   cfg.GetString("llm.model"),
			Timeout: time.Duration(cfg.GetInt("llm.timeout_seconds")) * time.Second,
		})
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}

func buildChunkStore(cfg *configfile.ConfigStore, embedder driven.EmbeddingService) (driven.ChunkStore, error) {
	switch provider := cfg.GetString("vectorstore.provider"); provider {
	case "", "qdrant":
		store := qdrant.NewStore(qdrant.Config{
			BaseURL:    cfg.GetString("vectorstore.url"),
			APIKey:     os.Getenv("QDRANT_API_KEY"),
			Collection: cfg.GetString("vectorstore.collection"),
		}, embedder)
		if err := store.EnsureCollection(context.Background()); err != nil {
			return nil, fmt.Errorf("preparing vector collection: %w", err)
		}
		return store, nil
	case "memory":
		return vsmemory.NewStore(embedder), nil
	default:
		return nil, fmt.Errorf("unknown vector store provider %q", provider)
	}
}

func buildIngest(
	cfg *configfile.ConfigStore,
	embedder driven.EmbeddingService,
	chunks driven.ChunkStore,
	docs driven.DocumentStore,
) (*services.IngestService, error) {
	var fetcher driven.CorpusFetcher
	if baseURL := cfg.GetString("portal.base_url"); baseURL != "" {
		s, err := scraper.New(scraper.Config{
			BaseURL:     baseURL,
			CatalogPath: cfg.GetString("portal.catalog_path"),
			DocsUUID:    cfg.GetString("portal.uuid"),
			Concurrency: cfg.GetInt("portal.concurrency"),
		})
		if err != nil {
			return nil, fmt.Errorf("building scraper: %w", err)
		}
		fetcher = s
	} else {
		fetcher = unconfiguredFetcher{}
	}

	var opts []ingest.Option
	if size := cfg.GetInt("chunking.size"); size > 0 {
		opts = append(opts, ingest.WithChunkSize(size))
	}
	if overlap := cfg.GetInt("chunking.overlap"); overlap > 0 {
		opts = append(opts, ingest.WithOverlap(overlap))
	}

	return services.NewIngestService(fetcher, ingest.NewSplitter(opts...), embedder, chunks, docs), nil
}

// unconfiguredFetcher fails ingestion with a pointer at the missing
// config key instead of a nil dereference.
type unconfiguredFetcher struct{}

func (unconfiguredFetcher) FetchAll(context.Context) ([]domain.FetchedPage, error) {
	return nil, fmt.Errorf("no documentation portal configured: set portal.base_url in the config file")
}
