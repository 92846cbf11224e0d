package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sashabaranov/go-openai"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/kioku/pkg/adapter"
	"github.com/m-mizutani/kioku/pkg/model"
	"github.com/m-mizutani/kioku/pkg/repository"
	"github.com/m-mizutani/kioku/pkg/usecase/card"
	"github.com/m-mizutani/kioku/pkg/utils/logging"
)

// config holds configuration values
type config struct {
	logLevel string

	// Repository
	store      string
	qdrantURL  string
	qdrantKey  string
	collection string

	// Embedding provider
	provider     string
	geminiAPIKey string
	openaiAPIKey string
	model        string
	dimension    int64
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("KIOKU_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
		&cli.StringFlag{
			Name:        "store",
			Usage:       "Card store backend (qdrant or memory)",
			Value:       "qdrant",
			Sources:     cli.EnvVars("KIOKU_STORE"),
			Destination: &cfg.store,
		},
		&cli.StringFlag{
			Name:        "qdrant-url",
			Usage:       "Qdrant server URL",
			Value:       "http://localhost:6333",
			Sources:     cli.EnvVars("KIOKU_QDRANT_URL"),
			Destination: &cfg.qdrantURL,
		},
		&cli.StringFlag{
			Name:        "qdrant-api-key",
			Usage:       "Qdrant API key",
			Sources:     cli.EnvVars("KIOKU_QDRANT_API_KEY"),
			Destination: &cfg.qdrantKey,
		},
		&cli.StringFlag{
			Name:        "collection",
			Aliases:     []string{"c"},
			Usage:       "Qdrant collection name",
			Value:       "context_cards",
			Sources:     cli.EnvVars("KIOKU_COLLECTION"),
			Destination: &cfg.collection,
		},
	}
}

// embedderFlags returns flags for embedding provider configuration with destination config
func embedderFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "provider",
			Usage:       "Embedding provider (gemini or openai)",
			Value:       "gemini",
			Sources:     cli.EnvVars("KIOKU_EMBEDDING_PROVIDER"),
			Destination: &cfg.provider,
		},
		&cli.StringFlag{
			Name:        "gemini-api-key",
			Usage:       "Gemini API key",
			Sources:     cli.EnvVars("GEMINI_API_KEY"),
			Destination: &cfg.geminiAPIKey,
		},
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key",
			Sources:     cli.EnvVars("OPENAI_API_KEY"),
			Destination: &cfg.openaiAPIKey,
		},
		&cli.StringFlag{
			Name:        "embedding-model",
			Usage:       "Override the provider's default embedding model",
			Sources:     cli.EnvVars("KIOKU_EMBEDDING_MODEL"),
			Destination: &cfg.model,
		},
		&cli.IntFlag{
			Name:        "embedding-dimension",
			Usage:       "Override the provider's default embedding dimension",
			Sources:     cli.EnvVars("KIOKU_EMBEDDING_DIMENSION"),
			Destination: &cfg.dimension,
		},
	}
}

// newEmbedder creates the configured embedding provider adapter
func (cfg *config) newEmbedder(ctx context.Context) (adapter.Embedder, error) {
	switch cfg.provider {
	case "gemini":
		var opts []adapter.GeminiOption
		if cfg.model != "" {
			opts = append(opts, adapter.WithGeminiModel(cfg.model))
		}
		if cfg.dimension > 0 {
			opts = append(opts, adapter.WithGeminiDimension(int(cfg.dimension)))
		}
		return adapter.NewGeminiEmbedder(ctx, cfg.geminiAPIKey, opts...)

	case "openai":
		var opts []adapter.OpenAIOption
		if cfg.model != "" {
			opts = append(opts, adapter.WithOpenAIModel(openai.EmbeddingModel(cfg.model)))
		}
		if cfg.dimension > 0 {
			opts = append(opts, adapter.WithOpenAIDimension(int(cfg.dimension)))
		}
		return adapter.NewOpenAIEmbedder(cfg.openaiAPIKey, opts...)

	default:
		return nil, goerr.New("unknown embedding provider",
			goerr.T(model.TagInvalidInput), goerr.V("provider", cfg.provider))
	}
}

// newRepository creates the configured card store
func (cfg *config) newRepository() (repository.Repository, error) {
	switch cfg.store {
	case "qdrant":
		var opts []repository.QdrantOption
		if cfg.qdrantKey != "" {
			opts = append(opts, repository.WithQdrantAPIKey(cfg.qdrantKey))
		}
		return repository.NewQdrant(cfg.qdrantURL, cfg.collection, opts...)

	case "memory":
		return repository.NewMemstore(), nil

	default:
		return nil, goerr.New("unknown store backend",
			goerr.T(model.TagInvalidInput), goerr.V("store", cfg.store))
	}
}

// newUseCase wires the embedder and repository together, verifying the
// collection config against the provider dimension before any request.
func (cfg *config) newUseCase(ctx context.Context) (*card.UseCase, error) {
	logging.SetDefault(logging.New(cfg.logLevel, os.Stderr))

	embedder, err := cfg.newEmbedder(ctx)
	if err != nil {
		return nil, err
	}

	repo, err := cfg.newRepository()
	if err != nil {
		return nil, err
	}

	if err := repo.EnsureCollection(ctx, embedder.Dimension(), repository.DistanceCosine); err != nil {
		return nil, goerr.Wrap(err, "collection is not usable with this embedding provider")
	}

	return card.New(repo, embedder), nil
}
