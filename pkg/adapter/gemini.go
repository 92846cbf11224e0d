package adapter

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/kioku/pkg/model"
	"google.golang.org/genai"
)

const (
	defaultGeminiModel     = "gemini-embedding-001"
	defaultGeminiDimension = 3072
)

// GeminiEmbedder generates embedding vectors via the Gemini API.
type GeminiEmbedder struct {
	client    *genai.Client
	model     string
	dimension int
	retry     retryPolicy
}

type GeminiOption func(*GeminiEmbedder)

func WithGeminiModel(model string) GeminiOption {
	return func(g *GeminiEmbedder) {
		g.model = model
	}
}

func WithGeminiDimension(dimension int) GeminiOption {
	return func(g *GeminiEmbedder) {
		g.dimension = dimension
	}
}

func WithGeminiRetry(maxAttempts int, baseDelay time.Duration) GeminiOption {
	return func(g *GeminiEmbedder) {
		g.retry.maxAttempts = maxAttempts
		g.retry.baseDelay = baseDelay
	}
}

// NewGeminiEmbedder creates an Embedder backed by the Gemini API
func NewGeminiEmbedder(ctx context.Context, apiKey string, opts ...GeminiOption) (*GeminiEmbedder, error) {
	if apiKey == "" {
		return nil, goerr.New("gemini api key is required", goerr.T(model.TagInvalidInput))
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create genai client")
	}

	g := &GeminiEmbedder{
		client:    client,
		model:     defaultGeminiModel,
		dimension: defaultGeminiDimension,
		retry:     defaultRetryPolicy(),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

func (g *GeminiEmbedder) Dimension() int {
	return g.dimension
}

func (g *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, goerr.New("embedding text is empty", goerr.T(model.TagInvalidInput))
	}

	dim := int32(g.dimension)
	cfg := &genai.EmbedContentConfig{OutputDimensionality: &dim}

	var vector []float32
	err := g.retry.do(ctx, geminiTransient, func() error {
		resp, err := g.client.Models.EmbedContent(ctx, g.model, genai.Text(text), cfg)
		if err != nil {
			return goerr.Wrap(err, "failed to embed content", goerr.T(model.TagEmbedding))
		}
		if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
			return goerr.New("no embedding returned from gemini", goerr.T(model.TagEmbedding))
		}
		vector = resp.Embeddings[0].Values
		return nil
	})
	if err != nil {
		return nil, err
	}

	// A silent dimension change would corrupt the collection.
	if len(vector) != g.dimension {
		return nil, goerr.New("unexpected embedding dimension",
			goerr.T(model.TagEmbedding),
			goerr.V("got", len(vector)),
			goerr.V("want", g.dimension))
	}

	return vector, nil
}

// geminiTransient reports whether a provider failure is worth another
// attempt. Rate limiting and server-side errors are transient; auth and
// malformed-input failures are not.
func geminiTransient(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "connection")
}
