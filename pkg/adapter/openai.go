package adapter

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/kioku/pkg/model"
	"github.com/sashabaranov/go-openai"
)

const defaultOpenAIDimension = 1536

// OpenAIEmbedder generates embedding vectors via the OpenAI API.
type OpenAIEmbedder struct {
	client    *openai.Client
	model     openai.EmbeddingModel
	dimension int
	retry     retryPolicy
	baseURL   string
	apiKey    string
}

type OpenAIOption func(*OpenAIEmbedder)

func WithOpenAIModel(m openai.EmbeddingModel) OpenAIOption {
	return func(o *OpenAIEmbedder) {
		o.model = m
	}
}

func WithOpenAIDimension(dimension int) OpenAIOption {
	return func(o *OpenAIEmbedder) {
		o.dimension = dimension
	}
}

// WithOpenAIBaseURL overrides the API endpoint, e.g. for a local
// gateway or a test server.
func WithOpenAIBaseURL(u string) OpenAIOption {
	return func(o *OpenAIEmbedder) {
		o.baseURL = u
	}
}

func WithOpenAIRetry(maxAttempts int, baseDelay time.Duration) OpenAIOption {
	return func(o *OpenAIEmbedder) {
		o.retry.maxAttempts = maxAttempts
		o.retry.baseDelay = baseDelay
	}
}

// NewOpenAIEmbedder creates an Embedder backed by the OpenAI API
func NewOpenAIEmbedder(apiKey string, opts ...OpenAIOption) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		return nil, goerr.New("openai api key is required", goerr.T(model.TagInvalidInput))
	}

	o := &OpenAIEmbedder{
		model:     openai.SmallEmbedding3,
		dimension: defaultOpenAIDimension,
		retry:     defaultRetryPolicy(),
		apiKey:    apiKey,
	}

	for _, opt := range opts {
		opt(o)
	}

	cfg := openai.DefaultConfig(o.apiKey)
	if o.baseURL != "" {
		cfg.BaseURL = o.baseURL
	}
	o.client = openai.NewClientWithConfig(cfg)

	return o, nil
}

func (o *OpenAIEmbedder) Dimension() int {
	return o.dimension
}

func (o *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, goerr.New("embedding text is empty", goerr.T(model.TagInvalidInput))
	}

	var vector []float32
	err := o.retry.do(ctx, openaiTransient, func() error {
		resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input:      []string{text},
			Model:      o.model,
			Dimensions: o.dimension,
		})
		if err != nil {
			return goerr.Wrap(err, "failed to create embeddings", goerr.T(model.TagEmbedding))
		}
		if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
			return goerr.New("no embedding returned from openai", goerr.T(model.TagEmbedding))
		}
		vector = resp.Data[0].Embedding
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(vector) != o.dimension {
		return nil, goerr.New("unexpected embedding dimension",
			goerr.T(model.TagEmbedding),
			goerr.V("got", len(vector)),
			goerr.V("want", o.dimension))
	}

	return vector, nil
}

func openaiTransient(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
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
