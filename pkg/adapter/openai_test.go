package adapter_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/kioku/pkg/adapter"
	"github.com/m-mizutani/kioku/pkg/model"
)

type embeddingServer struct {
	srv      *httptest.Server
	requests int
	respond  func(n int) (vector []float32, status int)
}

func newEmbeddingServer(t *testing.T, respond func(n int) ([]float32, int)) *embeddingServer {
	s := &embeddingServer{respond: respond}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests++
		vector, status := s.respond(s.requests)
		if status != http.StatusOK {
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{
					"message": http.StatusText(status),
					"type":    "test_error",
				},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"model":  "text-embedding-3-small",
			"data": []map[string]any{
				{"object": "embedding", "index": 0, "embedding": vector},
			},
		})
	}))
	t.Cleanup(s.srv.Close)
	return s
}

func newTestEmbedder(t *testing.T, s *embeddingServer, opts ...adapter.OpenAIOption) *adapter.OpenAIEmbedder {
	opts = append([]adapter.OpenAIOption{
		adapter.WithOpenAIBaseURL(s.srv.URL + "/v1"),
		adapter.WithOpenAIDimension(4),
		adapter.WithOpenAIRetry(3, time.Millisecond),
	}, opts...)

	embedder, err := adapter.NewOpenAIEmbedder("test-key", opts...)
	gt.NoError(t, err)
	return embedder
}

func TestOpenAIEmbedder(t *testing.T) {
	ctx := context.Background()

	t.Run("returns vector of configured dimension", func(t *testing.T) {
		s := newEmbeddingServer(t, func(n int) ([]float32, int) {
			return []float32{0.1, 0.2, 0.3, 0.4}, http.StatusOK
		})
		embedder := newTestEmbedder(t, s)

		vector, err := embedder.Embed(ctx, "hello")
		gt.NoError(t, err)
		gt.A(t, vector).Length(4)
		gt.Equal(t, s.requests, 1)
	})

	t.Run("retries transient failures then succeeds", func(t *testing.T) {
		s := newEmbeddingServer(t, func(n int) ([]float32, int) {
			if n < 3 {
				return nil, http.StatusTooManyRequests
			}
			return []float32{1, 2, 3, 4}, http.StatusOK
		})
		embedder := newTestEmbedder(t, s)

		vector, err := embedder.Embed(ctx, "hello")
		gt.NoError(t, err)
		gt.A(t, vector).Length(4)
		gt.Equal(t, s.requests, 3)
	})

	t.Run("surfaces failure after retry budget", func(t *testing.T) {
		s := newEmbeddingServer(t, func(n int) ([]float32, int) {
			return nil, http.StatusTooManyRequests
		})
		embedder := newTestEmbedder(t, s)

		_, err := embedder.Embed(ctx, "hello")
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, model.TagEmbedding))
		gt.Equal(t, s.requests, 3)
	})

	t.Run("permanent failure is not retried", func(t *testing.T) {
		s := newEmbeddingServer(t, func(n int) ([]float32, int) {
			return nil, http.StatusUnauthorized
		})
		embedder := newTestEmbedder(t, s)

		_, err := embedder.Embed(ctx, "hello")
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, model.TagEmbedding))
		gt.Equal(t, s.requests, 1)
	})

	t.Run("rejects unexpected dimension", func(t *testing.T) {
		s := newEmbeddingServer(t, func(n int) ([]float32, int) {
			return []float32{0.1, 0.2, 0.3}, http.StatusOK
		})
		embedder := newTestEmbedder(t, s)

		_, err := embedder.Embed(ctx, "hello")
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, model.TagEmbedding))
	})

	t.Run("empty text fails without calling provider", func(t *testing.T) {
		s := newEmbeddingServer(t, func(n int) ([]float32, int) {
			return []float32{1, 2, 3, 4}, http.StatusOK
		})
		embedder := newTestEmbedder(t, s)

		_, err := embedder.Embed(ctx, "   \t ")
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, model.TagInvalidInput))
		gt.Equal(t, s.requests, 0)
	})
}

func TestNewOpenAIEmbedderRequiresKey(t *testing.T) {
	_, err := adapter.NewOpenAIEmbedder("")
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, model.TagInvalidInput))
}
