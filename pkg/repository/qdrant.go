package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/kioku/pkg/model"
)

const defaultQdrantURL = "http://localhost:6333"

// Qdrant implements Repository against a Qdrant REST endpoint.
type Qdrant struct {
	baseURL    string
	apiKey     string
	collection string
	dimension  int
	client     *http.Client
}

type QdrantOption func(*Qdrant)

// WithQdrantAPIKey sets the api-key header for authenticated deployments.
func WithQdrantAPIKey(key string) QdrantOption {
	return func(q *Qdrant) {
		q.apiKey = key
	}
}

func WithQdrantHTTPClient(client *http.Client) QdrantOption {
	return func(q *Qdrant) {
		q.client = client
	}
}

// NewQdrant creates a Qdrant-backed Repository for the named collection.
func NewQdrant(baseURL, collection string, opts ...QdrantOption) (*Qdrant, error) {
	if collection == "" {
		return nil, goerr.New("qdrant collection name is required", goerr.T(model.TagInvalidInput))
	}
	if baseURL == "" {
		baseURL = defaultQdrantURL
	}

	q := &Qdrant{
		baseURL:    strings.TrimRight(baseURL, "/"),
		collection: collection,
		client:     &http.Client{Timeout: 15 * time.Second},
	}

	for _, opt := range opts {
		opt(q)
	}

	return q, nil
}

func (q *Qdrant) SupportsSearch() bool { return true }

// --- wire types ---

// qdrantStatus accepts both `status: "ok"` and `status: {"error":"..."}`.
type qdrantStatus struct {
	State string
	Error string
}

func (s *qdrantStatus) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		s.State = strings.ToLower(v)
		return nil
	}
	var obj struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	if obj.Error != "" {
		s.State = "error"
		s.Error = obj.Error
	}
	return nil
}

type qdrantEnvelope[T any] struct {
	Status qdrantStatus `json:"status"`
	Time   float64      `json:"time"`
	Result T            `json:"result"`
}

// cardPayload is the fixed payload schema of a stored point. Unknown
// fields are dropped on read rather than passed through.
type cardPayload struct {
	Content    string   `json:"content"`
	Tags       []string `json:"tags"`
	Source     string   `json:"source"`
	Importance int      `json:"importance"`
	CreatedAt  string   `json:"created_at"`
}

func payloadFromCard(card *model.Card) cardPayload {
	return cardPayload{
		Content:    card.Content,
		Tags:       card.Tags,
		Source:     card.Source,
		Importance: card.Importance,
		CreatedAt:  card.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

type qdrantPoint struct {
	ID      string      `json:"id"`
	Score   float64     `json:"score"`
	Payload cardPayload `json:"payload"`
	Vector  []float32   `json:"vector"`
}

func (p *qdrantPoint) toCard() (*model.Card, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, p.Payload.CreatedAt)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid created_at in point payload",
			goerr.T(model.TagStorage), goerr.V("id", p.ID))
	}
	return &model.Card{
		ID:         model.CardID(p.ID),
		Content:    p.Payload.Content,
		Tags:       p.Payload.Tags,
		Source:     p.Payload.Source,
		Importance: p.Payload.Importance,
		Embedding:  p.Vector,
		CreatedAt:  createdAt,
	}, nil
}

type qdrantScrollResult struct {
	Points []qdrantPoint   `json:"points"`
	Offset json.RawMessage `json:"next_page_offset"`
}

type qdrantCollectionInfo struct {
	Config struct {
		Params struct {
			Vectors struct {
				Size     int    `json:"size"`
				Distance string `json:"distance"`
			} `json:"vectors"`
		} `json:"params"`
	} `json:"config"`
}

// tagFilter is Qdrant's exact-match condition on the tags payload field.
// Applied server-side before ranking.
func tagFilter(tag string) map[string]any {
	return map[string]any{
		"must": []map[string]any{
			{"key": "tags", "match": map[string]any{"value": tag}},
		},
	}
}

// --- Repository implementation ---

func (q *Qdrant) EnsureCollection(ctx context.Context, dimension int, metric Distance) error {
	if dimension <= 0 {
		return goerr.New("collection dimension must be positive",
			goerr.T(model.TagCollectionConfig), goerr.V("dimension", dimension))
	}

	info, exists, err := q.collectionInfo(ctx)
	if err != nil {
		return err
	}

	if !exists {
		req := map[string]any{
			"vectors": map[string]any{
				"size":     dimension,
				"distance": string(metric),
			},
		}
		if err := q.do(ctx, http.MethodPut, q.collectionPath(""), req, nil); err != nil {
			return err
		}
		q.dimension = dimension
		return nil
	}

	got := info.Config.Params.Vectors
	if got.Size != dimension || !strings.EqualFold(got.Distance, string(metric)) {
		return goerr.New("collection config mismatch",
			goerr.T(model.TagCollectionConfig),
			goerr.V("collection", q.collection),
			goerr.V("got_size", got.Size),
			goerr.V("want_size", dimension),
			goerr.V("got_distance", got.Distance),
			goerr.V("want_distance", string(metric)))
	}

	q.dimension = dimension
	return nil
}

func (q *Qdrant) PutCard(ctx context.Context, card *model.Card) error {
	if q.dimension > 0 && len(card.Embedding) != q.dimension {
		return goerr.New("embedding length does not match collection dimension",
			goerr.T(model.TagStorage),
			goerr.V("got", len(card.Embedding)),
			goerr.V("want", q.dimension))
	}

	req := map[string]any{
		"points": []map[string]any{{
			"id":      string(card.ID),
			"vector":  card.Embedding,
			"payload": payloadFromCard(card),
		}},
	}

	var resp qdrantEnvelope[json.RawMessage]
	if err := q.do(ctx, http.MethodPut, q.collectionPath("/points?wait=true"), req, &resp); err != nil {
		return err
	}
	if resp.Status.Error != "" {
		return goerr.New(resp.Status.Error, goerr.T(model.TagStorage))
	}
	return nil
}

func (q *Qdrant) GetCard(ctx context.Context, id model.CardID) (*model.Card, error) {
	req := map[string]any{
		"ids":          []string{string(id)},
		"with_payload": true,
		"with_vector":  true,
	}

	var resp qdrantEnvelope[[]qdrantPoint]
	if err := q.do(ctx, http.MethodPost, q.collectionPath("/points"), req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Result) == 0 {
		return nil, goerr.Wrap(model.ErrCardNotFound, "no such point", goerr.V("id", id))
	}
	return resp.Result[0].toCard()
}

func (q *Qdrant) ListCards(ctx context.Context, limit int) ([]*model.Card, error) {
	return q.scroll(ctx, nil, limit)
}

func (q *Qdrant) ListCardsByTag(ctx context.Context, tag string, limit int) ([]*model.Card, error) {
	return q.scroll(ctx, tagFilter(tag), limit)
}

func (q *Qdrant) scroll(ctx context.Context, filter map[string]any, limit int) ([]*model.Card, error) {
	if limit <= 0 {
		return nil, nil
	}

	req := map[string]any{
		"limit":        limit,
		"with_payload": true,
		"with_vector":  true,
	}
	if filter != nil {
		req["filter"] = filter
	}

	var resp qdrantEnvelope[qdrantScrollResult]
	if err := q.do(ctx, http.MethodPost, q.collectionPath("/points/scroll"), req, &resp); err != nil {
		return nil, err
	}

	cards := make([]*model.Card, 0, len(resp.Result.Points))
	for _, point := range resp.Result.Points {
		card, err := point.toCard()
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// SearchSimilar ranks by descending score. Qdrant already orders results;
// the stable re-sort preserves its return order for equal scores.
func (q *Qdrant) SearchSimilar(ctx context.Context, vector []float32, limit int, tag string) ([]*model.ScoredCard, error) {
	if limit <= 0 {
		return nil, nil
	}

	req := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
		"with_vector":  true,
	}
	if tag != "" {
		req["filter"] = tagFilter(tag)
	}

	var resp qdrantEnvelope[[]qdrantPoint]
	if err := q.do(ctx, http.MethodPost, q.collectionPath("/points/search"), req, &resp); err != nil {
		return nil, err
	}

	results := make([]*model.ScoredCard, 0, len(resp.Result))
	for _, point := range resp.Result {
		card, err := point.toCard()
		if err != nil {
			return nil, err
		}
		results = append(results, &model.ScoredCard{Card: card, Score: point.Score})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// DeleteCard verifies existence first: Qdrant's point delete is silently
// idempotent, and a miss must be observable to the caller.
func (q *Qdrant) DeleteCard(ctx context.Context, id model.CardID) error {
	if _, err := q.GetCard(ctx, id); err != nil {
		return err
	}

	req := map[string]any{
		"points": []string{string(id)},
	}
	return q.do(ctx, http.MethodPost, q.collectionPath("/points/delete?wait=true"), req, nil)
}

// --- HTTP plumbing ---

func (q *Qdrant) collectionPath(suffix string) string {
	return fmt.Sprintf("/collections/%s%s", url.PathEscape(q.collection), suffix)
}

// collectionInfo fetches the collection config; absent collections are
// reported via the second return value instead of an error.
func (q *Qdrant) collectionInfo(ctx context.Context) (*qdrantCollectionInfo, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, q.baseURL+q.collectionPath(""), nil)
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to build qdrant request", goerr.T(model.TagStorage))
	}
	q.setHeaders(httpReq)

	resp, err := q.client.Do(httpReq)
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to reach qdrant", goerr.T(model.TagStorage))
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode >= 400 {
		return nil, false, goerr.New("qdrant returned an error",
			goerr.T(model.TagStorage),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", strings.TrimSpace(string(body))))
	}

	var env qdrantEnvelope[qdrantCollectionInfo]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, false, goerr.Wrap(err, "failed to parse collection info", goerr.T(model.TagStorage))
	}
	return &env.Result, true, nil
}

func (q *Qdrant) do(ctx context.Context, method, path string, body, out any) error {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return goerr.Wrap(err, "failed to marshal qdrant request", goerr.T(model.TagStorage))
		}
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, q.baseURL+path, buf)
	if err != nil {
		return goerr.Wrap(err, "failed to build qdrant request", goerr.T(model.TagStorage))
	}
	q.setHeaders(req)

	resp, err := q.client.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to reach qdrant", goerr.T(model.TagStorage))
	}
	defer resp.Body.Close()

	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode >= 400 {
		return goerr.New("qdrant returned an error",
			goerr.T(model.TagStorage),
			goerr.V("method", method),
			goerr.V("path", path),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", strings.TrimSpace(string(payload))))
	}

	if out != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, out); err != nil {
			return goerr.Wrap(err, "failed to parse qdrant response", goerr.T(model.TagStorage))
		}
	}
	return nil
}

func (q *Qdrant) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if q.apiKey != "" {
		req.Header.Set("api-key", q.apiKey)
	}
}
