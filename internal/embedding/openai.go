package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"github.com/memkeep/memkeep/internal/memerr"
)

const (
	openAIModel    = "text-embedding-3-small"
	openAIDims     = 512
	openAIEndpoint = "https://api.openai.com/v1/embeddings"

	// openAIRequestsPerSecond keeps a single memkeep process well under
	// OpenAI's per-minute request cap during a bulk reindex, which issues
	// one batched call per scope rather than one per memory.
	openAIRequestsPerSecond = 3
	openAIBurst             = 3
)

type OpenAI struct {
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

func NewOpenAI(apiKey string) *OpenAI {
	return &OpenAI{
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(openAIRequestsPerSecond), openAIBurst),
	}
}

func (o *OpenAI) Dims() int    { return openAIDims }
func (o *OpenAI) Name() string { return "openai-3small-512" }

func (o *OpenAI) Embed(texts []string) ([][]float32, error) {
	if err := o.limiter.Wait(context.Background()); err != nil {
		return nil, memerr.Wrap(memerr.KindEmbeddingProvider, err, "openai: rate limit wait")
	}

	body, err := json.Marshal(openAIRequest{
		Model:      openAIModel,
		Input:      texts,
		Dimensions: openAIDims,
	})
	if err != nil {
		return nil, memerr.Wrap(memerr.KindEmbeddingProvider, err, "openai: marshal request")
	}

	req, err := http.NewRequest("POST", openAIEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, memerr.Wrap(memerr.KindEmbeddingProvider, err, "openai: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, memerr.Wrap(memerr.KindEmbeddingProvider, err, "openai: request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, memerr.Wrap(memerr.KindEmbeddingProvider, err, "openai: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, memerr.New(memerr.KindEmbeddingProvider, "openai: returned %d: %s", resp.StatusCode, respBody)
	}

	var result openAIResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, memerr.Wrap(memerr.KindEmbeddingProvider, err, "openai: unmarshal response")
	}

	sort.Slice(result.Data, func(i, j int) bool {
		return result.Data[i].Index < result.Data[j].Index
	})

	vecs := make([][]float32, len(result.Data))
	for i, d := range result.Data {
		vecs[i] = d.Embedding
	}
	return vecs, nil
}

type openAIRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions"`
}

type openAIResponse struct {
	Data []openAIEmbedding `json:"data"`
}

type openAIEmbedding struct {
	Index     int       `json:"index"`
	Embedding []float32 `json:"embedding"`
}
