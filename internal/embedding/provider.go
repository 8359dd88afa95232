package embedding

import (
	"net/http"
	"os"
	"time"

	"github.com/memkeep/memkeep/internal/memerr"
)

// NewFromProvider constructs an Embedder by provider name (spec §4.7).
// There is no config key for the provider; the CLI always passes "auto".
// "auto" (default) tries ollama first, falls back to openai.
// "ollama": model and baseURL are optional (defaults apply).
// "openai": reads OPENAI_API_KEY from environment.
func NewFromProvider(provider, model, baseURL string) (Embedder, error) {
	switch provider {
	case "auto", "":
		if ollamaReachable(baseURL) {
			return NewOllama(model, baseURL), nil
		}
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			return NewOpenAI(key), nil
		}
		return nil, memerr.New(memerr.KindEmbeddingProvider, "no embedder available — install ollama or set OPENAI_API_KEY")
	case "ollama":
		return NewOllama(model, baseURL), nil
	case "openai":
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			return nil, memerr.New(memerr.KindEmbeddingProvider, "OPENAI_API_KEY not set")
		}
		return NewOpenAI(key), nil
	default:
		return nil, memerr.New(memerr.KindConfiguration, "unknown embedder provider %q (available: auto, ollama, openai)", provider)
	}
}

func ollamaReachable(baseURL string) bool {
	if baseURL == "" {
		baseURL = ollamaDefaultBaseURL
	}
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/api/tags")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
