package embedding

import "unicode"

// Embedder produces vector embeddings from text (spec §4.7).
type Embedder interface {
	Embed(texts []string) ([][]float32, error)
	Dims() int
	Name() string // model key persisted in the cache, e.g. "ollama-mxbai-embed-large-512"
}

// maxEmbedInputRunes bounds how much of a memory's content is sent to the
// provider; providers charge per token and most truncate silently past
// their own limit anyway, so memkeep truncates first and records that it
// did by appending "...".
const maxEmbedInputRunes = 6000

// TruncateForEmbedding trims content to a provider-friendly size (spec
// §4.7's `truncate_for_embedding`): content longer than
// maxEmbedInputRunes is cut at the last whitespace before the limit (or
// at the limit when there is none) and "..." is appended.
func TruncateForEmbedding(content string) string {
	runes := []rune(content)
	if len(runes) <= maxEmbedInputRunes {
		return content
	}
	cut := maxEmbedInputRunes
	for i := maxEmbedInputRunes - 1; i > 0; i-- {
		if unicode.IsSpace(runes[i]) {
			cut = i
			break
		}
	}
	return string(runes[:cut]) + "..."
}
