// Package embedding also implements the content-hash–keyed embedding
// cache (C7, spec §4.7): a per-scope JSON file mapping memory id to its
// vector, the content hash it was computed from, and the model that
// produced it. Grounded on wingthing's Ollama/OpenAI embedding clients
// (ollama.go, openai.go) and its cosine/normalize primitives
// (cosine.go), adapted from per-post-anchor assignment to per-memory
// caching against a schema-versioned JSON store.
package embedding

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/memkeep/memkeep/internal/memerr"
	"github.com/memkeep/memkeep/internal/storagefs"
)

const (
	cacheSchemaVersion = 1
	cacheFilename      = "embeddings.json"
)

// CacheEntry is one memory's cached vector (spec §3 "Embedding cache entry").
type CacheEntry struct {
	Embedding []float32 `json:"embedding"`
	Hash      string    `json:"hash"`
	Model     string    `json:"model"`
	Timestamp time.Time `json:"timestamp"`
}

// Cache is the on-disk representation of embeddings.json (spec §6).
type Cache struct {
	Version  int                   `json:"version"`
	Memories map[string]CacheEntry `json:"memories"`
}

// Store persists a Cache to a scope root via the filesystem abstraction.
type Store struct {
	fs storagefs.FS
}

// NewStore opens the embedding cache store rooted at fs.
func NewStore(fs storagefs.FS) *Store {
	return &Store{fs: fs}
}

// Load reads the cache file. A missing or corrupt file loads as empty
// (spec §4.7: "the cache file being unreadable is recoverable — start
// empty").
func (s *Store) Load() Cache {
	data, err := storagefs.ReadFile(s.fs, cacheFilename)
	if err != nil {
		return Cache{Version: cacheSchemaVersion, Memories: map[string]CacheEntry{}}
	}
	var c Cache
	if err := json.Unmarshal(data, &c); err != nil {
		return Cache{Version: cacheSchemaVersion, Memories: map[string]CacheEntry{}}
	}
	if c.Memories == nil {
		c.Memories = map[string]CacheEntry{}
	}
	return c
}

// Save persists the cache atomically. An unwritable cache file is fatal
// to the operation that asked to persist it (spec §4.7).
func (s *Store) Save(c Cache) error {
	c.Version = cacheSchemaVersion
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return memerr.Wrap(memerr.KindInternal, err, "marshal embedding cache")
	}
	if err := storagefs.AtomicWrite(s.fs, cacheFilename, data); err != nil {
		return memerr.Wrap(memerr.KindFilesystem, err, "write embedding cache")
	}
	return nil
}

// ContentHash returns the stable hash used to validate a cache entry
// against the memory's current (truncated) content.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(TruncateForEmbedding(content)))
	return hex.EncodeToString(sum[:])
}

// Get returns memoryID's vector, computing and caching it via embedder
// if absent or stale (spec §4.7). now is injected for deterministic
// timestamps in tests.
func (s *Store) Get(memoryID, content string, embedder Embedder, now time.Time) ([]float32, error) {
	cache := s.Load()
	hash := ContentHash(content)

	if entry, ok := cache.Memories[memoryID]; ok && entry.Hash == hash && entry.Model == embedder.Name() {
		return entry.Embedding, nil
	}

	vecs, err := embedder.Embed([]string{TruncateForEmbedding(content)})
	if err != nil {
		return nil, memerr.Wrap(memerr.KindEmbeddingProvider, err, "embed memory %s", memoryID)
	}
	if len(vecs) == 0 {
		return nil, memerr.New(memerr.KindEmbeddingProvider, "embedding provider returned no vectors for %s", memoryID)
	}

	vec := Normalize(vecs[0])
	cache.Memories[memoryID] = CacheEntry{
		Embedding: vec,
		Hash:      hash,
		Model:     embedder.Name(),
		Timestamp: now,
	}
	if err := s.Save(cache); err != nil {
		return nil, err
	}
	return vec, nil
}

// BatchGet embeds every (id, content) pair not already cached in one
// provider call, reporting progress via onProgress after each item is
// resolved (cached or freshly embedded). Partial provider failures do
// not lose already-resolved vectors: everything computed before the
// failure is still returned alongside the error.
func (s *Store) BatchGet(items map[string]string, embedder Embedder, now time.Time, onProgress func(done, total int)) (map[string][]float32, error) {
	cache := s.Load()
	out := make(map[string][]float32, len(items))

	var missIDs []string
	var missContent []string
	total := len(items)
	done := 0

	for id, content := range items {
		hash := ContentHash(content)
		if entry, ok := cache.Memories[id]; ok && entry.Hash == hash && entry.Model == embedder.Name() {
			out[id] = entry.Embedding
			done++
			if onProgress != nil {
				onProgress(done, total)
			}
			continue
		}
		missIDs = append(missIDs, id)
		missContent = append(missContent, TruncateForEmbedding(content))
	}

	if len(missIDs) == 0 {
		return out, nil
	}

	vecs, err := embedder.Embed(missContent)
	if err != nil {
		return out, memerr.Wrap(memerr.KindEmbeddingProvider, err, "batch embed %d memories", len(missIDs))
	}
	if len(vecs) != len(missIDs) {
		return out, memerr.New(memerr.KindEmbeddingProvider, "embedding provider returned %d vectors for %d inputs", len(vecs), len(missIDs))
	}

	for i, id := range missIDs {
		vec := Normalize(vecs[i])
		out[id] = vec
		cache.Memories[id] = CacheEntry{
			Embedding: vec,
			Hash:      ContentHash(items[id]),
			Model:     embedder.Name(),
			Timestamp: now,
		}
		done++
		if onProgress != nil {
			onProgress(done, total)
		}
	}

	if err := s.Save(cache); err != nil {
		return out, err
	}
	return out, nil
}
