package embedding

import (
	"testing"
	"time"

	"github.com/memkeep/memkeep/internal/storagefs"
)

type stubEmbedder struct {
	calls int
	vec   []float32
}

func (s *stubEmbedder) Embed(texts []string) ([][]float32, error) {
	s.calls++
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = append([]float32{}, s.vec...)
	}
	return out, nil
}
func (s *stubEmbedder) Dims() int    { return len(s.vec) }
func (s *stubEmbedder) Name() string { return "stub-model" }

func TestCacheGetComputesOnceAndReusesOnHit(t *testing.T) {
	fs := storagefs.InMemory()
	store := NewStore(fs)
	embedder := &stubEmbedder{vec: []float32{1, 0, 0}}
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	v1, err := store.Get("mem-1", "hello world", embedder, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if embedder.calls != 1 {
		t.Fatalf("expected 1 provider call, got %d", embedder.calls)
	}

	v2, err := store.Get("mem-1", "hello world", embedder, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if embedder.calls != 1 {
		t.Fatalf("expected cache hit to avoid a second provider call, got %d calls", embedder.calls)
	}
	if len(v1) != len(v2) {
		t.Fatalf("expected consistent vector length")
	}
}

func TestCacheGetRecomputesOnContentChange(t *testing.T) {
	fs := storagefs.InMemory()
	store := NewStore(fs)
	embedder := &stubEmbedder{vec: []float32{1, 0, 0}}
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := store.Get("mem-1", "version one", embedder, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = store.Get("mem-1", "version two", embedder, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if embedder.calls != 2 {
		t.Fatalf("expected content change to trigger a recompute, got %d calls", embedder.calls)
	}
}

func TestCacheLoadMissingFileReturnsEmpty(t *testing.T) {
	fs := storagefs.InMemory()
	store := NewStore(fs)
	c := store.Load()
	if c.Memories == nil || len(c.Memories) != 0 {
		t.Fatalf("expected empty cache for missing file, got %+v", c)
	}
}

func TestBatchGetMixesCacheHitsAndMisses(t *testing.T) {
	fs := storagefs.InMemory()
	store := NewStore(fs)
	embedder := &stubEmbedder{vec: []float32{0, 1, 0}}
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := store.Get("mem-1", "already cached", embedder, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if embedder.calls != 1 {
		t.Fatalf("expected 1 call priming the cache, got %d", embedder.calls)
	}

	var progressCalls int
	out, err := store.BatchGet(map[string]string{
		"mem-1": "already cached",
		"mem-2": "brand new",
	}, embedder, now, func(done, total int) { progressCalls++ })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected both memories resolved, got %d", len(out))
	}
	if embedder.calls != 2 {
		t.Fatalf("expected only the uncached memory to trigger a provider call, got %d calls total", embedder.calls)
	}
	if progressCalls != 2 {
		t.Fatalf("expected one progress callback per resolved memory, got %d", progressCalls)
	}
}
