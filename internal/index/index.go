// Package index is the semantic index: a similarity-searchable collection of
// document chunks persisted as an atomic snapshot file.
package index

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/oklog/ulid/v2"

	"tripmate/internal/logger"
)

// WelcomeText seeds a fresh index so retrieval is never empty.
const WelcomeText = "Welcome to the travel assistant. How can I help you today?"

// Chunk is a bounded span of source-document text plus its embedding, the
// unit of retrieval. Immutable once created.
type Chunk struct {
	ID        string    `json:"id"`
	DocID     string    `json:"doc_id"`
	Ordinal   int       `json:"ordinal"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
}

// NewChunkID returns a fresh chunk identifier.
func NewChunkID() string {
	return ulid.Make().String()
}

// Embedder is the single-text embedding dependency used for seeding.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Index holds chunks in memory behind an RWMutex: searches run concurrently,
// inserts are exclusive. Persistence writes a full snapshot to a temp file
// and renames it into place so a concurrent loader never observes a partial
// index.
type Index struct {
	mu     sync.RWMutex
	path   string
	chunks []Chunk
}

// New creates an empty index persisted at path.
func New(path string) *Index {
	return &Index{path: path}
}

// snapshot is the persisted form of the index.
type snapshot struct {
	Chunks []Chunk `json:"chunks"`
}

// LoadOrInit loads a previously persisted index from path. On any load
// failure (missing, corrupt, incompatible) it falls back to a new index
// seeded with exactly one welcome chunk; the fallback never fails.
func LoadOrInit(ctx context.Context, path string, embedder Embedder) *Index {
	ix := New(path)

	data, err := os.ReadFile(path)
	if err == nil {
		var snap snapshot
		if err = json.Unmarshal(data, &snap); err == nil {
			ix.chunks = snap.Chunks
			logger.Info("loaded semantic index from %s (%d chunks)", path, len(snap.Chunks))
			return ix
		}
	}
	logger.Info("no usable semantic index at %s (%v), seeding a new one", path, err)

	vec, embErr := embedder.Embed(ctx, WelcomeText)
	if embErr != nil {
		// Keep the seed chunk even without a vector; it scores zero in
		// searches but retrieval still has a candidate.
		logger.Warn("failed to embed welcome text: %v", embErr)
	}
	ix.chunks = []Chunk{{
		ID:        NewChunkID(),
		DocID:     "welcome",
		Ordinal:   0,
		Text:      WelcomeText,
		Embedding: vec,
	}}
	return ix
}

// Insert appends chunks to the index. Chunks are never deduplicated:
// inserting the same content twice grows the index twice.
func (ix *Index) Insert(chunks []Chunk) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.chunks = append(ix.chunks, chunks...)
}

// scored pairs a chunk position with its similarity for sorting.
type scored struct {
	pos   int
	score float64
}

// Search returns up to k chunks ordered by descending cosine similarity to
// the query vector. It never returns more than k results.
func (ix *Index) Search(queryVec []float32, k int) []Chunk {
	if k <= 0 {
		return nil
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	queryNorm := vectorNorm(queryVec)

	results := make([]scored, 0, len(ix.chunks))
	for i := range ix.chunks {
		score := 0.0
		if queryNorm != 0 {
			if norm := vectorNorm(ix.chunks[i].Embedding); norm != 0 {
				score = dotProduct(queryVec, ix.chunks[i].Embedding) / (queryNorm * norm)
			}
		}
		results = append(results, scored{pos: i, score: score})
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].score > results[b].score
	})

	if len(results) > k {
		results = results[:k]
	}

	out := make([]Chunk, len(results))
	for i, r := range results {
		out[i] = ix.chunks[r.pos]
	}
	return out
}

// Count returns the number of chunks in the index.
func (ix *Index) Count() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.chunks)
}

// Chunks returns a copy of all chunks in insertion order.
func (ix *Index) Chunks() []Chunk {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	out := make([]Chunk, len(ix.chunks))
	copy(out, ix.chunks)
	return out
}

// Persist writes the full chunk set to the snapshot file. The write goes to
// a temp file first and is renamed into place, so a reader loading the path
// sees either the old snapshot or the new one, never a torn write.
func (ix *Index) Persist() error {
	ix.mu.RLock()
	snap := snapshot{Chunks: ix.chunks}
	data, err := json.Marshal(snap)
	ix.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to serialize index: %w", err)
	}

	dir := filepath.Dir(ix.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	tmp := ix.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write index snapshot: %w", err)
	}
	if err := os.Rename(tmp, ix.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to swap index snapshot: %w", err)
	}

	return nil
}
