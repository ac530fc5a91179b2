// Package ingest loads source documents into the semantic index.
package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"tripmate/internal/index"
	"tripmate/internal/logger"
)

// Fixed pipeline parameters; not configurable per call.
const (
	// ChunkSize is the chunk window in characters.
	ChunkSize = 1000
	// ChunkOverlap is the character overlap between consecutive chunks.
	ChunkOverlap = 200
)

// Embedder is the batch embedding dependency.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Pipeline converts documents into embedded chunks and persists the index.
// Ingestions are serialized against each other and against persistence.
type Pipeline struct {
	mu       sync.Mutex
	index    *index.Index
	embedder Embedder
}

// New creates an ingestion pipeline targeting the given index.
func New(ix *index.Index, embedder Embedder) *Pipeline {
	return &Pipeline{index: ix, embedder: embedder}
}

// Ingest loads the document at path, splits it into overlapping chunks,
// embeds each chunk, appends everything to the index and persists the index.
// It returns false and logs the cause on any failure; errors never escape
// this boundary. Re-ingesting the same document is not deduplicated — the
// chunk count strictly increases.
func (p *Pipeline) Ingest(ctx context.Context, path string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("ingest: failed to read document %s: %v", path, err)
		return false
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		logger.Error("ingest: document %s has no text content", path)
		return false
	}

	pieces := SplitText(text, ChunkSize, ChunkOverlap)

	vectors, err := p.embedder.EmbedBatch(ctx, pieces)
	if err != nil {
		logger.Error("ingest: failed to embed %d chunks from %s: %v", len(pieces), path, err)
		return false
	}
	if len(vectors) != len(pieces) {
		logger.Error("ingest: embedding count mismatch for %s: %d texts, %d vectors", path, len(pieces), len(vectors))
		return false
	}

	docID := filepath.Base(path)
	chunks := make([]index.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = index.Chunk{
			ID:        index.NewChunkID(),
			DocID:     docID,
			Ordinal:   i,
			Text:      piece,
			Embedding: vectors[i],
		}
	}

	p.index.Insert(chunks)

	if err := p.index.Persist(); err != nil {
		logger.Error("ingest: failed to persist index after %s: %v", path, err)
		return false
	}

	logger.Info("ingest: added %d chunks from %s (index now %d chunks)", len(chunks), path, p.index.Count())
	return true
}

// SplitText splits text into windows of size characters with overlap
// characters shared between consecutive windows, preserving document order.
// Offsets are counted in runes so multi-byte text never splits mid-character.
func SplitText(text string, size, overlap int) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if size <= 0 || overlap >= size {
		return []string{text}
	}

	step := size - overlap
	var out []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return out
}
