package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tripmate/internal/embedding"
	"tripmate/internal/index"
)

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write document: %v", err)
	}
	return path
}

func TestSplitTextShortDocument(t *testing.T) {
	pieces := SplitText("short text", ChunkSize, ChunkOverlap)
	if len(pieces) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(pieces))
	}
	if pieces[0] != "short text" {
		t.Errorf("Chunk = %q", pieces[0])
	}
}

func TestSplitTextWindowsAndOverlap(t *testing.T) {
	text := strings.Repeat("a", 10)

	// Windows start at 0, 2, 4, 6; the last one reaches the end
	pieces := SplitText(text, 4, 2)
	expected := []string{"aaaa", "aaaa", "aaaa", "aaaa"}
	if len(pieces) != len(expected) {
		t.Fatalf("Expected %d chunks, got %d: %v", len(expected), len(pieces), pieces)
	}
	for i := range expected {
		if pieces[i] != expected[i] {
			t.Errorf("Chunk %d = %q, expected %q", i, pieces[i], expected[i])
		}
	}
}

func TestSplitTextPreservesOrder(t *testing.T) {
	text := "0123456789"

	pieces := SplitText(text, 4, 2)
	if pieces[0] != "0123" || pieces[1] != "2345" {
		t.Errorf("Windows out of order: %v", pieces)
	}
	// Consecutive windows share the overlap characters
	if !strings.HasPrefix(pieces[1], pieces[0][2:]) {
		t.Errorf("Chunks %q and %q do not overlap", pieces[0], pieces[1])
	}
}

func TestSplitTextMultiByte(t *testing.T) {
	text := strings.Repeat("日", 6)

	pieces := SplitText(text, 4, 2)
	for i, piece := range pieces {
		if strings.ContainsRune(piece, '�') {
			t.Errorf("Chunk %d split mid-character: %q", i, piece)
		}
	}
}

func TestSplitTextEmpty(t *testing.T) {
	if pieces := SplitText("", 4, 2); pieces != nil {
		t.Errorf("Expected nil for empty text, got %v", pieces)
	}
}

func TestIngestSuccess(t *testing.T) {
	ix := index.New(filepath.Join(t.TempDir(), "index.json"))
	pipeline := New(ix, embedding.NewMockClient(8))

	path := writeDoc(t, "visa.txt", "Travelers need a valid passport and may need a visa depending on destination.")

	if !pipeline.Ingest(context.Background(), path) {
		t.Fatal("Ingest returned false for a valid document")
	}
	if ix.Count() != 1 {
		t.Errorf("Expected 1 chunk, got %d", ix.Count())
	}

	chunk := ix.Chunks()[0]
	if chunk.DocID != "visa.txt" {
		t.Errorf("DocID = %q", chunk.DocID)
	}
	if len(chunk.Embedding) != 8 {
		t.Errorf("Embedding length = %d", len(chunk.Embedding))
	}
}

func TestIngestPersistsIndex(t *testing.T) {
	indexPath := filepath.Join(t.TempDir(), "index.json")
	ix := index.New(indexPath)
	pipeline := New(ix, embedding.NewMockClient(8))

	path := writeDoc(t, "doc.txt", "some travel advice")
	if !pipeline.Ingest(context.Background(), path) {
		t.Fatal("Ingest returned false")
	}

	loaded := index.LoadOrInit(context.Background(), indexPath, embedding.NewMockClient(8))
	if loaded.Count() != 1 {
		t.Errorf("Persisted index has %d chunks, expected 1", loaded.Count())
	}
}

func TestIngestNoDedupe(t *testing.T) {
	ix := index.New(filepath.Join(t.TempDir(), "index.json"))
	pipeline := New(ix, embedding.NewMockClient(8))

	path := writeDoc(t, "doc.txt", "identical content")

	for i := 1; i <= 3; i++ {
		if !pipeline.Ingest(context.Background(), path) {
			t.Fatalf("Ingest %d returned false", i)
		}
		if ix.Count() != i {
			t.Errorf("After ingest %d count = %d", i, ix.Count())
		}
	}
}

func TestIngestLongDocument(t *testing.T) {
	ix := index.New(filepath.Join(t.TempDir(), "index.json"))
	pipeline := New(ix, embedding.NewMockClient(8))

	// 2500 chars with a step of 800 → windows at 0, 800 and 1600
	path := writeDoc(t, "long.txt", strings.Repeat("x", 2500))
	if !pipeline.Ingest(context.Background(), path) {
		t.Fatal("Ingest returned false")
	}
	if ix.Count() != 3 {
		t.Errorf("Expected 3 chunks, got %d", ix.Count())
	}

	chunks := ix.Chunks()
	for i, chunk := range chunks {
		if chunk.Ordinal != i {
			t.Errorf("Chunk %d ordinal = %d", i, chunk.Ordinal)
		}
	}
}

func TestIngestMissingFile(t *testing.T) {
	ix := index.New(filepath.Join(t.TempDir(), "index.json"))
	pipeline := New(ix, embedding.NewMockClient(8))

	if pipeline.Ingest(context.Background(), filepath.Join(t.TempDir(), "missing.txt")) {
		t.Error("Ingest returned true for a missing file")
	}
	if ix.Count() != 0 {
		t.Errorf("Index grew on failed ingest: %d chunks", ix.Count())
	}
}

func TestIngestEmptyFile(t *testing.T) {
	ix := index.New(filepath.Join(t.TempDir(), "index.json"))
	pipeline := New(ix, embedding.NewMockClient(8))

	path := writeDoc(t, "empty.txt", "   \n\t  ")
	if pipeline.Ingest(context.Background(), path) {
		t.Error("Ingest returned true for a blank document")
	}
}

type failingEmbedder struct{}

func (failingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, errors.New("embedding service down")
}

func TestIngestEmbedFailure(t *testing.T) {
	ix := index.New(filepath.Join(t.TempDir(), "index.json"))
	pipeline := New(ix, failingEmbedder{})

	path := writeDoc(t, "doc.txt", "content")
	if pipeline.Ingest(context.Background(), path) {
		t.Error("Ingest returned true despite embedding failure")
	}
	if ix.Count() != 0 {
		t.Errorf("Index grew despite embedding failure: %d chunks", ix.Count())
	}
}
