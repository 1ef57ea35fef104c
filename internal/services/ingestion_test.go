package services

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeObjectStore struct {
	putPaths []string
	putErr   error
	removed  []string
}

func (f *fakeObjectStore) Put(_ context.Context, objectPath string, _ []byte, _ string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.putPaths = append(f.putPaths, objectPath)
	return nil
}

func (f *fakeObjectStore) Remove(_ context.Context, objectPath string) error {
	f.removed = append(f.removed, objectPath)
	return nil
}

func TestIngestDocument(t *testing.T) {
	store := &fakeRAGStore{}
	objects := &fakeObjectStore{}
	embedder := &fakeEmbedder{dim: 8}
	svc := NewIngestionService(testLogger(t), store, objects, embedder)

	var b strings.Builder
	for i := 0; i < 60; i++ {
		b.WriteString("Retírate a tu propia alma cuando quieras; en ninguna parte hay más calma. ")
		if i%5 == 4 {
			b.WriteString("\n\n")
		}
	}

	result, err := svc.IngestDocument(context.Background(), "meditaciones.txt", []byte(b.String()), "text/plain")
	if err != nil {
		t.Fatalf("IngestDocument failed: %v", err)
	}

	if result.DocumentID == "" {
		t.Fatal("no document id assigned")
	}
	if !strings.HasPrefix(result.ObjectPath, "docs/"+result.DocumentID+"_") {
		t.Fatalf("object path %q not prefixed with the document id", result.ObjectPath)
	}
	if !strings.HasSuffix(result.FileName, "_meditaciones.txt") {
		t.Fatalf("stored name %q lost the original file name", result.FileName)
	}
	if len(objects.putPaths) != 1 || objects.putPaths[0] != result.ObjectPath {
		t.Fatalf("object store received %v, want [%s]", objects.putPaths, result.ObjectPath)
	}

	if result.TotalChunks != len(store.upserted) {
		t.Fatalf("result reports %d chunks, store received %d", result.TotalChunks, len(store.upserted))
	}
	if result.TotalChunks < 2 {
		t.Fatalf("got %d chunks, want the text split into several", result.TotalChunks)
	}
	for i, c := range store.upserted {
		if c.ChunkIndex != i {
			t.Fatalf("chunk %d has index %d", i, c.ChunkIndex)
		}
		if c.DocumentID != result.DocumentID {
			t.Fatalf("chunk %d document_id=%q", i, c.DocumentID)
		}
		if len(c.Embedding) != 8 {
			t.Fatalf("chunk %d embedding has %d dims, want 8", i, len(c.Embedding))
		}
		if c.Content == "" {
			t.Fatalf("chunk %d has no content", i)
		}
	}

	if CleanSourceLabel(result.FileName) != "meditaciones.txt" {
		t.Fatalf("stored name %q does not round-trip through the citation label", result.FileName)
	}
}

func TestIngestDocumentRejectsEmptyText(t *testing.T) {
	svc := NewIngestionService(testLogger(t), &fakeRAGStore{}, &fakeObjectStore{}, &fakeEmbedder{})

	if _, err := svc.IngestDocument(context.Background(), "vacio.txt", []byte("   \n"), "text/plain"); err == nil {
		t.Fatal("IngestDocument accepted an empty document")
	}
}

func TestIngestDocumentRemovesObjectWhenEmbeddingFails(t *testing.T) {
	store := &fakeRAGStore{}
	objects := &fakeObjectStore{}
	embedder := &fakeEmbedder{err: errors.New("embeddings unavailable")}
	svc := NewIngestionService(testLogger(t), store, objects, embedder)

	text := "Retírate a tu propia alma cuando quieras; en ninguna parte hay más calma."
	_, err := svc.IngestDocument(context.Background(), "meditaciones.txt", []byte(text), "text/plain")
	if err == nil {
		t.Fatal("IngestDocument succeeded despite the embedder failing")
	}

	if len(objects.putPaths) != 1 {
		t.Fatalf("object store received %d puts, want 1", len(objects.putPaths))
	}
	if len(objects.removed) != 1 || objects.removed[0] != objects.putPaths[0] {
		t.Fatalf("removed %v, want the stored object %q cleaned up", objects.removed, objects.putPaths[0])
	}
	if len(store.upserted) != 0 {
		t.Fatalf("store received %d chunks despite the failed embed", len(store.upserted))
	}
}

func TestIngestDocumentRollsBackOnUpsertFailure(t *testing.T) {
	store := &fakeRAGStore{upsertErr: errors.New("postgres down")}
	objects := &fakeObjectStore{}
	svc := NewIngestionService(testLogger(t), store, objects, &fakeEmbedder{dim: 8})

	text := "Retírate a tu propia alma cuando quieras; en ninguna parte hay más calma."
	_, err := svc.IngestDocument(context.Background(), "meditaciones.txt", []byte(text), "text/plain")
	if err == nil {
		t.Fatal("IngestDocument succeeded despite the upsert failing")
	}

	if len(objects.removed) != 1 {
		t.Fatalf("removed %v, want the stored object cleaned up", objects.removed)
	}
	// Per-chunk inserts can land before the failing one, so the document's
	// rows must be deleted as well.
	if len(store.deleted) != 1 {
		t.Fatalf("store deletes %v, want the partial document removed", store.deleted)
	}
}
