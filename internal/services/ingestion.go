package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/estoico/stoic-rag-backend/internal/logger"
	"github.com/estoico/stoic-rag-backend/internal/platform/objectstore"
	"github.com/estoico/stoic-rag-backend/internal/platform/ragstore"
	"github.com/estoico/stoic-rag-backend/internal/textsplit"
)

const (
	embedBatchSize   = 32
	embedConcurrency = 4
)

type IngestResult struct {
	DocumentID  string `json:"document_id"`
	FileName    string `json:"file_name"`
	ObjectPath  string `json:"object_path"`
	TotalChunks int    `json:"total_chunks"`
}

type IngestionService interface {
	// IngestDocument stores the original bytes, chunks the text, embeds each
	// chunk and upserts everything into the vector store. Text is expected to
	// be extracted upstream; this service receives plain text or markdown.
	IngestDocument(ctx context.Context, fileName string, data []byte, contentType string) (*IngestResult, error)
}

type ingestionService struct {
	log      *logger.Logger
	store    ragstore.Store
	objects  objectstore.Service
	embedder Embedder
	splitter *textsplit.Splitter
}

func NewIngestionService(
	log *logger.Logger,
	store ragstore.Store,
	objects objectstore.Service,
	embedder Embedder,
) IngestionService {
	return &ingestionService{
		log:      log.With("service", "IngestionService"),
		store:    store,
		objects:  objects,
		embedder: embedder,
		splitter: textsplit.NewSplitter(),
	}
}

// discardObject removes the stored original after a failed ingest so the
// bucket only ever holds documents that are actually searchable.
func (is *ingestionService) discardObject(ctx context.Context, objectPath string) {
	if err := is.objects.Remove(ctx, objectPath); err != nil {
		is.log.Warn("Failed to remove object after ingest failure", "object_path", objectPath, "error", err)
	}
}

func (is *ingestionService) IngestDocument(ctx context.Context, fileName string, data []byte, contentType string) (*IngestResult, error) {
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, fmt.Errorf("document %q has no text content", fileName)
	}

	docID := uuid.NewString()
	// The document id prefixes the stored name so retrieval can strip it back
	// off when labeling citations.
	storedName := docID + "_" + filepath.Base(fileName)
	objectPath := "docs/" + storedName

	if err := is.objects.Put(ctx, objectPath, data, contentType); err != nil {
		return nil, err
	}

	chunks := is.splitter.Split(text)
	if len(chunks) == 0 {
		is.discardObject(ctx, objectPath)
		return nil, fmt.Errorf("document %q produced no chunks", fileName)
	}

	embeddings := make([][]float32, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		start, end := start, end
		g.Go(func() error {
			vecs, err := is.embedder.Embed(gctx, chunks[start:end])
			if err != nil {
				return fmt.Errorf("failed to embed chunks %d-%d: %w", start, end-1, err)
			}
			copy(embeddings[start:end], vecs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		is.discardObject(ctx, objectPath)
		return nil, err
	}

	rows := make([]ragstore.Chunk, 0, len(chunks))
	for i, content := range chunks {
		rows = append(rows, ragstore.Chunk{
			DocumentID: docID,
			FileName:   storedName,
			ObjectPath: objectPath,
			ChunkIndex: i,
			Content:    content,
			Embedding:  embeddings[i],
			Metadata: map[string]any{
				"document_id":  docID,
				"file_name":    storedName,
				"chunk_index":  i,
				"total_chunks": len(chunks),
				"object_path":  objectPath,
			},
		})
	}
	if err := is.store.Upsert(ctx, rows); err != nil {
		// Rows inserted before the failure would otherwise keep surfacing in
		// retrieval for a document that was never fully ingested.
		if delErr := is.store.DeleteDocument(ctx, docID); delErr != nil {
			is.log.Warn("Failed to delete partial chunks after upsert failure", "document_id", docID, "error", delErr)
		}
		is.discardObject(ctx, objectPath)
		return nil, err
	}

	is.log.Info("Ingested document", "file_name", fileName, "chunks", len(chunks))
	return &IngestResult{
		DocumentID:  docID,
		FileName:    storedName,
		ObjectPath:  objectPath,
		TotalChunks: len(chunks),
	}, nil
}
