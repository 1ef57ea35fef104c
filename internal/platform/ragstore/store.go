package ragstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/estoico/stoic-rag-backend/internal/logger"
	"github.com/estoico/stoic-rag-backend/internal/utils"
)

// Chunk is one embedded passage of an ingested document.
type Chunk struct {
	DocumentID string
	FileName   string
	ObjectPath string
	ChunkIndex int
	Content    string
	Embedding  []float32
	Metadata   map[string]any
}

// Match is a retrieval hit ordered by similarity (closest first).
type Match struct {
	Content  string
	FileName string
	Score    float64
}

type Store interface {
	Upsert(ctx context.Context, chunks []Chunk) error
	Search(ctx context.Context, embedding []float32, topK int) ([]Match, error)
	DeleteDocument(ctx context.Context, documentID string) error
}

type store struct {
	log  *logger.Logger
	pool *pgxpool.Pool
}

// NewStore connects, ensures the pgvector extension and the chunk table. The
// embedding dimension comes from the caller (pinned to the embed model) so
// the column can never disagree with what the embedder emits.
func NewStore(ctx context.Context, logg *logger.Logger, embeddingDim int) (Store, error) {
	serviceLog := logg.With("service", "RagStore")

	if embeddingDim <= 0 {
		return nil, fmt.Errorf("embedding dimension must be positive, got %d", embeddingDim)
	}

	host := utils.GetEnv("PGHOST", "localhost", logg)
	port := utils.GetEnv("PGPORT", "5432", logg)
	user := utils.GetEnv("PGUSER", "postgres", logg)
	password := utils.GetEnv("PGPASSWORD", "", logg)
	name := utils.GetEnv("PGDATABASE", "rag", logg)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s", user, password, host, port, name)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RAG Postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return nil, fmt.Errorf("failed to enable pgvector extension: %w", err)
	}

	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS document_chunks (
			id            BIGSERIAL PRIMARY KEY,
			document_id   TEXT NOT NULL,
			file_name     TEXT NOT NULL,
			object_path   TEXT NOT NULL,
			chunk_index   INTEGER NOT NULL,
			content       TEXT NOT NULL,
			embedding     vector(%d) NOT NULL,
			doc_metadata  JSONB,
			UNIQUE (document_id, chunk_index)
		)`, embeddingDim)
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return nil, fmt.Errorf("failed to ensure document_chunks table: %w", err)
	}

	return &store{log: serviceLog, pool: pool}, nil
}

func (s *store) Upsert(ctx context.Context, chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	const q = `
		INSERT INTO document_chunks
			(document_id, file_name, object_path, chunk_index, content, embedding, doc_metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (document_id, chunk_index) DO UPDATE SET
			file_name = EXCLUDED.file_name,
			object_path = EXCLUDED.object_path,
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding,
			doc_metadata = EXCLUDED.doc_metadata`
	for _, c := range chunks {
		var meta []byte
		if c.Metadata != nil {
			b, err := json.Marshal(c.Metadata)
			if err != nil {
				return fmt.Errorf("failed to marshal chunk metadata: %w", err)
			}
			meta = b
		}
		_, err := s.pool.Exec(ctx, q,
			c.DocumentID,
			c.FileName,
			c.ObjectPath,
			c.ChunkIndex,
			c.Content,
			pgvector.NewVector(c.Embedding),
			meta,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert chunk %d of %s: %w", c.ChunkIndex, c.DocumentID, err)
		}
	}
	return nil
}

func (s *store) Search(ctx context.Context, embedding []float32, topK int) ([]Match, error) {
	if topK <= 0 {
		topK = 5
	}
	const q = `
		SELECT content, file_name, embedding <=> $1 AS distance
		FROM document_chunks
		ORDER BY embedding <=> $1
		LIMIT $2`
	rows, err := s.pool.Query(ctx, q, pgvector.NewVector(embedding), topK)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	defer rows.Close()

	var out []Match
	for rows.Next() {
		var m Match
		var distance float64
		if err := rows.Scan(&m.Content, &m.FileName, &distance); err != nil {
			return nil, fmt.Errorf("failed to scan search row: %w", err)
		}
		m.FileName = strings.TrimSpace(m.FileName)
		m.Score = 1 - distance
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *store) DeleteDocument(ctx context.Context, documentID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM document_chunks WHERE document_id = $1`, documentID)
	return err
}
