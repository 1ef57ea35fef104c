package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/estoico/stoic-rag-backend/internal/logger"
	"github.com/estoico/stoic-rag-backend/internal/platform/ragstore"
	"github.com/estoico/stoic-rag-backend/internal/types"
)

// FallbackSource labels exercises generated without any retrieved passages.
const FallbackSource = "principios generales"

// uuidPrefixRe matches the document-id prefix ingestion puts on stored file
// names, e.g. "3f1c...-..._meditaciones.txt".
var uuidPrefixRe = regexp.MustCompile(`^[0-9a-fA-F-]{36}_`)

// RetrievalContext is the shared grounding for one generation batch: it is
// computed once per invocation and reused by every item in the batch.
type RetrievalContext struct {
	Text   string
	Source string
}

type Embedder interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

type RetrievalService interface {
	GetStoicContext(ctx context.Context, profile *types.UserProfile, topK int) (*RetrievalContext, error)
}

type retrievalService struct {
	log      *logger.Logger
	store    ragstore.Store
	embedder Embedder
}

func NewRetrievalService(log *logger.Logger, store ragstore.Store, embedder Embedder) RetrievalService {
	return &retrievalService{
		log:      log.With("service", "RetrievalService"),
		store:    store,
		embedder: embedder,
	}
}

func (rs *retrievalService) GetStoicContext(ctx context.Context, profile *types.UserProfile, topK int) (*RetrievalContext, error) {
	query := BuildSearchQuery(profile)

	embeddings, err := rs.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed search query: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("embedder returned no vectors")
	}

	matches, err := rs.store.Search(ctx, embeddings[0], topK)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	if len(matches) == 0 {
		rs.log.Debug("No passages found for query, falling back to general principles", "query", query)
		return &RetrievalContext{Text: "", Source: FallbackSource}, nil
	}

	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		parts = append(parts, m.Content)
	}
	return &RetrievalContext{
		Text:   strings.Join(parts, "\n\n"),
		Source: CleanSourceLabel(matches[0].FileName),
	}, nil
}

// BuildSearchQuery concatenates the domain anchor with the profile's paths,
// challenges and level. Duplicates are allowed; the embedding model treats
// repetition as emphasis.
func BuildSearchQuery(profile *types.UserProfile) string {
	parts := []string{"estoicismo"}
	for _, p := range profile.StoicPaths {
		parts = append(parts, string(p))
	}
	for _, c := range profile.DailyChallenges {
		parts = append(parts, string(c))
	}
	parts = append(parts, string(profile.StoicLevel))
	return strings.Join(parts, " ")
}

// CleanSourceLabel strips the document-id prefix so citations show the human
// file name.
func CleanSourceLabel(fileName string) string {
	return uuidPrefixRe.ReplaceAllString(strings.TrimSpace(fileName), "")
}
