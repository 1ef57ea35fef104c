package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/estoico/stoic-rag-backend/internal/logger"
	"github.com/estoico/stoic-rag-backend/internal/observability"
)

// Client is the text-generation and embedding collaborator. DeepSeek exposes
// an OpenAI-compatible chat API but no embeddings endpoint, so embeddings go
// to their own base URL (an OpenAI-compatible provider) and the vector
// dimension is pinned to the embed model.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
	// EmbeddingDim is the dimensionality every Embed result has; the vector
	// store sizes its column from it.
	EmbeddingDim() int
}

// knownEmbedDims pins the output dimension of the embed models the service
// has run against. Unknown models require an explicit EMBEDDING_DIM.
var knownEmbedDims = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

type client struct {
	log          *logger.Logger
	baseURL      string
	apiKey       string
	embedBaseURL string
	embedAPIKey  string
	model        string
	embedModel   string
	embedDim     int
	httpClient   *http.Client
	maxRetries   int
	tracer       trace.Tracer
}

func NewClient(log *logger.Logger) (Client, error) {
	apiKey := os.Getenv("LLM_API_KEY")
	if apiKey == "" {
		// Kept for parity with older deploys that only set the DeepSeek key.
		apiKey = os.Getenv("DEEPSEEK_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("missing LLM_API_KEY")
	}

	baseURL := os.Getenv("LLM_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.deepseek.com"
	}

	model := os.Getenv("LLM_MODEL")
	if model == "" {
		model = "deepseek-chat"
	}

	embedModel := os.Getenv("LLM_EMBED_MODEL")
	if embedModel == "" {
		embedModel = "text-embedding-3-small"
	}

	// DeepSeek serves no /v1/embeddings, so the embed default cannot follow
	// LLM_BASE_URL.
	embedBaseURL := os.Getenv("LLM_EMBED_BASE_URL")
	if embedBaseURL == "" {
		embedBaseURL = "https://api.openai.com"
	}
	embedAPIKey := os.Getenv("LLM_EMBED_API_KEY")
	if embedAPIKey == "" {
		embedAPIKey = apiKey
	}

	embedDim, err := resolveEmbedDim(embedModel)
	if err != nil {
		return nil, err
	}

	timeoutSec := 180
	if v := os.Getenv("LLM_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	maxRetries := 3
	if v := os.Getenv("LLM_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed >= 0 {
			maxRetries = parsed
		}
	}

	return &client{
		log:          log.With("service", "LLMClient"),
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       apiKey,
		embedBaseURL: strings.TrimRight(embedBaseURL, "/"),
		embedAPIKey:  embedAPIKey,
		model:        model,
		embedModel:   embedModel,
		embedDim:     embedDim,
		httpClient:   &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries:   maxRetries,
		tracer:       otel.Tracer(observability.ServiceName + "/llm"),
	}, nil
}

// resolveEmbedDim reconciles EMBEDDING_DIM with what the embed model
// actually emits. A mismatch would only surface later as pgvector insert
// errors, so it fails here instead.
func resolveEmbedDim(embedModel string) (int, error) {
	known, isKnown := knownEmbedDims[embedModel]

	raw := strings.TrimSpace(os.Getenv("EMBEDDING_DIM"))
	if raw == "" {
		if !isKnown {
			return 0, fmt.Errorf("embed model %q has no known dimension, set EMBEDDING_DIM", embedModel)
		}
		return known, nil
	}

	dim, err := strconv.Atoi(raw)
	if err != nil || dim <= 0 {
		return 0, fmt.Errorf("EMBEDDING_DIM %q is not a positive integer", raw)
	}
	if isKnown && dim != known {
		return 0, fmt.Errorf("EMBEDDING_DIM %d conflicts with embed model %q which emits %d dimensions", dim, embedModel, known)
	}
	return dim, nil
}

func (c *client) EmbeddingDim() int {
	return c.embedDim
}

type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("llm http %d: %s", e.StatusCode, e.Body)
}

func isRetryableHTTP(code int) bool {
	return code == 408 || code == 429 || (code >= 500 && code <= 599)
}

func isRetryableErr(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var httpErr *httpError
	if errors.As(err, &httpErr) {
		return isRetryableHTTP(httpErr.StatusCode)
	}
	return false
}

func jitterSleep(base time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	delta := base.Seconds() * 0.2
	low := base.Seconds() - delta
	v := low + rand.Float64()*(2*delta)
	return time.Duration(v * float64(time.Second))
}

func (c *client) post(ctx context.Context, baseURL, apiKey, path, model string, payload any, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "llm.post", trace.WithAttributes(
		attribute.String("llm.path", path),
		attribute.String("llm.model", model),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal llm request: %w", err)
	}

	backoff := 500 * time.Millisecond
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(jitterSleep(backoff)):
			}
			backoff *= 2
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+path, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if isRetryableErr(err) {
				c.log.Warn("llm call failed, retrying", "attempt", attempt, "error", err)
				continue
			}
			return err
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			lastErr = &httpError{StatusCode: resp.StatusCode, Body: truncate(string(respBody), 500)}
			if isRetryableHTTP(resp.StatusCode) {
				c.log.Warn("llm call returned retryable status", "attempt", attempt, "status", resp.StatusCode)
				continue
			}
			return lastErr
		}
		return json.Unmarshal(respBody, out)
	}
	return fmt.Errorf("llm call exhausted retries: %w", lastErr)
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *client) Generate(ctx context.Context, prompt string) (string, error) {
	var resp chatResponse
	err := c.post(ctx, c.baseURL, c.apiKey, "/v1/chat/completions", c.model, chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.3,
	}, &resp)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func (c *client) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	var resp embedResponse
	err := c.post(ctx, c.embedBaseURL, c.embedAPIKey, "/v1/embeddings", c.embedModel, embedRequest{Model: c.embedModel, Input: inputs}, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) != len(inputs) {
		return nil, fmt.Errorf("llm returned %d embeddings for %d inputs", len(resp.Data), len(inputs))
	}
	out := make([][]float32, len(inputs))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, fmt.Errorf("llm returned embedding with index %d out of range", d.Index)
		}
		if len(d.Embedding) != c.embedDim {
			return nil, fmt.Errorf("llm returned a %d-dim embedding, expected %d for model %s", len(d.Embedding), c.embedDim, c.embedModel)
		}
		out[d.Index] = d.Embedding
	}
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
