package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/estoico/stoic-rag-backend/internal/logger"
	"github.com/estoico/stoic-rag-backend/internal/platform/ragstore"
	"github.com/estoico/stoic-rag-backend/internal/repos"
	"github.com/estoico/stoic-rag-backend/internal/sse"
	"github.com/estoico/stoic-rag-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("production")
	if err != nil {
		t.Fatalf("logger init failed: %v", err)
	}
	return log
}

func testProfile(userID string) *types.UserProfile {
	return &types.UserProfile{
		UserID:            userID,
		AgeRange:          "26-35",
		PracticeLevel:     "media",
		PracticeFrequency: "diariamente",
		StoicLevel:        types.LevelIntermediate,
		StoicPaths:        []types.StoicPath{types.PathWisdom, types.PathInnerPeace},
		DailyChallenges:   []types.DailyChallenge{types.ChallengeStress, types.ChallengeAnxiety},
		NumExercises:      5,
	}
}

// fakeExerciseRepo is an in-memory ExerciseRepo. The tx parameter is ignored.
type fakeExerciseRepo struct {
	mu        sync.Mutex
	rows      []*types.Exercise
	createErr error
}

func (f *fakeExerciseRepo) seed(userID string, status types.ExerciseStatus, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := 0; i < n; i++ {
		f.rows = append(f.rows, &types.Exercise{
			ID:           uuid.New(),
			UserID:       userID,
			ExerciseName: "seeded",
			Level:        "intermedio",
			Status:       status,
			CreatedAt:    time.Now().UTC(),
		})
	}
}

func (f *fakeExerciseRepo) Create(_ context.Context, _ *gorm.DB, exercise *types.Exercise) (*types.Exercise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if exercise.ID == uuid.Nil {
		exercise.ID = uuid.New()
	}
	if exercise.Status == "" {
		exercise.Status = types.ExercisePending
	}
	f.rows = append(f.rows, exercise)
	return exercise, nil
}

func (f *fakeExerciseRepo) GetByID(_ context.Context, _ *gorm.DB, exerciseID uuid.UUID, userID string) (*types.Exercise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID == exerciseID && r.UserID == userID {
			copied := *r
			return &copied, nil
		}
	}
	return nil, repos.ErrExerciseNotFound
}

func (f *fakeExerciseRepo) ListByUser(_ context.Context, _ *gorm.DB, userID string, status types.ExerciseStatus, limit int) ([]*types.Exercise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.Exercise
	for _, r := range f.rows {
		if r.UserID != userID {
			continue
		}
		if status != "" && r.Status != status {
			continue
		}
		out = append(out, r)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeExerciseRepo) ListPending(_ context.Context, _ *gorm.DB, userID string, limit int) ([]*types.Exercise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.Exercise
	for _, r := range f.rows {
		if r.UserID != userID {
			continue
		}
		if r.Status != types.ExercisePending && r.Status != types.ExerciseInProgress {
			continue
		}
		out = append(out, r)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeExerciseRepo) CountPending(_ context.Context, _ *gorm.DB, userID string) (int64, error) {
	pending, err := f.ListPending(nil, nil, userID, 0)
	return int64(len(pending)), err
}

func (f *fakeExerciseRepo) CountCompleted(_ context.Context, _ *gorm.DB, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, r := range f.rows {
		if r.UserID == userID && r.Status == types.ExerciseCompleted {
			count++
		}
	}
	return count, nil
}

func (f *fakeExerciseRepo) MarkCompleted(_ context.Context, _ *gorm.DB, exerciseID uuid.UUID, userID string, completedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID == exerciseID && r.UserID == userID {
			r.Status = types.ExerciseCompleted
			r.CompletedAt = &completedAt
			return nil
		}
	}
	return repos.ErrExerciseNotFound
}

type fakeProfileService struct {
	profile *types.UserProfile
	err     error
}

func (f *fakeProfileService) GetProfile(context.Context, string) (*types.UserProfile, error) {
	return f.profile, f.err
}

type fakeEntitlementService struct {
	active      bool
	err         error
	calls       int
	invalidated []string
}

func (f *fakeEntitlementService) HasActiveSubscription(context.Context, string) (bool, error) {
	f.calls++
	return f.active, f.err
}

func (f *fakeEntitlementService) Invalidate(_ context.Context, userID string) {
	f.invalidated = append(f.invalidated, userID)
}

type fakeRetrievalService struct {
	ret   *RetrievalContext
	err   error
	calls int
}

func (f *fakeRetrievalService) GetStoicContext(context.Context, *types.UserProfile, int) (*RetrievalContext, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.ret != nil {
		return f.ret, nil
	}
	return &RetrievalContext{Text: "pasaje de prueba", Source: "meditaciones.txt"}, nil
}

// fakeGenerator records prompts and replays scripted outputs; once the script
// runs out it keeps returning a valid payload.
type fakeGenerator struct {
	outputs []string
	err     error
	errAt   int // 1-based call number that fails, 0 for never
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	call := len(f.prompts)
	if f.errAt != 0 && call == f.errAt {
		if f.err != nil {
			return "", f.err
		}
		return "", errors.New("model unavailable")
	}
	if call <= len(f.outputs) {
		return f.outputs[call-1], nil
	}
	return validExerciseJSON, nil
}

type fakeGenerationService struct {
	refillCount int
	refillErr   error
	calls       int
	onRefill    func()
}

func (f *fakeGenerationService) StreamExercises(context.Context, string, func(sse.Event) error) {}

func (f *fakeGenerationService) RefillBatch(context.Context, string) (int, error) {
	f.calls++
	if f.onRefill != nil {
		f.onRefill()
	}
	return f.refillCount, f.refillErr
}

type fakeSubscriptionRepo struct {
	sub   *types.Subscription
	err   error
	calls int
}

func (f *fakeSubscriptionRepo) GetLatestByUserID(context.Context, *gorm.DB, string) (*types.Subscription, error) {
	f.calls++
	return f.sub, f.err
}

type fakeCache struct {
	mu   sync.Mutex
	vals map[string]bool
	sets int
}

func (f *fakeCache) GetBool(_ context.Context, key string) (bool, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.vals[key]
	return v, ok
}

func (f *fakeCache) SetBool(_ context.Context, key string, val bool, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.vals == nil {
		f.vals = make(map[string]bool)
	}
	f.vals[key] = val
	f.sets++
}

func (f *fakeCache) Delete(_ context.Context, key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.vals, key)
}

type fakeRAGStore struct {
	matches     []ragstore.Match
	searchErr   error
	searchCalls int
	lastTopK    int
	upserted    []ragstore.Chunk
	upsertErr   error
	deleted     []string
}

func (f *fakeRAGStore) Upsert(_ context.Context, chunks []ragstore.Chunk) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, chunks...)
	return nil
}

func (f *fakeRAGStore) Search(_ context.Context, _ []float32, topK int) ([]ragstore.Match, error) {
	f.searchCalls++
	f.lastTopK = topK
	return f.matches, f.searchErr
}

func (f *fakeRAGStore) DeleteDocument(_ context.Context, documentID string) error {
	f.deleted = append(f.deleted, documentID)
	return nil
}

type fakeEmbedder struct {
	dim   int
	calls int
	err   error
}

func (f *fakeEmbedder) Embed(_ context.Context, inputs []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	dim := f.dim
	if dim == 0 {
		dim = 4
	}
	out := make([][]float32, len(inputs))
	for i := range inputs {
		out[i] = make([]float32, dim)
	}
	return out, nil
}
