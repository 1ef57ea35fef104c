package services

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/estoico/stoic-rag-backend/internal/logger"
	"github.com/estoico/stoic-rag-backend/internal/observability"
	"github.com/estoico/stoic-rag-backend/internal/repos"
	"github.com/estoico/stoic-rag-backend/internal/sse"
	"github.com/estoico/stoic-rag-backend/internal/types"
)

// PendingPoolTarget is the hard ceiling on not-yet-completed exercises per
// user. Generation always tops the pool back up to this size and never past
// it, independent of any requested count on the profile.
const PendingPoolTarget = 5

const retrievalTopK = 5

// errClientGone marks a failed event write: the peer dropped the connection,
// so the loop stops without attempting a terminal error event.
var errClientGone = errors.New("client disconnected")

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type GenerationService interface {
	// StreamExercises runs the full quota-gated generation workflow, sending
	// each event through emit as soon as it exists.
	StreamExercises(ctx context.Context, userID string, emit func(sse.Event) error)
	// RefillBatch synchronously generates a full pending pool for the user.
	// It returns how many items were persisted; on a mid-batch failure the
	// earlier items stay persisted.
	RefillBatch(ctx context.Context, userID string) (int, error)
}

type generationService struct {
	log            *logger.Logger
	profileSvc     ProfileService
	entitlementSvc EntitlementService
	retrievalSvc   RetrievalService
	generator      Generator
	exerciseRepo   repos.ExerciseRepo
	catalog        *FocusCatalog
	tracer         trace.Tracer
}

func NewGenerationService(
	log *logger.Logger,
	profileSvc ProfileService,
	entitlementSvc EntitlementService,
	retrievalSvc RetrievalService,
	generator Generator,
	exerciseRepo repos.ExerciseRepo,
	catalog *FocusCatalog,
) GenerationService {
	return &generationService{
		log:            log.With("service", "GenerationService"),
		profileSvc:     profileSvc,
		entitlementSvc: entitlementSvc,
		retrievalSvc:   retrievalSvc,
		generator:      generator,
		exerciseRepo:   exerciseRepo,
		catalog:        catalog,
		tracer:         otel.Tracer(observability.ServiceName + "/generation"),
	}
}

func (gs *generationService) StreamExercises(ctx context.Context, userID string, emit func(sse.Event) error) {
	send := func(ev sse.Event) error {
		if err := emit(ev); err != nil {
			return errClientGone
		}
		return nil
	}
	if err := gs.stream(ctx, userID, send); err != nil {
		if errors.Is(err, errClientGone) {
			gs.log.Debug("Exercise stream client disconnected", "user_id", userID)
			return
		}
		gs.log.Warn("Exercise stream failed", "user_id", userID, "error", err)
		_ = send(sse.Error(streamErrorMessage(err)))
	}
}

func streamErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoSubscription):
		return "Se requiere una suscripción activa para generar ejercicios"
	case errors.Is(err, ErrProfileMissing):
		return "Quiz estoico no encontrado para el usuario"
	default:
		return err.Error()
	}
}

func (gs *generationService) stream(ctx context.Context, userID string, send func(sse.Event) error) error {
	if err := send(sse.Status("Preparando tus ejercicios estoicos...")); err != nil {
		return err
	}

	active, err := gs.entitlementSvc.HasActiveSubscription(ctx, userID)
	if err != nil {
		return fmt.Errorf("entitlement check failed: %w", err)
	}
	if !active {
		return ErrNoSubscription
	}

	profile, err := gs.profileSvc.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	pendingCount, err := gs.exerciseRepo.CountPending(ctx, nil, userID)
	if err != nil {
		return fmt.Errorf("failed to count pending exercises: %w", err)
	}

	// Pool already full: stream the existing items back, no generation.
	if pendingCount >= PendingPoolTarget {
		existing, err := gs.exerciseRepo.ListPending(ctx, nil, userID, PendingPoolTarget)
		if err != nil {
			return fmt.Errorf("failed to list pending exercises: %w", err)
		}
		if err := send(sse.Profile(ProfileSummary(profile), "estoicismo")); err != nil {
			return err
		}
		for i, row := range existing {
			item := rowToGenerated(row)
			item.Index = i + 1
			item.Total = len(existing)
			if err := send(sse.Event{Type: sse.EventExercise, Data: item}); err != nil {
				return err
			}
		}
		return send(sse.Complete("Ejercicios pendientes", len(existing)))
	}

	slots := PendingPoolTarget - int(pendingCount)

	retCtx, err := gs.retrievalSvc.GetStoicContext(ctx, profile, retrievalTopK)
	if err != nil {
		return fmt.Errorf("context retrieval failed: %w", err)
	}

	completedCount, err := gs.exerciseRepo.CountCompleted(ctx, nil, userID)
	if err != nil {
		return fmt.Errorf("failed to count completed exercises: %w", err)
	}
	focusOffset := int(completedCount)

	if err := send(sse.Profile(ProfileSummary(profile), "estoicismo")); err != nil {
		return err
	}

	for i := 1; i <= slots; i++ {
		item, err := gs.generateOne(ctx, profile, i, slots, retCtx, focusOffset)
		if err != nil {
			return err
		}
		if err := send(sse.Event{Type: sse.EventExercise, Data: item}); err != nil {
			return err
		}
	}

	return send(sse.Complete("Ejercicios completados", slots))
}

func (gs *generationService) RefillBatch(ctx context.Context, userID string) (int, error) {
	profile, err := gs.profileSvc.GetProfile(ctx, userID)
	if err != nil {
		return 0, err
	}

	retCtx, err := gs.retrievalSvc.GetStoicContext(ctx, profile, retrievalTopK)
	if err != nil {
		return 0, fmt.Errorf("context retrieval failed: %w", err)
	}

	completedCount, err := gs.exerciseRepo.CountCompleted(ctx, nil, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count completed exercises: %w", err)
	}
	focusOffset := int(completedCount)

	generated := 0
	for i := 1; i <= PendingPoolTarget; i++ {
		if _, err := gs.generateOne(ctx, profile, i, PendingPoolTarget, retCtx, focusOffset); err != nil {
			return generated, err
		}
		generated++
	}
	return generated, nil
}

// generateOne renders the prompt for one slot, calls the model once, parses
// and validates the result, and persists it as a pending exercise. No retry:
// a failure here aborts the rest of the batch.
func (gs *generationService) generateOne(ctx context.Context, profile *types.UserProfile, itemIndex, total int, retCtx *RetrievalContext, focusOffset int) (_ *types.GeneratedExercise, err error) {
	focus := gs.catalog.At(itemIndex, focusOffset)

	ctx, span := gs.tracer.Start(ctx, "exercise.generate", trace.WithAttributes(
		attribute.Int("exercise.index", itemIndex),
		attribute.Int("exercise.total", total),
		attribute.String("exercise.focus", focus),
		attribute.String("exercise.level", string(profile.StoicLevel)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	prompt := BuildExercisePrompt(profile, itemIndex, total, retCtx, focus)

	raw, err := gs.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generation call failed for exercise %d: %w", itemIndex, err)
	}

	parsed, err := ParseGeneratedExercise(raw)
	if err != nil {
		return nil, fmt.Errorf("exercise %d: %w", itemIndex, err)
	}
	if parsed.Source == "" {
		parsed.Source = retCtx.Source
	}

	row := &types.Exercise{
		UserID:       profile.UserID,
		ExerciseName: parsed.Name,
		Level:        parsed.Level,
		Objective:    parsed.Objective,
		Instructions: parsed.Instructions,
		Duration:     parsed.Duration,
		Reflection:   parsed.Reflection,
		Source:       parsed.Source,
		Status:       types.ExercisePending,
	}
	created, err := gs.exerciseRepo.Create(ctx, nil, row)
	if err != nil {
		return nil, fmt.Errorf("failed to persist exercise %d: %w", itemIndex, err)
	}

	parsed.ID = created.ID.String()
	parsed.Index = itemIndex
	parsed.Total = total
	return parsed, nil
}

func rowToGenerated(row *types.Exercise) *types.GeneratedExercise {
	return &types.GeneratedExercise{
		ID:           row.ID.String(),
		Name:         row.ExerciseName,
		Level:        row.Level,
		Objective:    row.Objective,
		Instructions: row.Instructions,
		Duration:     row.Duration,
		Reflection:   row.Reflection,
		Source:       row.Source,
	}
}
