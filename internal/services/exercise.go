package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/estoico/stoic-rag-backend/internal/logger"
	"github.com/estoico/stoic-rag-backend/internal/repos"
	"github.com/estoico/stoic-rag-backend/internal/types"
)

// CompletionResult reports what happened after marking an exercise done.
type CompletionResult struct {
	PendingCount      int64  `json:"pending_count"`
	NewBatchGenerated bool   `json:"new_batch_generated"`
	Warning           string `json:"warning,omitempty"`
}

type ExerciseService interface {
	List(ctx context.Context, userID string, status types.ExerciseStatus) ([]*types.Exercise, error)
	// Complete marks the exercise done and, when that empties the pending
	// pool, refills it synchronously for entitled users. The completion
	// itself is never rolled back because of a refill failure.
	Complete(ctx context.Context, userID string, exerciseID uuid.UUID) (*CompletionResult, error)
}

type exerciseService struct {
	log            *logger.Logger
	exerciseRepo   repos.ExerciseRepo
	entitlementSvc EntitlementService
	generationSvc  GenerationService
}

func NewExerciseService(
	log *logger.Logger,
	exerciseRepo repos.ExerciseRepo,
	entitlementSvc EntitlementService,
	generationSvc GenerationService,
) ExerciseService {
	return &exerciseService{
		log:            log.With("service", "ExerciseService"),
		exerciseRepo:   exerciseRepo,
		entitlementSvc: entitlementSvc,
		generationSvc:  generationSvc,
	}
}

func (es *exerciseService) List(ctx context.Context, userID string, status types.ExerciseStatus) ([]*types.Exercise, error) {
	return es.exerciseRepo.ListByUser(ctx, nil, userID, status, 0)
}

func (es *exerciseService) Complete(ctx context.Context, userID string, exerciseID uuid.UUID) (*CompletionResult, error) {
	exercise, err := es.exerciseRepo.GetByID(ctx, nil, exerciseID, userID)
	if err != nil {
		return nil, err
	}
	if exercise.Status == types.ExerciseCompleted {
		return nil, ErrAlreadyCompleted
	}

	if err := es.exerciseRepo.MarkCompleted(ctx, nil, exerciseID, userID, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to mark exercise completed: %w", err)
	}

	pending, err := es.exerciseRepo.CountPending(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending exercises: %w", err)
	}

	result := &CompletionResult{PendingCount: pending}
	if pending > 0 {
		return result, nil
	}

	// Clean sweep: refill the pool in one batch rather than dripping one new
	// item per completion.
	active, err := es.entitlementSvc.HasActiveSubscription(ctx, userID)
	if err != nil {
		es.log.Warn("Entitlement re-check failed after completion, skipping refill", "user_id", userID, "error", err)
		result.Warning = "No se pudo verificar la suscripción; no se generaron nuevos ejercicios"
		return result, nil
	}
	if !active {
		result.Warning = "Suscripción inactiva: no se generaron nuevos ejercicios"
		return result, nil
	}

	generated, err := es.generationSvc.RefillBatch(ctx, userID)
	if err != nil {
		// Completion already happened; a refill failure only means fewer new
		// items. Items persisted before the failure stay.
		es.log.Warn("Auto-refill failed after completion", "user_id", userID, "generated", generated, "error", err)
	} else {
		result.NewBatchGenerated = true
	}

	if pending, err := es.exerciseRepo.CountPending(ctx, nil, userID); err == nil {
		result.PendingCount = pending
	}
	return result, nil
}
