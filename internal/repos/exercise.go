package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/estoico/stoic-rag-backend/internal/logger"
	"github.com/estoico/stoic-rag-backend/internal/types"
)

var ErrExerciseNotFound = errors.New("exercise not found")

type ExerciseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, exercise *types.Exercise) (*types.Exercise, error)
	GetByID(ctx context.Context, tx *gorm.DB, exerciseID uuid.UUID, userID string) (*types.Exercise, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID string, status types.ExerciseStatus, limit int) ([]*types.Exercise, error)
	ListPending(ctx context.Context, tx *gorm.DB, userID string, limit int) ([]*types.Exercise, error)
	CountPending(ctx context.Context, tx *gorm.DB, userID string) (int64, error)
	CountCompleted(ctx context.Context, tx *gorm.DB, userID string) (int64, error)
	MarkCompleted(ctx context.Context, tx *gorm.DB, exerciseID uuid.UUID, userID string, completedAt time.Time) error
}

type exerciseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExerciseRepo(db *gorm.DB, baseLog *logger.Logger) ExerciseRepo {
	return &exerciseRepo{db: db, log: baseLog.With("repo", "ExerciseRepo")}
}

func (er *exerciseRepo) Create(ctx context.Context, tx *gorm.DB, exercise *types.Exercise) (*types.Exercise, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	if exercise.ID == uuid.Nil {
		exercise.ID = uuid.New()
	}
	if exercise.Status == "" {
		exercise.Status = types.ExercisePending
	}
	if exercise.CreatedAt.IsZero() {
		exercise.CreatedAt = time.Now().UTC()
	}
	if err := transaction.WithContext(ctx).Create(exercise).Error; err != nil {
		return nil, err
	}
	return exercise, nil
}

func (er *exerciseRepo) GetByID(ctx context.Context, tx *gorm.DB, exerciseID uuid.UUID, userID string) (*types.Exercise, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var result types.Exercise
	err := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", exerciseID, userID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return &result, nil
}

// ListByUser returns exercises newest first. A zero status means no filter;
// limit <= 0 means no limit.
func (er *exerciseRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID string, status types.ExerciseStatus, limit int) ([]*types.Exercise, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	q := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var results []*types.Exercise
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListPending returns the not-yet-completed items (pending or in_progress),
// newest first, capped to limit.
func (er *exerciseRepo) ListPending(ctx context.Context, tx *gorm.DB, userID string, limit int) ([]*types.Exercise, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	q := transaction.WithContext(ctx).
		Where("user_id = ? AND status IN ?", userID, []types.ExerciseStatus{types.ExercisePending, types.ExerciseInProgress}).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var results []*types.Exercise
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (er *exerciseRepo) CountPending(ctx context.Context, tx *gorm.DB, userID string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.Exercise{}).
		Where("user_id = ? AND status IN ?", userID, []types.ExerciseStatus{types.ExercisePending, types.ExerciseInProgress}).
		Count(&count).Error
	return count, err
}

func (er *exerciseRepo) CountCompleted(ctx context.Context, tx *gorm.DB, userID string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.Exercise{}).
		Where("user_id = ? AND status = ?", userID, types.ExerciseCompleted).
		Count(&count).Error
	return count, err
}

func (er *exerciseRepo) MarkCompleted(ctx context.Context, tx *gorm.DB, exerciseID uuid.UUID, userID string, completedAt time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.Exercise{}).
		Where("id = ? AND user_id = ?", exerciseID, userID).
		Updates(map[string]any{
			"status":       types.ExerciseCompleted,
			"completed_at": completedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrExerciseNotFound
	}
	return nil
}
