package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/estoico/stoic-rag-backend/internal/logger"
	"github.com/estoico/stoic-rag-backend/internal/types"
)

type QuizRepo interface {
	// GetByUserID returns the user's questionnaire row, or nil when the user
	// has not answered the quiz yet.
	GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*types.QuizResponse, error)
}

type quizRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizRepo(db *gorm.DB, baseLog *logger.Logger) QuizRepo {
	return &quizRepo{db: db, log: baseLog.With("repo", "QuizRepo")}
}

func (qr *quizRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*types.QuizResponse, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	var result types.QuizResponse
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}
