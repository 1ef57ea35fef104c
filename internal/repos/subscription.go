package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/estoico/stoic-rag-backend/internal/logger"
	"github.com/estoico/stoic-rag-backend/internal/types"
)

type SubscriptionRepo interface {
	// GetLatestByUserID returns the most recent subscription row for the user,
	// or nil when the user never subscribed.
	GetLatestByUserID(ctx context.Context, tx *gorm.DB, userID string) (*types.Subscription, error)
}

type subscriptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubscriptionRepo(db *gorm.DB, baseLog *logger.Logger) SubscriptionRepo {
	return &subscriptionRepo{db: db, log: baseLog.With("repo", "SubscriptionRepo")}
}

func (sr *subscriptionRepo) GetLatestByUserID(ctx context.Context, tx *gorm.DB, userID string) (*types.Subscription, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var result types.Subscription
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
