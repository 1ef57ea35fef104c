package services

import (
	"context"
	"fmt"
	"time"

	"github.com/estoico/stoic-rag-backend/internal/logger"
	"github.com/estoico/stoic-rag-backend/internal/platform/rediscache"
	"github.com/estoico/stoic-rag-backend/internal/repos"
)

const entitlementCacheTTL = 60 * time.Second

type EntitlementService interface {
	HasActiveSubscription(ctx context.Context, userID string) (bool, error)
	// Invalidate drops the cached flag so the next check re-reads MySQL.
	// Used when a subscription row changes outside this service.
	Invalidate(ctx context.Context, userID string)
}

type entitlementService struct {
	log              *logger.Logger
	subscriptionRepo repos.SubscriptionRepo
	cache            rediscache.Cache
	now              func() time.Time
}

// NewEntitlementService derives the entitlement flag from the latest
// subscription row. cache may be nil; when present, derived flags are held
// for a short TTL to keep the streaming path off the remote MySQL.
func NewEntitlementService(log *logger.Logger, subscriptionRepo repos.SubscriptionRepo, cache rediscache.Cache) EntitlementService {
	return &entitlementService{
		log:              log.With("service", "EntitlementService"),
		subscriptionRepo: subscriptionRepo,
		cache:            cache,
		now:              time.Now,
	}
}

func (es *entitlementService) Invalidate(ctx context.Context, userID string) {
	if es.cache == nil {
		return
	}
	es.cache.Delete(ctx, entitlementCacheKey(userID))
	es.log.Info("Dropped cached entitlement flag", "user_id", userID)
}

func entitlementCacheKey(userID string) string {
	return "entitlement:" + userID
}

func (es *entitlementService) HasActiveSubscription(ctx context.Context, userID string) (bool, error) {
	cacheKey := entitlementCacheKey(userID)
	if es.cache != nil {
		if active, ok := es.cache.GetBool(ctx, cacheKey); ok {
			return active, nil
		}
	}

	sub, err := es.subscriptionRepo.GetLatestByUserID(ctx, nil, userID)
	if err != nil {
		return false, fmt.Errorf("failed to load subscription: %w", err)
	}
	active := sub.IsActive(es.now().UTC())

	if es.cache != nil {
		es.cache.SetBool(ctx, cacheKey, active, entitlementCacheTTL)
	}
	return active, nil
}
