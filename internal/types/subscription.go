package types

import "time"

// Subscription mirrors the Laravel subscriptions table. The service never
// writes this table; it only derives the entitlement flag at read time.
type Subscription struct {
	ID                 string     `gorm:"type:char(36);primaryKey" json:"id"`
	UserID             string     `gorm:"type:char(36);not null;index;column:user_id" json:"user_id"`
	PlanName           string     `gorm:"column:plan_name" json:"plan_name"`
	Status             string     `gorm:"column:status" json:"status"`
	CurrentPeriodStart *time.Time `gorm:"column:current_period_start" json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time `gorm:"column:current_period_end" json:"current_period_end,omitempty"`
	TrialStart         *time.Time `gorm:"column:trial_start" json:"trial_start,omitempty"`
	TrialEnd           *time.Time `gorm:"column:trial_end" json:"trial_end,omitempty"`
	CancelledAt        *time.Time `gorm:"column:cancelled_at" json:"cancelled_at,omitempty"`
	EndsAt             *time.Time `gorm:"column:ends_at" json:"ends_at,omitempty"`
	CreatedAt          time.Time  `gorm:"column:created_at" json:"created_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// IsActive reports whether the subscription entitles the user at the given
// instant: status active, the current period has not elapsed, and any
// cancellation still leaves access until ends_at.
func (s *Subscription) IsActive(now time.Time) bool {
	if s == nil || s.Status != "active" {
		return false
	}
	if s.CurrentPeriodEnd != nil && !s.CurrentPeriodEnd.After(now) {
		return false
	}
	if s.CancelledAt != nil && s.EndsAt != nil && !s.EndsAt.After(now) {
		return false
	}
	return true
}
