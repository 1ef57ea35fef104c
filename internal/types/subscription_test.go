package types

import (
	"testing"
	"time"
)

func TestSubscriptionIsActive(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	cases := []struct {
		name string
		sub  *Subscription
		want bool
	}{
		{
			name: "nil_subscription",
			sub:  nil,
			want: false,
		},
		{
			name: "active_no_period_end",
			sub:  &Subscription{Status: "active"},
			want: true,
		},
		{
			name: "active_period_end_future",
			sub:  &Subscription{Status: "active", CurrentPeriodEnd: &future},
			want: true,
		},
		{
			name: "active_period_elapsed",
			sub:  &Subscription{Status: "active", CurrentPeriodEnd: &past},
			want: false,
		},
		{
			name: "status_cancelled",
			sub:  &Subscription{Status: "cancelled", CurrentPeriodEnd: &future},
			want: false,
		},
		{
			name: "status_past_due",
			sub:  &Subscription{Status: "past_due"},
			want: false,
		},
		{
			name: "cancelled_but_grace_until_future",
			sub:  &Subscription{Status: "active", CancelledAt: &past, EndsAt: &future},
			want: true,
		},
		{
			name: "cancelled_and_grace_elapsed",
			sub:  &Subscription{Status: "active", CancelledAt: &past, EndsAt: &past},
			want: false,
		},
		{
			name: "cancelled_without_ends_at",
			sub:  &Subscription{Status: "active", CancelledAt: &past},
			want: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.sub.IsActive(now); got != tc.want {
				t.Fatalf("IsActive=%v, want %v", got, tc.want)
			}
		})
	}
}
