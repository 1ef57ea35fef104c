package services

import "errors"

var (
	// ErrNoSubscription means the user has no active entitlement.
	ErrNoSubscription = errors.New("no active subscription")
	// ErrProfileMissing means the user never answered the questionnaire.
	ErrProfileMissing = errors.New("stoic quiz not found for user")
	// ErrAlreadyCompleted means the exercise was completed before this call.
	ErrAlreadyCompleted = errors.New("exercise already completed")
)
