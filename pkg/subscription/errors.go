package subscription

import "errors"

var (
	ErrDuplicateActiveSubscription = errors.New("user already has an active subscription")
	ErrNotRenewable                = errors.New("subscription is not renewable")
	ErrAlreadyCancelled            = errors.New("subscription is already cancelled")
)
