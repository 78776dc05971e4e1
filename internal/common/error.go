// Package common defines shared sentinel errors used across planbot
// components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// CONFIG: the user's stored timezone cannot drive scheduling.
	// Such a user is excluded from the scan until corrected.
	ErrInvalidTimezone = errors.New("invalid timezone")

	// TRANSIENT_DELIVERY: a gateway send failed after all retries.
	// State mutations are never rolled back because of this.
	ErrDeliveryFailed = errors.New("delivery failed")

	// Service-level errors.
	ErrorInternal = errors.New("internal error")
)
