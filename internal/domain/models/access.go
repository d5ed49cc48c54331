package models

import "time"

// ValidationResult is the outcome of checking one submitted access key.
// Expired is only meaningful when Valid is false.
type ValidationResult struct {
	Valid         bool      `json:"valid"`
	Expired       bool      `json:"expired,omitempty"`
	KeyMask       string    `json:"key_mask,omitempty"`
	FirstSeen     time.Time `json:"-"`
	DaysRemaining int       `json:"days_remaining,omitempty"`
}
