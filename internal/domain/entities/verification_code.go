package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

const (
	// VerificationCodeLength is the number of digits in a one-time code.
	VerificationCodeLength = 6
	// DefaultCodeTTL is how long an issued code stays valid.
	DefaultCodeTTL = 5 * time.Minute
	// DefaultResendInterval is the minimum gap between two issues for one phone.
	DefaultResendInterval = 60 * time.Second
)

// VerificationCode is a one-time numeric credential sent out-of-band.
type VerificationCode struct {
	ID        uuid.UUID `json:"id"`
	Phone     string    `json:"phone"`
	Code      string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UsedAt    null.Time `json:"usedAt"`
}

// ValidAt reports whether the code is unused and younger than ttl at now.
func (v *VerificationCode) ValidAt(now time.Time, ttl time.Duration) bool {
	return !v.UsedAt.Valid && !v.CreatedAt.Before(now.Add(-ttl))
}
