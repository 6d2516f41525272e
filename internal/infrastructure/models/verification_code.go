package models

import (
	"time"

	"github.com/google/uuid"
)

type VerificationCode struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Phone     string    `gorm:"type:varchar(20);not null;index:idx_verification_code_phone_created,priority:1"`
	Code      string    `gorm:"type:varchar(6);not null"`
	CreatedAt time.Time `gorm:"not null;index:idx_verification_code_phone_created,priority:2"`
	UsedAt    *time.Time
}

func (VerificationCode) TableName() string { return "verification_code" }

// VerificationCodeThrottle is the per-phone row locked while issuing a code.
type VerificationCodeThrottle struct {
	Phone        string `gorm:"type:varchar(20);primaryKey"`
	LastIssuedAt *time.Time
}

func (VerificationCodeThrottle) TableName() string { return "verification_code_throttle" }
