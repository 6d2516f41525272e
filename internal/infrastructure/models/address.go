package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AddressBook struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_address_book_user;index:ux_address_book_default,unique,where:is_default = true AND deleted_at IS NULL"`
	Address   string    `gorm:"type:varchar(255);not null"`
	IsDefault bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (AddressBook) TableName() string { return "address_book" }
