package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order rows are retained: every reference is RESTRICT so deleting a referenced
// user, provider, service or address fails instead of removing history.
type Order struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index"`
	ProviderID uuid.UUID `gorm:"type:uuid;not null;index"`
	ServiceID  uuid.UUID `gorm:"type:uuid;not null"`
	AddressID  uuid.UUID `gorm:"type:uuid;not null"`
	Status     string    `gorm:"type:varchar(20);not null;index"`
	StartTime  *time.Time
	EndTime    *time.Time
	CreatedAt  time.Time `gorm:"index"`
	UpdatedAt  time.Time

	Customer *User                `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT"`
	Provider *ServiceProviderInfo `gorm:"foreignKey:ProviderID;constraint:OnDelete:RESTRICT"`
	Service  *Service             `gorm:"foreignKey:ServiceID;constraint:OnDelete:RESTRICT"`
	Address  *AddressBook         `gorm:"foreignKey:AddressID;constraint:OnDelete:RESTRICT"`
}

func (Order) TableName() string { return "order" }

type Payment struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal `gorm:"type:numeric(10,2);not null;check:amount > 0"`
	Method     string          `gorm:"type:varchar(10);not null"`
	ChannelFee decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0;check:channel_fee >= 0"`
	Status     string          `gorm:"type:varchar(10);not null"`
	CreatedAt  time.Time

	Order *Order `gorm:"foreignKey:OrderID;constraint:OnDelete:RESTRICT"`
}

func (Payment) TableName() string { return "payment" }

type AfterSales struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Type      string    `gorm:"type:varchar(20);not null"`
	Status    string    `gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Order *Order `gorm:"foreignKey:OrderID;constraint:OnDelete:RESTRICT"`
}

func (AfterSales) TableName() string { return "after_sales" }

type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Content   string    `gorm:"type:text;not null"`
	Status    string    `gorm:"type:varchar(20);not null;default:'pending_review'"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Order *Order `gorm:"foreignKey:OrderID;constraint:OnDelete:RESTRICT"`
}

func (Review) TableName() string { return "review" }
