package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ServiceCategory struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"type:varchar(50);not null"`
	Icon string    `gorm:"type:varchar(100)"`
}

func (ServiceCategory) TableName() string { return "service_category" }

type ServiceProviderInfo struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	ServiceArea  string    `gorm:"type:varchar(100)"`
	Introduction string    `gorm:"type:text"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (ServiceProviderInfo) TableName() string { return "service_provider_info" }

type Certification struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProviderID     uuid.UUID `gorm:"type:uuid;not null;index"`
	CertificateURL string    `gorm:"column:certificate_url;type:varchar(255);not null"`
	Status         string    `gorm:"type:varchar(20);not null;default:'pending'"`

	Provider *ServiceProviderInfo `gorm:"foreignKey:ProviderID;constraint:OnDelete:CASCADE"`
}

func (Certification) TableName() string { return "certification" }

type Service struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index"`
	ProviderID  *uuid.UUID      `gorm:"type:uuid;index"`
	Name        string          `gorm:"type:varchar(100);not null"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null;check:price >= 10 AND price <= 500"`
	ServiceType string          `gorm:"type:varchar(20);not null"`

	Category *ServiceCategory     `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Provider *ServiceProviderInfo `gorm:"foreignKey:ProviderID;constraint:OnDelete:SET NULL"`
}

func (Service) TableName() string { return "service" }
