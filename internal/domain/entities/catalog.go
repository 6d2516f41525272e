package entities

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServiceType groups services for the storefront.
type ServiceType string

const (
	ServiceTypeCleaning ServiceType = "cleaning"
	ServiceTypeRepair   ServiceType = "repair"
)

// ServiceCategory is a browsable category
type ServiceCategory struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Icon string    `json:"icon"`
}

// ServiceProvider is the B-side profile of a provider account.
type ServiceProvider struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"userId"`
	ServiceArea  string    `json:"serviceArea"`
	Introduction string    `json:"introduction"`
}

// Service is a bookable item. ProviderID is the statically assigned provider, if any.
type Service struct {
	ID          uuid.UUID       `json:"id"`
	CategoryID  *uuid.UUID      `json:"categoryId,omitempty"`
	ProviderID  *uuid.UUID      `json:"providerId,omitempty"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	ServiceType ServiceType     `json:"serviceType"`
}

// OfferedBy reports whether providerID may fulfil the service.
func (s *Service) OfferedBy(providerID uuid.UUID) bool {
	return s.ProviderID == nil || *s.ProviderID == providerID
}
