package entities

import (
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultMaxAddresses caps the number of live entries per user.
	DefaultMaxAddresses = 5
	// MaxAddressLength is the storage width of an address line.
	MaxAddressLength = 255
)

// AddressEntry is one line of a user's address book
type AddressEntry struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Address   string    `json:"address"`
	IsDefault bool      `json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateAddressInput represents input for adding an address
type CreateAddressInput struct {
	Address     string `json:"address" binding:"required"`
	MakeDefault bool   `json:"makeDefault"`
}
