package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// UserRole represents user roles
type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleProvider UserRole = "provider"
	UserRoleAdmin    UserRole = "admin"
)

// UserStatus represents account status
type UserStatus string

const (
	UserStatusActive UserStatus = "active"
	UserStatusFrozen UserStatus = "frozen"
	UserStatusClosed UserStatus = "closed"
)

// Gender of a customer profile
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

// MinPasswordLength is the shortest password accepted for login or reset.
const MinPasswordLength = 6

// User represents a user entity. Phone is the identity key.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Phone        string     `json:"phone"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Role         UserRole   `json:"role"`
	Status       UserStatus `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// IsActive reports whether the account may authenticate.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// UserInfo is the customer profile created alongside the account.
type UserInfo struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Nickname  string    `json:"nickname"`
	Gender    Gender    `json:"gender"`
	Birthday  null.Time `json:"birthday"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CertificationStatus is the review state of an identity or qualification document.
type CertificationStatus string

const (
	CertificationPending  CertificationStatus = "pending"
	CertificationApproved CertificationStatus = "approved"
	CertificationRejected CertificationStatus = "rejected"
)

// SendCodeInput represents input for requesting a verification code
type SendCodeInput struct {
	Phone string `json:"phone" binding:"required,cnphone"`
}

// LoginType selects the credential used by LoginInput
type LoginType string

const (
	LoginTypePassword LoginType = "password"
	LoginTypeCode     LoginType = "code"
)

// LoginInput represents input for user login
type LoginInput struct {
	Phone      string    `json:"phone" binding:"required,cnphone"`
	LoginType  LoginType `json:"loginType" binding:"required,oneof=password code"`
	Password   string    `json:"password"`
	Code       string    `json:"code"`
	UseSession bool      `json:"useSession"` // If true, store tokens in Redis and return SessionID
}

// PasswordResetInput represents input for resetting a password with a code
type PasswordResetInput struct {
	Phone       string `json:"phone" binding:"required,cnphone"`
	Code        string `json:"code" binding:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	SessionID    string `json:"sessionId,omitempty"`
	User         *User  `json:"user"`
	Registered   bool   `json:"registered"`
}

// UserCertification is a customer's real-name verification record.
type UserCertification struct {
	ID        uuid.UUID           `json:"id"`
	UserID    uuid.UUID           `json:"userId"`
	RealName  string              `json:"realName"`
	IDCard    string              `json:"-"`
	Status    CertificationStatus `json:"status"`
	CreatedAt time.Time           `json:"createdAt"`
}
