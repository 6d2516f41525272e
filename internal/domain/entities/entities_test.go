package entities

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
)

func TestValidPhone(t *testing.T) {
	cases := map[string]bool{
		"13800000000":    true,
		"19912345678":    true,
		"12800000000":    false,
		"1380000000":     false,
		"138000000000":   false,
		"+8613800000000": false,
		"1380000000a":    false,
		"":               false,
	}
	for phone, want := range cases {
		assert.Equal(t, want, ValidPhone(phone), phone)
	}
}

func TestNormalizeAndMaskPhone(t *testing.T) {
	assert.Equal(t, "+8613800000000", NormalizeE164("13800000000"))
	assert.Equal(t, "+8613800000000", NormalizeE164("+8613800000000"))
	assert.Equal(t, "138****0000", MaskPhone("13800000000"))
	assert.Equal(t, "****", MaskPhone("123"))
}

func TestOrderTransitions(t *testing.T) {
	assert.True(t, CanTransition(OrderStatusPendingPayment, OrderStatusPaid))
	assert.True(t, CanTransition(OrderStatusPaid, OrderStatusCompleted))
	assert.True(t, CanTransition(OrderStatusPendingPayment, OrderStatusCancelled))
	assert.True(t, CanTransition(OrderStatusPaid, OrderStatusCancelled))

	assert.False(t, CanTransition(OrderStatusPaid, OrderStatusPaid))
	assert.False(t, CanTransition(OrderStatusPendingPayment, OrderStatusCompleted))
	assert.False(t, CanTransition(OrderStatusCompleted, OrderStatusCancelled))
	assert.False(t, CanTransition(OrderStatusCancelled, OrderStatusPaid))
	assert.Empty(t, AllowedFrom(OrderStatusPendingPayment))

	assert.True(t, OrderStatusCompleted.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusPaid.IsTerminal())
}

func TestVerificationCode_ValidAt(t *testing.T) {
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := &VerificationCode{ID: uuid.New(), Phone: "13800000000", Code: "123456", CreatedAt: issued}

	require.True(t, c.ValidAt(issued, DefaultCodeTTL))
	require.True(t, c.ValidAt(issued.Add(DefaultCodeTTL), DefaultCodeTTL))
	require.False(t, c.ValidAt(issued.Add(301*time.Second), DefaultCodeTTL))

	c.UsedAt = null.TimeFrom(issued)
	require.False(t, c.ValidAt(issued, DefaultCodeTTL))
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, PaymentMethodWechat.Valid())
	assert.True(t, PaymentMethodAlipay.Valid())
	assert.False(t, PaymentMethod("cash").Valid())

	assert.True(t, AfterSalesRework.Valid())
	assert.False(t, AfterSalesType("other").Valid())
}

func TestService_OfferedBy(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	open := &Service{ID: uuid.New()}
	assigned := &Service{ID: uuid.New(), ProviderID: &p1}

	assert.True(t, open.OfferedBy(p2))
	assert.True(t, assigned.OfferedBy(p1))
	assert.False(t, assigned.OfferedBy(p2))
}

func TestUser_IsActive(t *testing.T) {
	assert.True(t, (&User{Status: UserStatusActive}).IsActive())
	assert.False(t, (&User{Status: UserStatusFrozen}).IsActive())
	assert.False(t, (&User{Status: UserStatusClosed}).IsActive())
}
