package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod is the channel a payment was made through
type PaymentMethod string

const (
	PaymentMethodWechat PaymentMethod = "wechat"
	PaymentMethodAlipay PaymentMethod = "alipay"
)

// Valid reports whether m is a supported channel.
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodWechat || m == PaymentMethodAlipay
}

// PaymentStatus represents payment status
type PaymentStatus string

const (
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Payment is a passive ledger row recording one payment attempt.
type Payment struct {
	ID         uuid.UUID       `json:"id"`
	OrderID    uuid.UUID       `json:"orderId"`
	Amount     decimal.Decimal `json:"amount"`
	Method     PaymentMethod   `json:"method"`
	ChannelFee decimal.Decimal `json:"channelFee"`
	Status     PaymentStatus   `json:"status"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// ConfirmPaymentInput represents input for recording a payment attempt
type ConfirmPaymentInput struct {
	Amount  decimal.Decimal `json:"amount"`
	Method  PaymentMethod   `json:"method" binding:"required"`
	Outcome PaymentStatus   `json:"outcome"`
}
