package gateways

import (
	"context"
	"errors"
)

var (
	// ErrNotConfigured is returned when the gateway lacks credentials or a template.
	ErrNotConfigured = errors.New("sms gateway not configured")
	// ErrDeliveryFailed is returned when the vendor rejects the message.
	ErrDeliveryFailed = errors.New("sms delivery failed")
)

// SMSGateway delivers a templated text message.
type SMSGateway interface {
	// Send delivers params to phoneE164, a number with a leading country code.
	Send(ctx context.Context, phoneE164 string, params map[string]string) error
}
