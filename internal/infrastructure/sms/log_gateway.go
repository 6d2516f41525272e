package sms

import (
	"context"

	"go.uber.org/zap"
	"homeservice.backend/internal/domain/entities"
	"homeservice.backend/pkg/logger"
)

// LogGateway writes messages to the log instead of delivering them. Development only.
type LogGateway struct{}

// NewLogGateway creates a log-only gateway
func NewLogGateway() *LogGateway {
	return &LogGateway{}
}

// Send logs params for phoneE164 and never fails
func (LogGateway) Send(ctx context.Context, phoneE164 string, params map[string]string) error {
	logger.Info(ctx, "SMS (log gateway)",
		zap.String("phone", entities.MaskPhone(phoneE164)),
		zap.Any("params", params),
	)
	return nil
}
