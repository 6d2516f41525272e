package sms

import (
	"net/http"

	"homeservice.backend/internal/config"
	"homeservice.backend/internal/domain/gateways"
)

// NewGateway selects the gateway named by cfg.Provider
func NewGateway(cfg config.SMSConfig) gateways.SMSGateway {
	switch cfg.Provider {
	case "aliyun":
		return NewAliyunGateway(cfg, &http.Client{})
	default:
		return NewLogGateway()
	}
}
