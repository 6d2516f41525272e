// Package sms delivers verification codes through the Aliyun Dysms RPC API.
package sms

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"homeservice.backend/internal/config"
	"homeservice.backend/internal/domain/entities"
	"homeservice.backend/internal/domain/gateways"
	"homeservice.backend/pkg/logger"
)

const (
	apiVersion      = "2017-05-25"
	signatureMethod = "HMAC-SHA1"
	maxResponseSize = 64 << 10
)

// AliyunGateway implements gateways.SMSGateway against the SendSms action
type AliyunGateway struct {
	cfg    config.SMSConfig
	client *http.Client
	now    func() time.Time
	nonce  func() string
}

// NewAliyunGateway creates a gateway from explicit configuration
func NewAliyunGateway(cfg config.SMSConfig, client *http.Client) *AliyunGateway {
	if client == nil {
		client = &http.Client{}
	}
	if cfg.RegionID == "" {
		cfg.RegionID = "cn-hangzhou"
	}
	return &AliyunGateway{
		cfg:    cfg,
		client: client,
		now:    time.Now,
		nonce:  func() string { return uuid.NewString() },
	}
}

// Send delivers a templated message. Vendor rejections wrap gateways.ErrDeliveryFailed.
func (g *AliyunGateway) Send(ctx context.Context, phoneE164 string, params map[string]string) error {
	if g.cfg.AccessKeyID == "" || g.cfg.AccessKeySecret == "" || g.cfg.SignName == "" || g.cfg.TemplateCode == "" {
		return gateways.ErrNotConfigured
	}

	templateParam, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("encode template params: %w", err)
	}

	query := url.Values{}
	query.Set("AccessKeyId", g.cfg.AccessKeyID)
	query.Set("Action", "SendSms")
	query.Set("Format", "JSON")
	query.Set("PhoneNumbers", phoneE164)
	query.Set("RegionId", g.cfg.RegionID)
	query.Set("SignName", g.cfg.SignName)
	query.Set("SignatureMethod", signatureMethod)
	query.Set("SignatureNonce", g.nonce())
	query.Set("SignatureVersion", "1.0")
	query.Set("TemplateCode", g.cfg.TemplateCode)
	query.Set("TemplateParam", string(templateParam))
	query.Set("Timestamp", g.now().UTC().Format("2006-01-02T15:04:05Z"))
	query.Set("Version", apiVersion)
	query.Set("Signature", Sign(http.MethodPost, query, g.cfg.AccessKeySecret))

	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.Endpoint, strings.NewReader(query.Encode()))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", gateways.ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", gateways.ErrDeliveryFailed, err)
	}

	result := gjson.ParseBytes(body)
	if code := result.Get("Code").String(); code != "OK" {
		logger.Error(ctx, "Aliyun SendSms rejected",
			zap.Int("http_status", resp.StatusCode),
			zap.String("code", code),
			zap.String("message", result.Get("Message").String()),
			zap.String("request_id", result.Get("RequestId").String()),
			zap.String("phone", entities.MaskPhone(phoneE164)),
		)
		return fmt.Errorf("%w: %s %s", gateways.ErrDeliveryFailed, code, result.Get("Message").String())
	}

	logger.Debug(ctx, "Aliyun SendSms accepted",
		zap.String("biz_id", result.Get("BizId").String()),
		zap.String("request_id", result.Get("RequestId").String()),
	)
	return nil
}

// Sign computes the RPC signature (v1.0) over every parameter except Signature.
func Sign(method string, params url.Values, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "Signature" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, percentEncode(k)+"="+percentEncode(params.Get(k)))
	}
	stringToSign := method + "&" + percentEncode("/") + "&" + percentEncode(strings.Join(pairs, "&"))

	mac := hmac.New(sha1.New, []byte(secret+"&"))
	mac.Write([]byte(stringToSign))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func percentEncode(s string) string {
	encoded := url.QueryEscape(s)
	encoded = strings.ReplaceAll(encoded, "+", "%20")
	encoded = strings.ReplaceAll(encoded, "*", "%2A")
	return strings.ReplaceAll(encoded, "%7E", "~")
}
