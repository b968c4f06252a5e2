package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dormbill/backend/internal/domain/billing"
)

const defaultWebhookTimeout = 10 * time.Second

// WebhookNotifier delivers billing notices by POSTing JSON to an external
// messaging gateway. The channel id addresses the tenant on that gateway.
type WebhookNotifier struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewWebhookNotifier creates a webhook notifier against the given gateway URL
func NewWebhookNotifier(baseURL string, timeout time.Duration, logger *zap.Logger) *WebhookNotifier {
	if timeout <= 0 {
		timeout = defaultWebhookTimeout
	}
	return &WebhookNotifier{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("webhook-notifier"),
	}
}

type webhookEnvelope struct {
	ChannelID string `json:"channel_id"`
	Kind      string `json:"kind"`
	Payload   any    `json:"payload"`
}

// SendBillingNotice pushes an invoice notice to the tenant's channel
func (n *WebhookNotifier) SendBillingNotice(ctx context.Context, channelID string, notice billing.BillingNotice) error {
	return n.post(ctx, webhookEnvelope{
		ChannelID: channelID,
		Kind:      "billing",
		Payload:   notice,
	})
}

// SendSettlementNotice pushes a settlement receipt to the tenant's channel
func (n *WebhookNotifier) SendSettlementNotice(ctx context.Context, channelID string, notice billing.SettlementNotice) error {
	return n.post(ctx, webhookEnvelope{
		ChannelID: channelID,
		Kind:      "settlement",
		Payload:   notice,
	})
}

func (n *WebhookNotifier) post(ctx context.Context, envelope webhookEnvelope) error {
	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal notice: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver notice: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		n.logger.Warn("notification gateway rejected notice",
			zap.Int("status", resp.StatusCode),
			zap.String("kind", envelope.Kind),
			zap.ByteString("body", snippet),
		)
		return fmt.Errorf("notification gateway returned status %d", resp.StatusCode)
	}
	return nil
}

var _ billing.Notifier = (*WebhookNotifier)(nil)
