package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/dormbill/backend/internal/domain/billing"
)

// LogNotifier writes notices to the application log instead of delivering
// them. Used when no gateway URL is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a log-only notifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.Named("log-notifier")}
}

// SendBillingNotice logs the invoice notice
func (n *LogNotifier) SendBillingNotice(_ context.Context, channelID string, notice billing.BillingNotice) error {
	n.logger.Info("billing notice",
		zap.String("channel_id", channelID),
		zap.String("room", notice.RoomCode),
		zap.Int("month", notice.Month),
		zap.Int("year", notice.Year),
		zap.String("total", notice.TotalAmount.StringFixed(2)),
	)
	return nil
}

// SendSettlementNotice logs the settlement receipt
func (n *LogNotifier) SendSettlementNotice(_ context.Context, channelID string, notice billing.SettlementNotice) error {
	n.logger.Info("settlement notice",
		zap.String("channel_id", channelID),
		zap.String("room", notice.RoomCode),
		zap.String("method", string(notice.Method)),
		zap.String("amount", notice.Amount.StringFixed(2)),
	)
	return nil
}

var _ billing.Notifier = (*LogNotifier)(nil)
