package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dormbill/backend/internal/domain/billing"
)

func TestWebhookNotifier_SendBillingNotice(t *testing.T) {
	t.Run("posts envelope to the gateway", func(t *testing.T) {
		var received webhookEnvelope
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		notifier := NewWebhookNotifier(server.URL, 5*time.Second, zap.NewNop())
		err := notifier.SendBillingNotice(context.Background(), "chan-123", billing.BillingNotice{
			RoomCode:    "A-101",
			TenantName:  "Somchai",
			Month:       3,
			Year:        2025,
			TotalAmount: decimal.NewFromInt(3650),
		})

		require.NoError(t, err)
		assert.Equal(t, "chan-123", received.ChannelID)
		assert.Equal(t, "billing", received.Kind)
	})

	t.Run("returns error on gateway failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "downstream unavailable", http.StatusBadGateway)
		}))
		defer server.Close()

		notifier := NewWebhookNotifier(server.URL, 5*time.Second, zap.NewNop())
		err := notifier.SendBillingNotice(context.Background(), "chan-123", billing.BillingNotice{RoomCode: "A-101"})

		assert.ErrorContains(t, err, "status 502")
	})

	t.Run("settlement notice carries the kind", func(t *testing.T) {
		var received webhookEnvelope
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		remaining := decimal.NewFromInt(2000)
		notifier := NewWebhookNotifier(server.URL, 5*time.Second, zap.NewNop())
		err := notifier.SendSettlementNotice(context.Background(), "chan-123", billing.SettlementNotice{
			RoomCode:         "A-101",
			Amount:           decimal.NewFromInt(3000),
			Method:           billing.PaymentMethodDeposit,
			RemainingDeposit: &remaining,
		})

		require.NoError(t, err)
		assert.Equal(t, "settlement", received.Kind)
	})
}
