package rateoverride

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSource_Fetch(t *testing.T) {
	t.Run("decodes overrides", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"water_unit_price": 12.5, "due_day": 10}`))
		}))
		defer server.Close()

		source := NewHTTPSource(server.URL, time.Second)
		overrides, err := source.Fetch(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 12.5, overrides["water_unit_price"])
		assert.Equal(t, float64(10), overrides["due_day"])
	})

	t.Run("non-200 is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		source := NewHTTPSource(server.URL, time.Second)
		_, err := source.Fetch(context.Background())
		assert.ErrorContains(t, err, "status 503")
	})

	t.Run("malformed body is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer server.Close()

		source := NewHTTPSource(server.URL, time.Second)
		_, err := source.Fetch(context.Background())
		assert.ErrorContains(t, err, "decode")
	})
}
