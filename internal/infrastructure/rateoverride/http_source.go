package rateoverride

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dormbill/backend/internal/domain/billing"
)

const defaultFetchTimeout = 3 * time.Second

// HTTPSource fetches rate overrides from a remote configuration endpoint.
// The endpoint returns a flat JSON object of config field overrides.
type HTTPSource struct {
	url        string
	httpClient *http.Client
}

// NewHTTPSource creates a source against the given endpoint
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &HTTPSource{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves the current overrides. Callers treat any error as
// "no override" and keep using local configuration.
func (s *HTTPSource) Fetch(ctx context.Context) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build override request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch overrides: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("override endpoint returned status %d", resp.StatusCode)
	}

	var overrides map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&overrides); err != nil {
		return nil, fmt.Errorf("failed to decode overrides: %w", err)
	}
	return overrides, nil
}

var _ billing.RateOverrideSource = (*HTTPSource)(nil)
