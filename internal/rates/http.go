// Package rates provides exchange-rate sources for the currency normalizer.
package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the exchangerate-api.com v6 endpoint.
const DefaultBaseURL = "https://v6.exchangerate-api.com/v6"

// ErrMalformedResponse is returned when the rate service answers without a
// usable conversion rate.
var ErrMalformedResponse = errors.New("malformed rate response")

// HTTPProvider looks up pair rates from an exchangerate-api compatible
// service: GET {baseURL}/{apiKey}/pair/{from}/{to}.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPProvider creates a provider. A zero timeout leaves requests bounded
// only by the caller's context.
func NewHTTPProvider(baseURL, apiKey string, timeout time.Duration) *HTTPProvider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &HTTPProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type pairResponse struct {
	Result         string   `json:"result"`
	ErrorType      string   `json:"error-type"`
	ConversionRate *float64 `json:"conversion_rate"`
}

// LookupRate implements finance.RateProvider.
func (p *HTTPProvider) LookupRate(ctx context.Context, from, to string) (float64, error) {
	endpoint := fmt.Sprintf("%s/%s/pair/%s/%s",
		p.baseURL, url.PathEscape(p.apiKey), url.PathEscape(from), url.PathEscape(to))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("build rate request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request rate: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("read rate response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rate service returned %d", resp.StatusCode)
	}

	var pr pairResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if pr.Result == "error" {
		return 0, fmt.Errorf("rate service error: %s", pr.ErrorType)
	}
	if pr.ConversionRate == nil {
		return 0, fmt.Errorf("%w: missing conversion_rate", ErrMalformedResponse)
	}
	return *pr.ConversionRate, nil
}
