// Package price reads the native token USD price from an FTSO price gateway.
package price

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

	"github.com/shopspring/decimal"

	"fledge/internal/domain"
	"fledge/internal/infra"
)

// ErrMissingBaseURL indicates that the client was configured without an endpoint.
var ErrMissingBaseURL = errors.New("price: base url is required")

// Options configures the price feed client.
type Options struct {
	BaseURL        string
	Symbol         string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client fetches the latest feed value over HTTP.
type Client struct {
	baseURL    string
	symbol     string
	httpClient *http.Client
	logger     *infra.Logger
}

// feedResponse mirrors the gateway payload. The value is either a decimal
// string or a scaled integer accompanied by decimals, as FTSO reports it.
// It is kept raw so a garbled value reaches the caller instead of failing
// the whole response.
type feedResponse struct {
	Symbol    string          `json:"symbol"`
	Value     json.RawMessage `json:"value"`
	Decimals  int32           `json:"decimals"`
	Timestamp int64           `json:"timestamp"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	symbol := strings.TrimSpace(opts.Symbol)
	if symbol == "" {
		symbol = "FLR/USD"
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	return &Client{
		baseURL:    baseURL,
		symbol:     symbol,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Symbol returns the configured feed symbol.
func (c *Client) Symbol() string {
	return c.symbol
}

// Price returns the latest USD price as the gateway reported it, scaled by
// decimals when the value is numeric. Values are not validated: callers parse
// them and treat garbage as an unknown price. Transport failures, non-2xx
// statuses and undecodable bodies wrap domain.ErrFeedUnavailable.
func (c *Client) Price(ctx context.Context) (string, error) {
	endpoint := c.baseURL + "/v1/price?symbol=" + url.QueryEscape(c.symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("price: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("price: http request: %w: %w", domain.ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("price: read response: %w: %w", domain.ErrFeedUnavailable, err)
	}

	if resp.StatusCode >= 300 {
		var detail errorResponse
		if err := json.Unmarshal(raw, &detail); err == nil && detail.Error != "" {
			return "", fmt.Errorf("price: %s: %w", detail.Error, domain.ErrFeedUnavailable)
		}
		return "", fmt.Errorf("price: status %d: %w", resp.StatusCode, domain.ErrFeedUnavailable)
	}

	var decoded feedResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("price: decode response: %w: %w", domain.ErrFeedUnavailable, err)
	}
	value := scaledValue(decoded)
	c.logger.Debug().
		Str("symbol", c.symbol).
		Str("value", value).
		Int64("timestamp", decoded.Timestamp).
		Msg("price: fetched feed value")
	return value, nil
}

func scaledValue(resp feedResponse) string {
	raw := strings.TrimSpace(string(resp.Value))
	var quoted string
	if err := json.Unmarshal(resp.Value, &quoted); err == nil {
		raw = strings.TrimSpace(quoted)
	}
	if raw == "null" {
		return ""
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return raw
	}
	if resp.Decimals > 0 {
		d = d.Shift(-resp.Decimals)
	}
	return d.String()
}

var _ domain.PriceProvider = (*Client)(nil)
