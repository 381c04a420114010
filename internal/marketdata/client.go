// Package marketdata fetches realized daily price ranges from an external
// provider. The engine receives fully-materialized ranges; the core never
// performs partial reads.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"

	"trade-report-engine/internal/interfaces"
	"trade-report-engine/internal/types"
)

// Client is a PriceSource backed by an HTTP market-data API.
type Client struct {
	client *resty.Client
	symbol string
	apiKey string
}

var _ interfaces.PriceSource = (*Client)(nil)

// Options configures the market-data client.
type Options struct {
	BaseURL   string
	Symbol    string
	Timeout   time.Duration
	APIKeyEnv string
}

// NewClient creates a market-data client.
func NewClient(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	client := resty.New()
	client.SetBaseURL(opts.BaseURL)
	client.SetTimeout(opts.Timeout)

	apiKey := ""
	if opts.APIKeyEnv != "" {
		apiKey = os.Getenv(opts.APIKeyEnv)
	}
	return &Client{client: client, symbol: opts.Symbol, apiKey: apiKey}
}

type dailyResponse struct {
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// DailyRange fetches the realized OHLC for one trading day. The response is
// checked for sanity before it reaches the comparator.
func (c *Client) DailyRange(ctx context.Context, date time.Time) (types.PriceRange, error) {
	params := map[string]string{
		"symbol": c.symbol,
		"date":   date.Format("2006-01-02"),
	}
	if c.apiKey != "" {
		params["token"] = c.apiKey
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get("/daily")
	if err != nil {
		return types.PriceRange{}, fmt.Errorf("failed to fetch daily range for %s: %w", params["date"], err)
	}
	if resp.StatusCode() != 200 {
		return types.PriceRange{}, fmt.Errorf("market data API error %d: %s", resp.StatusCode(), resp.String())
	}

	var body dailyResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return types.PriceRange{}, fmt.Errorf("failed to parse daily range response: %w", err)
	}

	r := types.PriceRange{Open: body.Open, High: body.High, Low: body.Low, Close: body.Close}
	if r.Open <= 0 || r.High <= 0 || r.Low <= 0 || r.Close <= 0 {
		return types.PriceRange{}, fmt.Errorf("provider returned non-positive prices for %s", params["date"])
	}
	if r.High < r.Low {
		return types.PriceRange{}, fmt.Errorf("provider returned high %.2f below low %.2f for %s", r.High, r.Low, params["date"])
	}
	return r, nil
}
