package fetcher

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

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const latestPath = "/latest.json"

// OpenExchangeRatesOptions parameterise the provider client.
type OpenExchangeRatesOptions struct {
	AppID     string
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// OpenExchangeRates fetches the latest table from openexchangerates.org.
type OpenExchangeRates struct {
	opts    OpenExchangeRatesOptions
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewOpenExchangeRates constructs the provider client.
func NewOpenExchangeRates(opts OpenExchangeRatesOptions, logger zerolog.Logger) *OpenExchangeRates {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://openexchangerates.org/api"
	}

	return &OpenExchangeRates{
		opts:    opts,
		logger:  logger.With().Str("component", "rate_fetcher").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// FetchRates performs a single GET of latest.json. Any failure is a *FetchError.
func (o *OpenExchangeRates) FetchRates(ctx context.Context) (RateTable, error) {
	appID := strings.TrimSpace(o.opts.AppID)
	if appID == "" {
		return RateTable{}, &FetchError{Op: "configure", Err: errors.New("OER_APP_ID is required")}
	}

	endpoint := o.baseURL + latestPath + "?" + url.Values{"app_id": {appID}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return RateTable{}, &FetchError{Op: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if ua := strings.TrimSpace(o.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	} else {
		req.Header.Set("User-Agent", "fxalert/1.0")
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return RateTable{}, &FetchError{Op: "request", Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return RateTable{}, &FetchError{Op: "read body", StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return RateTable{}, &FetchError{Op: "request", StatusCode: resp.StatusCode, Err: parseHTTPError(payload)}
	}

	var body latestResponse
	if err := json.Unmarshal(payload, &body); err != nil {
		return RateTable{}, &FetchError{Op: "decode", StatusCode: resp.StatusCode, Err: err}
	}
	if len(body.Rates) == 0 {
		return RateTable{}, &FetchError{Op: "decode", StatusCode: resp.StatusCode, Err: errors.New("response contained no rates")}
	}

	rates := make(map[string]decimal.Decimal, len(body.Rates))
	for code, rate := range body.Rates {
		rates[strings.ToUpper(code)] = rate
	}

	table := RateTable{
		Base:       strings.ToUpper(body.Base),
		Rates:      rates,
		CapturedAt: time.Unix(body.Timestamp, 0).UTC(),
	}

	o.logger.Debug().
		Str("base", table.Base).
		Int("currencies", len(table.Rates)).
		Time("captured_at", table.CapturedAt).
		Msg("rate table fetched")
	return table, nil
}

type latestResponse struct {
	Timestamp int64                      `json:"timestamp"`
	Base      string                     `json:"base"`
	Rates     map[string]decimal.Decimal `json:"rates"`
}

type errorResponse struct {
	Status      int    `json:"status"`
	Message     string `json:"message"`
	Description string `json:"description"`
}

func parseHTTPError(payload []byte) error {
	var apiErr errorResponse
	if err := json.Unmarshal(payload, &apiErr); err == nil {
		if apiErr.Description != "" {
			return fmt.Errorf("provider error: %s", apiErr.Description)
		}
		if apiErr.Message != "" {
			return fmt.Errorf("provider error: %s", apiErr.Message)
		}
	}
	if trimmed := strings.TrimSpace(string(payload)); trimmed != "" {
		return fmt.Errorf("provider error: %s", trimmed)
	}
	return errors.New("provider error")
}

var _ RateFetcher = (*OpenExchangeRates)(nil)
