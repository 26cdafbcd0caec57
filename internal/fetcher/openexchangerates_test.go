package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchRatesMissingAppID(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	f := NewOpenExchangeRates(OpenExchangeRatesOptions{BaseURL: srv.URL, AppID: "  "}, noopLogger())
	_, err := f.FetchRates(context.Background())

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "configure", fetchErr.Op)
	assert.Zero(t, calls, "no request should be made without an app id")
}

func TestFetchRatesSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest.json", r.URL.Path)
		assert.Equal(t, "test_app_id", r.URL.Query().Get("app_id"))
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"disclaimer": "Test data",
			"timestamp": 1234567890,
			"base": "USD",
			"rates": {"EUR": 0.92, "USD": 1.0, "gbp": 0.79}
		}`))
	}))
	defer srv.Close()

	f := NewOpenExchangeRates(OpenExchangeRatesOptions{
		AppID:   "test_app_id",
		BaseURL: srv.URL + "/",
		Timeout: time.Second,
	}, noopLogger())

	table, err := f.FetchRates(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "USD", table.Base)
	assert.Equal(t, time.Unix(1234567890, 0).UTC(), table.CapturedAt)

	eur, ok := table.Rate("EUR")
	require.True(t, ok)
	assert.True(t, eur.Equal(decimal.RequireFromString("0.92")))

	_, ok = table.Rate("GBP")
	assert.True(t, ok, "codes are normalised to upper case")
}

func TestFetchRatesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": true, "status": 401, "message": "invalid_app_id", "description": "Invalid App ID provided."}`))
	}))
	defer srv.Close()

	f := NewOpenExchangeRates(OpenExchangeRatesOptions{AppID: "bad", BaseURL: srv.URL}, noopLogger())
	_, err := f.FetchRates(context.Background())

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusUnauthorized, fetchErr.StatusCode)
	assert.Contains(t, err.Error(), "Invalid App ID provided.")
}

func TestFetchRatesEmptyTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"timestamp": 1, "base": "USD", "rates": {}}`))
	}))
	defer srv.Close()

	f := NewOpenExchangeRates(OpenExchangeRatesOptions{AppID: "id", BaseURL: srv.URL}, noopLogger())
	_, err := f.FetchRates(context.Background())

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "decode", fetchErr.Op)
}

func TestFetchRatesMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	f := NewOpenExchangeRates(OpenExchangeRatesOptions{AppID: "id", BaseURL: srv.URL}, noopLogger())
	_, err := f.FetchRates(context.Background())

	var fetchErr *FetchError
	assert.True(t, errors.As(err, &fetchErr))
}

func TestStaticFetcherCopiesTable(t *testing.T) {
	s := &Static{Table: RateTable{Base: "USD", Rates: map[string]decimal.Decimal{"EUR": decimal.RequireFromString("0.9")}}}

	table, err := s.FetchRates(context.Background())
	require.NoError(t, err)
	table.Rates["EUR"] = decimal.Zero

	assert.True(t, s.Table.Rates["EUR"].Equal(decimal.RequireFromString("0.9")))
	assert.False(t, table.CapturedAt.IsZero())
}

func noopLogger() zerolog.Logger {
	return zerolog.Nop()
}
