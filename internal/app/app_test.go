package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fx-threshold-alerts/internal/config"
	"fx-threshold-alerts/internal/crossrate"
	"fx-threshold-alerts/internal/fetcher"
)

func testConfig(gotifyURL string) *config.Config {
	return &config.Config{
		App: config.AppConfig{CycleTimeout: 5 * time.Second},
		Check: config.CheckConfig{
			TargetCurrency:     "EUR",
			ComparisonCurrency: "USD",
			ThresholdRate:      "0.90",
		},
		Notify: config.NotifyConfig{
			RequestTimeout: time.Second,
			Gotify:         config.GotifyConfig{URL: gotifyURL, Token: "tok", Priority: 5},
		},
	}
}

func TestSimulateNotifiesAboveThreshold(t *testing.T) {
	var hits int32
	titles := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		var payload struct {
			Title string `json:"title"`
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		titles <- payload.Title
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a := NewApp(testConfig(srv.URL), zerolog.Nop())
	require.NoError(t, a.Simulate(context.Background(), 0.92, 1.0))
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
	assert.Contains(t, <-titles, "EUR/USD")
}

func TestSimulateBelowThresholdSkipsNotify(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	a := NewApp(testConfig(srv.URL), zerolog.Nop())
	require.NoError(t, a.Simulate(context.Background(), 0.80, 1.0))
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestSimulateRejectsNonPositiveRates(t *testing.T) {
	a := NewApp(testConfig("https://gotify.invalid"), zerolog.Nop())
	assert.Error(t, a.Simulate(context.Background(), 0, 1))
	assert.Error(t, a.Simulate(context.Background(), 1, -1))
}

func TestSimulateInvalidInputs(t *testing.T) {
	cfg := testConfig("https://gotify.invalid")
	cfg.Check.ThresholdRate = "abc"

	err := NewApp(cfg, zerolog.Nop()).Simulate(context.Background(), 1, 1)
	var cfgErr *crossrate.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "THRESHOLD_RATE", cfgErr.Field)
}

func TestSimulateRejectsSameCurrency(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Check.ComparisonCurrency = "eur"

	err := NewApp(cfg, zerolog.Nop()).Simulate(context.Background(), 2, 1)
	var cfgErr *crossrate.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "COMPARISON_CURRENCY", cfgErr.Field)
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestCheckMissingAppIDIsFetchError(t *testing.T) {
	cfg := testConfig("https://gotify.invalid")
	cfg.Rates = config.RatesConfig{BaseURL: "https://rates.invalid", RequestTimeout: time.Second}

	err := NewApp(cfg, zerolog.Nop()).Check(context.Background())
	var fetchErr *fetcher.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "configure", fetchErr.Op)
}

func TestCheckAgainstProvider(t *testing.T) {
	rates := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest.json", r.URL.Path)
		assert.Equal(t, "app-1", r.URL.Query().Get("app_id"))
		_, _ = w.Write([]byte(`{"timestamp":1717236000,"base":"USD","rates":{"EUR":0.95,"USD":1}}`))
	}))
	defer rates.Close()

	var hits int32
	gotify := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer gotify.Close()

	cfg := testConfig(gotify.URL)
	cfg.Rates = config.RatesConfig{AppID: "app-1", BaseURL: rates.URL, RequestTimeout: time.Second}

	require.NoError(t, NewApp(cfg, zerolog.Nop()).Check(context.Background()))
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}
