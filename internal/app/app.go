package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"fx-threshold-alerts/internal/alerting"
	"fx-threshold-alerts/internal/config"
	"fx-threshold-alerts/internal/fetcher"
	"fx-threshold-alerts/internal/service"
	"fx-threshold-alerts/internal/tzcheck"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newFetcher() fetcher.RateFetcher {
	return fetcher.NewOpenExchangeRates(fetcher.OpenExchangeRatesOptions{
		AppID:     a.Config.Rates.AppID,
		BaseURL:   a.Config.Rates.BaseURL,
		Timeout:   a.Config.Rates.RequestTimeout,
		UserAgent: a.Config.Rates.UserAgent,
	}, a.Logger)
}

func (a *App) newNotifier() alerting.Notifier {
	return alerting.NewDispatcher(a.Config.Notify, a.Logger)
}

func (a *App) newService(rates fetcher.RateFetcher) *service.Service {
	return service.New(service.Options{
		Check:    a.Config.Check,
		Timezone: a.Config.Timezone,
		Rates:    rates,
		Notifier: a.newNotifier(),
		Out:      os.Stdout,
	}, a.Logger)
}

// cycleContext bounds one invocation by the configured timeout and by
// SIGINT/SIGTERM.
func (a *App) cycleContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	if a.Config.App.CycleTimeout <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, a.Config.App.CycleTimeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

// Check runs one threshold check cycle against the live provider.
func (a *App) Check(ctx context.Context) error {
	ctx, cancel := a.cycleContext(ctx)
	defer cancel()

	report, err := a.newService(a.newFetcher()).RunCycle(ctx)
	if err != nil {
		a.Logger.Error().Err(err).Str("run_id", report.RunID).Msg("check cycle failed")
		return err
	}

	a.Logger.Debug().
		Str("run_id", report.RunID).
		Bool("notified", report.Notified).
		Bool("delivered", report.Delivered).
		Msg("check cycle finished")
	return nil
}

// TimezoneCheck compares the configured zone offset with the recorded one.
func (a *App) TimezoneCheck(ctx context.Context) (tzcheck.Result, error) {
	ctx, cancel := a.cycleContext(ctx)
	defer cancel()

	return a.newService(nil).RunTimezoneCheck(ctx)
}
