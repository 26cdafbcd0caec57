package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"fx-threshold-alerts/internal/alerting"
	"fx-threshold-alerts/internal/config"
	"fx-threshold-alerts/internal/crossrate"
	"fx-threshold-alerts/internal/fetcher"
	"fx-threshold-alerts/internal/tzcheck"
)

const tzChangeSubject = "[fxalert] Timezone change detected"

// Service orchestrates one check cycle: validate, fetch, evaluate, then
// notify or report.
type Service struct {
	check    config.CheckConfig
	timezone config.TimezoneConfig
	rates    fetcher.RateFetcher
	notifier alerting.Notifier
	out      io.Writer
	logger   zerolog.Logger
	now      func() time.Time
}

// Options carry the collaborators of a Service.
type Options struct {
	Check    config.CheckConfig
	Timezone config.TimezoneConfig
	Rates    fetcher.RateFetcher
	Notifier alerting.Notifier
	// Out receives the human-readable report.
	Out io.Writer
	Now func() time.Time
}

// Report summarises a completed cycle.
type Report struct {
	RunID      string
	CapturedAt time.Time
	Result     crossrate.Result
	Notified   bool
	Delivered  bool
}

// New constructs the check service.
func New(opts Options, logger zerolog.Logger) *Service {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		check:    opts.Check,
		timezone: opts.Timezone,
		rates:    opts.Rates,
		notifier: opts.Notifier,
		out:      out,
		logger:   logger.With().Str("component", "service").Logger(),
		now:      now,
	}
}

// RunCycle executes exactly one cycle. ConfigError, FetchError and
// RateLookupError abort it and are returned wrapped; notification outcome is
// reported but never turned into an error.
func (s *Service) RunCycle(ctx context.Context) (Report, error) {
	report := Report{RunID: uuid.NewString()}
	logger := s.logger.With().Str("run_id", report.RunID).Logger()

	inputs, err := crossrate.ValidateInputs(s.check)
	if err != nil {
		return report, fmt.Errorf("validate inputs: %w", err)
	}
	logger.Debug().Str("pair", inputs.Pair()).Str("threshold", inputs.Threshold.String()).Msg("inputs validated")

	if s.rates == nil {
		return report, &fetcher.FetchError{Op: "configure", Err: errors.New("rate fetcher not configured")}
	}
	table, err := s.rates.FetchRates(ctx)
	if err != nil {
		return report, err
	}
	report.CapturedAt = table.CapturedAt
	s.printf("Data timestamp: %s\n", table.CapturedAt.UTC().Format("2006-01-02 15:04:05 MST"))

	result, err := crossrate.Evaluate(table, inputs)
	if err != nil {
		return report, fmt.Errorf("evaluate cross rate: %w", err)
	}
	report.Result = result

	rate := result.Value.StringFixed(2)
	threshold := result.Threshold.StringFixed(2)
	s.printf("Calculated %s to %s rate is %s\n", result.Comparison, result.Target, rate)

	logger.Info().
		Str("pair", result.Pair()).
		Str("cross_rate", result.Value.String()).
		Str("threshold", result.Threshold.String()).
		Bool("meets_threshold", result.MeetsThreshold).
		Msg("cross rate evaluated")

	if !result.MeetsThreshold {
		s.printf("The current exchange rate %s %s is below the threshold rate %s %s.\n", rate, result.Target, threshold, result.Target)
		return report, nil
	}

	message := fmt.Sprintf("The current exchange rate %s %s is equal to or higher than the threshold rate %s %s.", rate, result.Target, threshold, result.Target)
	s.printf("%s\n", message)

	if s.notifier == nil {
		logger.Warn().Msg("notifier not configured; skipping notification")
		return report, nil
	}

	subject := fmt.Sprintf("%s - Current exchange rate %s is at or above threshold %s", result.Pair(), rate, threshold)
	body := message + "\nData captured at " + table.CapturedAt.UTC().Format(time.RFC3339)

	report.Notified = true
	report.Delivered = s.notifier.Notify(ctx, subject, body)
	if report.Delivered {
		s.printf("Notification sent.\n")
	} else {
		logger.Error().Msg("threshold met but notification was not delivered")
		s.printf("Notification could not be delivered.\n")
	}
	return report, nil
}

// RunTimezoneCheck compares the configured zone offset with the recorded one
// and notifies when it changed.
func (s *Service) RunTimezoneCheck(ctx context.Context) (tzcheck.Result, error) {
	res, err := tzcheck.Check(s.timezone, s.now())
	if err != nil {
		return res, fmt.Errorf("timezone check: %w", err)
	}

	current := tzcheck.FormatOffset(res.Current)
	if !res.Changed() {
		s.printf("No change in timezone for %s (offset %s).\n", res.Zone, tzcheck.FormatOffset(res.Initial))
		return res, nil
	}

	content := strings.Join([]string{
		"Update the cron to work with the current timezone and update the initial offset value to detect future changes.",
		fmt.Sprintf("Current %s timezone offset is %s", res.Zone, current),
	}, "\n")
	s.printf("%s\n", content)

	s.logger.Warn().
		Str("zone", res.Zone).
		Str("initial", tzcheck.FormatOffset(res.Initial)).
		Str("current", current).
		Msg("timezone offset changed")

	if s.notifier != nil && !s.notifier.Notify(ctx, tzChangeSubject, content) {
		s.logger.Error().Msg("timezone change notification was not delivered")
	}
	return res, nil
}

func (s *Service) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}
