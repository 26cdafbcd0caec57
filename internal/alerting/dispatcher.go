package alerting

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"fx-threshold-alerts/internal/config"
)

// Dispatcher broadcasts a message to every configured channel.
type Dispatcher struct {
	cfg     config.NotifyConfig
	senders map[Kind]Sender
	logger  zerolog.Logger
}

// NewDispatcher wires the default HTTP senders for every known channel kind.
func NewDispatcher(cfg config.NotifyConfig, logger zerolog.Logger) *Dispatcher {
	senders := map[Kind]Sender{
		KindMailgun:  NewMailgunSender(cfg.RequestTimeout, ""),
		KindGotify:   NewGotifySender(cfg.RequestTimeout),
		KindTelegram: NewTelegramSender(cfg.RequestTimeout),
	}
	return NewDispatcherWithSenders(cfg, senders, logger)
}

// NewDispatcherWithSenders uses the given senders instead of the defaults.
func NewDispatcherWithSenders(cfg config.NotifyConfig, senders map[Kind]Sender, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		cfg:     cfg,
		senders: senders,
		logger:  logger.With().Str("component", "dispatcher").Logger(),
	}
}

// Targets rebuilds the configured target set.
func (d *Dispatcher) Targets() []Target {
	return BuildTargets(d.cfg)
}

// Notify sends subject/body to every configured target, one attempt each,
// and returns true when at least one delivery succeeded. Channel failures
// are logged, never returned.
func (d *Dispatcher) Notify(ctx context.Context, subject, body string) bool {
	targets := d.Targets()
	if len(targets) == 0 {
		d.logger.Warn().Msg("no notification targets configured")
		return false
	}

	msg := Message{Subject: subject, Body: body}
	delivered := make([]bool, len(targets))

	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target Target) {
			defer wg.Done()
			delivered[i] = d.send(ctx, target, msg)
		}(i, target)
	}
	wg.Wait()

	ok := 0
	for _, sent := range delivered {
		if sent {
			ok++
		}
	}

	event := d.logger.Info()
	if ok == 0 {
		event = d.logger.Error()
	}
	event.Int("targets", len(targets)).Int("delivered", ok).Msg("notification dispatched")
	return ok > 0
}

func (d *Dispatcher) send(ctx context.Context, target Target, msg Message) bool {
	log := d.logger.With().
		Str("channel", string(target.Kind)).
		Str("target", target.Redacted()).
		Logger()

	sender, found := d.senders[target.Kind]
	if !found {
		log.Error().Msg("no sender registered for channel")
		return false
	}
	if err := sender.Send(ctx, target, msg); err != nil {
		log.Error().Err(err).Msg("channel delivery failed")
		return false
	}
	log.Info().Msg("channel delivery succeeded")
	return true
}

var _ Notifier = (*Dispatcher)(nil)
