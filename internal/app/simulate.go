package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"fx-threshold-alerts/internal/crossrate"
	"fx-threshold-alerts/internal/fetcher"
)

// Simulate 用给定的两种货币汇率构造静态汇率表，走一遍完整的阈值判断与通知流程。
func (a *App) Simulate(ctx context.Context, targetRate, comparisonRate float64) error {
	if targetRate <= 0 || comparisonRate <= 0 {
		return errors.New("simulated rates must be greater than 0")
	}

	inputs, err := crossrate.ValidateInputs(a.Config.Check)
	if err != nil {
		return fmt.Errorf("validate inputs: %w", err)
	}
	if inputs.Target == inputs.Comparison {
		// 两个汇率会写入同一个键，--target-rate 将被忽略
		return &crossrate.ConfigError{Field: "COMPARISON_CURRENCY", Reason: "must differ from TARGET_CURRENCY to simulate"}
	}

	static := &fetcher.Static{Table: fetcher.RateTable{
		Base: "SIM",
		Rates: map[string]decimal.Decimal{
			inputs.Target:     decimal.NewFromFloat(targetRate),
			inputs.Comparison: decimal.NewFromFloat(comparisonRate),
		},
		CapturedAt: time.Now().UTC(),
	}}

	ctx, cancel := a.cycleContext(ctx)
	defer cancel()

	report, err := a.newService(static).RunCycle(ctx)
	if err != nil {
		return err
	}
	a.Logger.Info().
		Str("run_id", report.RunID).
		Str("cross_rate", report.Result.Value.String()).
		Bool("delivered", report.Delivered).
		Msg("simulation finished")
	return nil
}
