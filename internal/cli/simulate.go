package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var (
	simulateTarget     float64
	simulateComparison float64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "用给定汇率模拟一次阈值检查并触发通知",
	RunE: func(cmd *cobra.Command, args []string) error {
		if simulateTarget <= 0 || simulateComparison <= 0 {
			return errors.New("--target-rate 与 --comparison-rate 必须大于 0")
		}
		return getApp().Simulate(cmd.Context(), simulateTarget, simulateComparison)
	},
}

func init() {
	simulateCmd.Flags().Float64Var(&simulateTarget, "target-rate", 0, "TARGET_CURRENCY 相对基准货币的汇率")
	simulateCmd.Flags().Float64Var(&simulateComparison, "comparison-rate", 0, "COMPARISON_CURRENCY 相对基准货币的汇率")
}
