package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	strategyFile string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kscan",
	Short: "kscan - 한국 주식 전략 스캐너",
	Long: `kscan Unified CLI

일봉 기반 전략 스캐너.
리버모어 돌파, 오닐 거래량 급증, 미너비니 VCP 평가기를
시장 국면 분류와 함께 실행한다.

Usage:
  go run ./cmd/kscan [command]

Examples:
  go run ./cmd/kscan scan
  go run ./cmd/kscan collect
  go run ./cmd/kscan universe
  go run ./cmd/kscan scheduler
  go run ./cmd/kscan api`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&strategyFile, "strategy", "", "strategy YAML file (default config/strategy.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
