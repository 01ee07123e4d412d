package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/kscan/internal/contracts"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "스캔 사이클 1회 실행",
	Long: `전략 스캔을 1회 실행합니다.

이 명령어는:
- 유니버스 구성 (관심 종목 + 시총 상위)
- 지수 시리즈로 시장 국면 분류
- 리버모어/오닐/미너비니 평가기 실행
- 결과를 JSON/CSV/HTML로 출력하고 DB에 저장

Example:
  go run ./cmd/kscan scan
  go run ./cmd/kscan scan --strategy config/strategy.yaml`,
	RunE: runScan,
}

var scanTopN int

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().IntVar(&scanTopN, "top", 10, "전략별 콘솔 출력 종목 수")
}

func runScan(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := a.pipeline().Execute(ctx)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	printResult(result, scanTopN)
	return nil
}

// printResult writes a compact console summary
func printResult(result *contracts.ScanResultSet, topN int) {
	fmt.Printf("\n=== kscan %s ===\n", result.Date.Format("2006-01-02"))
	fmt.Printf("시장 국면: %s (RSI %.1f)\n", result.Regime.Trend, result.Regime.RSI)
	fmt.Printf("스캔 %d종목, 제외 %d종목, 매칭 %d건\n", result.Scanned, result.Skipped, result.Total())

	names := make([]string, 0, len(result.Signals))
	for name := range result.Signals {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		signals := result.Matches(name)
		fmt.Printf("\n[%s] %d건\n", name, len(signals))
		for i, sig := range signals {
			if i >= topN {
				fmt.Printf("  ... 외 %d건\n", len(signals)-topN)
				break
			}
			fmt.Printf("  %2d. %s %-12s score=%.4f\n",
				i+1, sig.Instrument.Symbol, sig.Instrument.Name, sig.Score)
		}
	}
	fmt.Println()
}
