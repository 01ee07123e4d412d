package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/kscan/internal/collect"
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "유니버스 일봉 수집",
	Long: `스캔 유니버스 전 종목의 일봉 히스토리를 수집해 DB에 저장합니다.

Example:
  go run ./cmd/kscan collect
  go run ./cmd/kscan collect --days 400 --workers 8`,
	RunE: runCollect,
}

var (
	collectDays    int
	collectWorkers int
)

func init() {
	rootCmd.AddCommand(collectCmd)

	collectCmd.Flags().IntVar(&collectDays, "days", 0, "수집할 거래일 수 (기본: SCAN_LOOKBACK_DAYS)")
	collectCmd.Flags().IntVar(&collectWorkers, "workers", 0, "동시 수집 워커 수 (기본: SCAN_WORKERS)")
}

func runCollect(cmd *cobra.Command, args []string) error {
	// 수집은 저장이 목적이므로 DB 필수
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	instruments, err := a.builder.Build(ctx)
	if err != nil {
		return fmt.Errorf("build universe: %w", err)
	}

	if err := a.universeRepo.Save(ctx, instruments); err != nil {
		a.log.WithError(err).Warn("Universe snapshot save failed")
	}

	days := collectDays
	if days == 0 {
		days = a.cfg.Scan.LookbackDays
	}
	workers := collectWorkers
	if workers == 0 {
		workers = a.cfg.Scan.Workers
	}

	results, err := a.collector.CollectAll(ctx, instruments, collect.Config{
		Workers:      workers,
		LookbackDays: days,
	})
	if err != nil {
		return fmt.Errorf("collect: %w", err)
	}

	failCount := 0
	barCount := 0
	for _, r := range results {
		if r.Error != nil {
			failCount++
			continue
		}
		barCount += r.BarCount
	}

	fmt.Printf("\n수집 완료: %d종목, %d봉 (%d실패)\n", len(results)-failCount, barCount, failCount)
	return nil
}
