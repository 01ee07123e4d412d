package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/kscan/internal/collect"
	"github.com/wonny/kscan/internal/scheduler"
	"github.com/wonny/kscan/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "수집/스캔 스케줄러 실행",
	Long: `크론 스케줄에 따라 수집과 스캔을 반복 실행합니다.

이 명령어는:
- 장 마감 후 일봉 수집 (schedule.collect)
- 수집 후 전략 스캔 (schedule.scan)

Example:
  go run ./cmd/kscan scheduler`,
	RunE: runScheduler,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	// 스케줄 운영은 저장 계층이 있어야 의미가 있다
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	sched := scheduler.New(a.log)

	collectJob := jobs.NewCollectJob(a.builder, a.collector, collect.Config{
		Workers:      a.cfg.Scan.Workers,
		LookbackDays: a.cfg.Scan.LookbackDays,
	}, a.strategyCfg.Schedule.Collect, a.log)
	if err := sched.AddJob(collectJob); err != nil {
		return fmt.Errorf("add collect job: %w", err)
	}

	scanJob := jobs.NewScanJob(a.pipeline(), a.strategyCfg.Schedule.Scan, a.log)
	if err := sched.AddJob(scanJob); err != nil {
		return fmt.Errorf("add scan job: %w", err)
	}

	sched.Start()
	fmt.Println("✅ Scheduler running (Ctrl+C to stop)")
	fmt.Printf("  collect: %s\n", a.strategyCfg.Schedule.Collect)
	fmt.Printf("  scan:    %s\n", a.strategyCfg.Schedule.Scan)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}
