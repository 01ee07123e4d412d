package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// universeCmd represents the universe command
var universeCmd = &cobra.Command{
	Use:   "universe",
	Short: "스캔 유니버스 출력",
	Long: `현재 설정으로 구성되는 스캔 유니버스를 출력합니다.

Example:
  go run ./cmd/kscan universe`,
	RunE: runUniverse,
}

func init() {
	rootCmd.AddCommand(universeCmd)
}

func runUniverse(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
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

	if a.universeRepo != nil {
		if err := a.universeRepo.Save(ctx, instruments); err != nil {
			a.log.WithError(err).Warn("Universe snapshot save failed")
		}
	}

	fmt.Printf("\n=== 스캔 유니버스 (%d종목) ===\n", len(instruments))
	for _, inst := range instruments {
		fmt.Printf("  %s  %-6s %s\n", inst.Symbol, inst.Market, inst.Name)
	}
	return nil
}
