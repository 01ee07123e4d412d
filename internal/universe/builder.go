package universe

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	"github.com/wonny/kscan/internal/contracts"
	"github.com/wonny/kscan/internal/strategyconfig"
	"github.com/wonny/kscan/pkg/logger"
)

// SPAC 판별을 위한 정규식 패턴
var spacPattern = regexp.MustCompile(`(?i)(스팩|SPAC|스펙|제\d+호)`)

// Lister provides instruments for a market in ranking order
type Lister interface {
	FetchListing(ctx context.Context, market contracts.Market, limit int) ([]contracts.Instrument, error)
}

// Builder constructs the scan universe from the configured watchlist and
// the market-cap listing of each configured market.
type Builder struct {
	lister Lister
	cfg    strategyconfig.Universe
	logger *logger.Logger
}

// NewBuilder creates a new universe builder
func NewBuilder(lister Lister, cfg strategyconfig.Universe, log *logger.Logger) *Builder {
	return &Builder{
		lister: lister,
		cfg:    cfg,
		logger: log,
	}
}

// Build constructs the deduplicated scan universe.
// ⭐ SSOT: 스캔 대상 종목 결정은 여기서만
func (b *Builder) Build(ctx context.Context) ([]contracts.Instrument, error) {
	seen := make(map[string]bool)
	var instruments []contracts.Instrument

	add := func(inst contracts.Instrument) {
		if seen[inst.Symbol] {
			return
		}
		if spacPattern.MatchString(inst.Name) {
			b.logger.WithField("symbol", inst.Symbol).Debug("Excluded SPAC from universe")
			return
		}
		seen[inst.Symbol] = true
		instruments = append(instruments, inst)
	}

	// 시총 상위 종목 자동 편입
	if b.cfg.UseRanking {
		for _, marketName := range b.cfg.Markets {
			market := contracts.Market(marketName)
			listing, err := b.lister.FetchListing(ctx, market, b.cfg.MaxPerMarket)
			if err != nil {
				return nil, fmt.Errorf("fetch %s listing: %w", market, err)
			}
			for _, inst := range listing {
				add(inst)
			}
		}
	}

	// 고정 관심 종목. 목록에 이미 있으면 중복 제거된다.
	for _, symbol := range b.cfg.Watchlist {
		add(contracts.Instrument{Symbol: symbol})
	}

	sort.Slice(instruments, func(i, j int) bool {
		return instruments[i].Symbol < instruments[j].Symbol
	})

	b.logger.WithFields(map[string]interface{}{
		"count":   len(instruments),
		"markets": b.cfg.Markets,
	}).Info("Built scan universe")
	return instruments, nil
}
