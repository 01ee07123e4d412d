package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/kscan/internal/contracts"
	"github.com/wonny/kscan/pkg/logger"
	"github.com/wonny/kscan/pkg/metrics"
	"github.com/wonny/kscan/pkg/redis"
)

// Fetcher pulls daily bars from the remote source
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, from, to time.Time) ([]contracts.Bar, error)
}

// BarStore reads and writes persisted daily bars
type BarStore interface {
	GetBars(ctx context.Context, symbol string, from, to time.Time) ([]contracts.Bar, error)
	SaveBars(ctx context.Context, symbol string, bars []contracts.Bar) error
}

// ChainProvider resolves bar history through cache, store, then remote fetch.
// ⭐ SSOT: 스캔 엔진의 일봉 공급은 여기서만
type ChainProvider struct {
	cache   *redis.Cache // nil이면 캐시 생략
	store   BarStore     // nil이면 저장소 생략
	fetcher Fetcher
	logger  *logger.Logger
	metrics *metrics.Metrics

	// 달력일 환산 여유. 거래일 N개를 얻으려면 더 긴 달력 구간이 필요하다.
	calendarFactor float64

	now func() time.Time
}

// NewChainProvider creates the layered bar provider.
// cache와 store는 nil일 수 있고, fetcher는 필수다.
func NewChainProvider(cache *redis.Cache, store BarStore, fetcher Fetcher, log *logger.Logger, m *metrics.Metrics) *ChainProvider {
	return &ChainProvider{
		cache:          cache,
		store:          store,
		fetcher:        fetcher,
		logger:         log,
		metrics:        m,
		calendarFactor: 1.55,
		now:            time.Now,
	}
}

// GetBars returns a validated bar series with at least the requested
// trading-day coverage where the sources allow. Every source exhausted
// means contracts.ErrDataUnavailable.
func (p *ChainProvider) GetBars(ctx context.Context, symbol string, lookbackDays int) (*contracts.BarSeries, error) {
	from, to := p.window(lookbackDays)
	cacheKey := fmt.Sprintf("bars:%s:%d:%s", symbol, lookbackDays, to.Format("2006-01-02"))

	// 1. Redis 캐시
	if p.cache != nil {
		var cached []contracts.Bar
		hit, err := p.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			p.logger.WithError(err).WithField("symbol", symbol).Warn("Bar cache read failed")
		}
		if hit && len(cached) > 0 {
			if series, err := contracts.NewBarSeries(cached); err == nil {
				return series, nil
			}
			// 손상된 캐시는 무시하고 다음 계층으로
			p.logger.WithField("symbol", symbol).Warn("Discarding invalid cached bars")
		}
	}

	// 2. Postgres 저장소
	if p.store != nil {
		bars, err := p.store.GetBars(ctx, symbol, from, to)
		if err != nil {
			p.logger.WithError(err).WithField("symbol", symbol).Warn("Bar store read failed")
		} else if p.fresh(bars, to) {
			series, err := contracts.NewBarSeries(bars)
			if err == nil {
				p.cacheBars(ctx, cacheKey, bars)
				return series, nil
			}
			p.logger.WithError(err).WithField("symbol", symbol).Warn("Stored bars failed validation")
		}
	}

	// 3. 원격 조회
	bars, err := p.fetcher.FetchDailyBars(ctx, symbol, from, to)
	if err != nil {
		if p.metrics != nil {
			p.metrics.FetchErrors.WithLabelValues("naver").Inc()
		}
		return nil, fmt.Errorf("%w: fetch %s: %v", contracts.ErrDataUnavailable, symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: no bars for %s", contracts.ErrDataUnavailable, symbol)
	}

	series, err := contracts.NewBarSeries(bars)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid bars for %s: %v", contracts.ErrDataUnavailable, symbol, err)
	}

	if p.store != nil {
		if err := p.store.SaveBars(ctx, symbol, bars); err != nil {
			p.logger.WithError(err).WithField("symbol", symbol).Warn("Bar store write failed")
		}
	}
	p.cacheBars(ctx, cacheKey, bars)

	return series, nil
}

// window converts a trading-day lookback into a calendar date range
func (p *ChainProvider) window(lookbackDays int) (time.Time, time.Time) {
	to := p.now().Truncate(24 * time.Hour)
	calendarDays := int(float64(lookbackDays) * p.calendarFactor)
	from := to.AddDate(0, 0, -calendarDays)
	return from, to
}

// fresh reports whether stored bars are recent enough to serve without
// refetching. 주말과 공휴일을 감안해 마지막 봉이 4일 이내면 최신으로 본다.
func (p *ChainProvider) fresh(bars []contracts.Bar, to time.Time) bool {
	if len(bars) == 0 {
		return false
	}
	last := bars[len(bars)-1].Date
	return to.Sub(last) <= 4*24*time.Hour
}

func (p *ChainProvider) cacheBars(ctx context.Context, key string, bars []contracts.Bar) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Set(ctx, key, bars, redis.TTLBars); err != nil {
		p.logger.WithError(err).Warn("Bar cache write failed")
	}
}
