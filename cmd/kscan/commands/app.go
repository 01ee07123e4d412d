package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wonny/kscan/internal/collect"
	"github.com/wonny/kscan/internal/dashboard"
	"github.com/wonny/kscan/internal/external/naver"
	"github.com/wonny/kscan/internal/provider"
	"github.com/wonny/kscan/internal/regime"
	"github.com/wonny/kscan/internal/scan"
	"github.com/wonny/kscan/internal/store"
	"github.com/wonny/kscan/internal/strategy"
	"github.com/wonny/kscan/internal/strategyconfig"
	"github.com/wonny/kscan/internal/universe"
	"github.com/wonny/kscan/pkg/config"
	"github.com/wonny/kscan/pkg/database"
	"github.com/wonny/kscan/pkg/httputil"
	"github.com/wonny/kscan/pkg/logger"
	"github.com/wonny/kscan/pkg/metrics"
	"github.com/wonny/kscan/pkg/redis"
)

// app holds the shared wiring for every command
type app struct {
	cfg         *config.Config
	strategyCfg *strategyconfig.Config
	log         *logger.Logger
	metrics     *metrics.Metrics

	db    *database.DB // nil이면 저장소 없이 동작
	naver *naver.Client
	cache *redis.Cache

	builder   *universe.Builder
	provider  *provider.ChainProvider
	collector *collect.Collector

	universeRepo *universe.Repository
	priceRepo    *store.PriceRepository
	scanRepo     *store.ScanRepository
}

// newApp loads configuration and wires the shared components.
// requireDB가 false면 DB 연결 실패 시 저장 계층 없이 계속한다.
func newApp(requireDB bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	strategyPath := strategyFile
	if strategyPath == "" {
		strategyPath = cfg.Scan.StrategyFile
	}
	strategyCfg := strategyconfig.Default()
	if _, err := os.Stat(strategyPath); err == nil {
		strategyCfg, err = strategyconfig.Load(strategyPath)
		if err != nil {
			return nil, fmt.Errorf("load strategy config %s: %w", strategyPath, err)
		}
		log.WithField("path", strategyPath).Info("Loaded strategy config")
	} else {
		log.WithField("path", strategyPath).Warn("Strategy file not found, using defaults")
	}

	a := &app{
		cfg:         cfg,
		strategyCfg: strategyCfg,
		log:         log,
		metrics:     metrics.New(prometheus.DefaultRegisterer),
	}

	// 외부 클라이언트
	httpClient := httputil.New(log, cfg.Naver.RatePerSec)
	a.naver = naver.NewClient(httpClient, log, cfg.Naver)

	// DB 연결. 스캔 자체는 DB 없이도 가능하다.
	db, err := database.New(cfg)
	if err != nil {
		if requireDB {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		log.WithError(err).Warn("Database unavailable, running without persistence")
	} else {
		if err := db.EnsureSchema(context.Background()); err != nil {
			db.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		a.db = db
		a.universeRepo = universe.NewRepository(db.Pool)
		a.priceRepo = store.NewPriceRepository(db.Pool)
		a.scanRepo = store.NewScanRepository(db.Pool)
	}

	// Redis 캐시. 연결 불가면 비활성 클라이언트로 동작한다.
	redisClient, err := redis.New(cfg, log)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, cache disabled")
	} else {
		a.cache = redis.NewCache(redisClient, "kscan")
	}

	a.builder = universe.NewBuilder(a.naver, strategyCfg.Universe, log)

	var barStore provider.BarStore
	if a.priceRepo != nil {
		barStore = a.priceRepo
	}
	a.provider = provider.NewChainProvider(a.cache, barStore, a.naver, log, a.metrics)

	var collectStore collect.BarStore
	if a.priceRepo != nil {
		collectStore = a.priceRepo
	}
	a.collector = collect.NewCollector(a.naver, collectStore, log, a.metrics)

	return a, nil
}

// close releases held resources
func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
}

// evaluators builds the three strategy evaluators from config
func (a *app) evaluators() []strategy.Evaluator {
	return []strategy.Evaluator{
		strategy.NewLivermore(a.strategyCfg.Strategies.Livermore, a.log),
		strategy.NewONeil(a.strategyCfg.Strategies.ONeil, a.log),
		strategy.NewMinervini(a.strategyCfg.Strategies.Minervini, a.log),
	}
}

// pipeline assembles the full scan pipeline
func (a *app) pipeline() *scan.Pipeline {
	orchestrator := scan.NewOrchestrator(
		a.provider,
		regime.NewClassifier(a.log),
		a.evaluators(),
		scan.Config{
			LookbackDays: a.cfg.Scan.LookbackDays,
			Workers:      a.cfg.Scan.Workers,
		},
		a.log,
		a.metrics,
	)

	var universeSink scan.UniverseSink
	if a.universeRepo != nil {
		universeSink = a.universeRepo
	}
	var signalSink scan.SignalSink
	if a.scanRepo != nil {
		signalSink = a.scanRepo
	}

	return scan.NewPipeline(
		a.builder,
		universeSink,
		orchestrator,
		a.provider,
		signalSink,
		dashboard.NewWriter(a.cfg.Scan.OutputDir, a.log),
		scan.PipelineConfig{
			IndexSymbol:  a.cfg.Scan.IndexSymbol,
			LookbackDays: a.cfg.Scan.LookbackDays,
		},
		a.log,
	)
}
