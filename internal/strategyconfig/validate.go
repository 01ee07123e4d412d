package strategyconfig

import (
	"fmt"
	"regexp"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var symbolRe = regexp.MustCompile(`^\d{6}$`)

// Validate checks all required constraints.
// 실패 시 error 반환 (프로그램 중단)
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}

	// === Universe ===
	if len(cfg.Universe.Markets) == 0 && len(cfg.Universe.Watchlist) == 0 {
		return ValidationError{"universe", "markets or watchlist required"}
	}
	for i, m := range cfg.Universe.Markets {
		if m != "KOSPI" && m != "KOSDAQ" {
			return ValidationError{
				Field:   fmt.Sprintf("universe.markets[%d]", i),
				Message: fmt.Sprintf("must be KOSPI or KOSDAQ, got %q", m),
			}
		}
	}
	for i, sym := range cfg.Universe.Watchlist {
		if !symbolRe.MatchString(sym) {
			return ValidationError{
				Field:   fmt.Sprintf("universe.watchlist[%d]", i),
				Message: fmt.Sprintf("must be a 6-digit code, got %q", sym),
			}
		}
	}
	if cfg.Universe.UseRanking && cfg.Universe.MaxPerMarket <= 0 {
		return ValidationError{"universe.max_per_market", "must be > 0 when use_ranking is set"}
	}

	// === Livermore ===
	lv := cfg.Strategies.Livermore
	if lv.BreakoutWindow < 2 {
		return ValidationError{"strategies.livermore.breakout_window", "must be >= 2"}
	}
	if lv.VolumeWindow < 1 {
		return ValidationError{"strategies.livermore.volume_window", "must be >= 1"}
	}
	if lv.MinVolumeRatio <= 0 {
		return ValidationError{"strategies.livermore.min_volume_ratio", "must be > 0"}
	}

	// === O'Neil ===
	on := cfg.Strategies.ONeil
	if on.VolumeWindow < 1 {
		return ValidationError{"strategies.oneil.volume_window", "must be >= 1"}
	}
	if on.MinRelativeVol <= 0 {
		return ValidationError{"strategies.oneil.min_relative_vol", "must be > 0"}
	}
	if on.RangeWindow < 2 {
		return ValidationError{"strategies.oneil.range_window", "must be >= 2"}
	}
	if on.MinRangePosition < 0 || on.MinRangePosition > 1 {
		return ValidationError{"strategies.oneil.min_range_position", "must be in range [0, 1]"}
	}
	if on.ScoreCeiling <= 0 {
		return ValidationError{"strategies.oneil.score_ceiling", "must be > 0"}
	}

	// === Minervini ===
	mv := cfg.Strategies.Minervini
	if mv.Legs < 2 {
		return ValidationError{"strategies.minervini.legs", "must be >= 2"}
	}
	if mv.SpanBars < mv.Legs*2 {
		return ValidationError{"strategies.minervini.span_bars", fmt.Sprintf("must be >= 2*legs=%d", mv.Legs*2)}
	}
	if mv.SpanBars%mv.Legs != 0 {
		return ValidationError{"strategies.minervini.span_bars", fmt.Sprintf("must be divisible by legs=%d", mv.Legs)}
	}
	if mv.TighteningRatio <= 0 || mv.TighteningRatio >= 1 {
		return ValidationError{"strategies.minervini.tightening_ratio", "must be in range (0, 1)"}
	}
	if mv.HighWindow < 2 {
		return ValidationError{"strategies.minervini.high_window", "must be >= 2"}
	}
	if mv.MaxDistFromHigh <= 0 || mv.MaxDistFromHigh > 1 {
		return ValidationError{"strategies.minervini.max_dist_from_high", "must be in range (0, 1]"}
	}
	if mv.VolumeWindow < 1 {
		return ValidationError{"strategies.minervini.volume_window", "must be >= 1"}
	}

	// === Schedule ===
	if cfg.Schedule.Collect == "" {
		return ValidationError{"schedule.collect", "required"}
	}
	if cfg.Schedule.Scan == "" {
		return ValidationError{"schedule.scan", "required"}
	}

	return nil
}
