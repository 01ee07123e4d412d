package strategyconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "strategy.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp yaml: %v", err)
	}
	return path
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writeTempYAML(t, `
meta:
  strategy_id: kscan-test
  version: "2"
strategies:
  livermore:
    min_volume_ratio: 2.0
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Meta.StrategyID != "kscan-test" {
		t.Errorf("expected strategy_id=kscan-test, got %s", cfg.Meta.StrategyID)
	}
	// 명시하지 않은 필드는 기본값 유지
	if cfg.Strategies.Livermore.MinVolumeRatio != 2.0 {
		t.Errorf("expected min_volume_ratio=2.0, got %v", cfg.Strategies.Livermore.MinVolumeRatio)
	}
	if cfg.Strategies.Livermore.BreakoutWindow != 252 {
		t.Errorf("expected breakout_window=252, got %d", cfg.Strategies.Livermore.BreakoutWindow)
	}
	if cfg.Strategies.ONeil.MinRelativeVol != 2.0 {
		t.Errorf("expected default oneil min_relative_vol, got %v", cfg.Strategies.ONeil.MinRelativeVol)
	}
	if cfg.Schedule.Scan == "" {
		t.Error("expected default scan schedule")
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeTempYAML(t, `
meta:
  strategy_id: kscan-test
strategies:
  livermore:
    breakout_widnow: 200
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestValidateDefaults(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{
			name:   "missing strategy id",
			mutate: func(c *Config) { c.Meta.StrategyID = "" },
			field:  "meta.strategy_id",
		},
		{
			name:   "bad market",
			mutate: func(c *Config) { c.Universe.Markets = []string{"NASDAQ"} },
			field:  "universe.markets[0]",
		},
		{
			name:   "bad watchlist symbol",
			mutate: func(c *Config) { c.Universe.Watchlist = []string{"SAMSUNG"} },
			field:  "universe.watchlist[0]",
		},
		{
			name:   "zero volume ratio",
			mutate: func(c *Config) { c.Strategies.Livermore.MinVolumeRatio = 0 },
			field:  "strategies.livermore.min_volume_ratio",
		},
		{
			name:   "range position above one",
			mutate: func(c *Config) { c.Strategies.ONeil.MinRangePosition = 1.5 },
			field:  "strategies.oneil.min_range_position",
		},
		{
			name:   "span not divisible by legs",
			mutate: func(c *Config) { c.Strategies.Minervini.SpanBars = 61 },
			field:  "strategies.minervini.span_bars",
		},
		{
			name:   "tightening ratio above one",
			mutate: func(c *Config) { c.Strategies.Minervini.TighteningRatio = 1.2 },
			field:  "strategies.minervini.tightening_ratio",
		},
		{
			name:   "missing scan schedule",
			mutate: func(c *Config) { c.Schedule.Scan = "" },
			field:  "schedule.scan",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			ve, ok := err.(ValidationError)
			if !ok {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if ve.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, ve.Field)
			}
		})
	}
}
