package strategyconfig

import (
	"github.com/wonny/kscan/internal/strategy"
)

// Config는 스캐너 전략 파라미터의 전체 설정
type Config struct {
	Meta       Meta       `yaml:"meta" json:"meta"`
	Universe   Universe   `yaml:"universe" json:"universe"`
	Strategies Strategies `yaml:"strategies" json:"strategies"`
	Schedule   Schedule   `yaml:"schedule" json:"schedule"`
}

// Meta 메타 정보
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
	Timezone   string `yaml:"timezone" json:"timezone"`
}

// Universe 스캔 대상 풀
type Universe struct {
	Markets      []string `yaml:"markets" json:"markets"`             // KOSPI, KOSDAQ
	Watchlist    []string `yaml:"watchlist" json:"watchlist"`         // 고정 관심 종목코드
	UseRanking   bool     `yaml:"use_ranking" json:"use_ranking"`     // 시총 상위 종목 자동 편입
	MaxPerMarket int      `yaml:"max_per_market" json:"max_per_market"`
}

// Strategies 평가기별 파라미터
type Strategies struct {
	Livermore strategy.LivermoreParams `yaml:"livermore" json:"livermore"`
	ONeil     strategy.ONeilParams     `yaml:"oneil" json:"oneil"`
	Minervini strategy.MinerviniParams `yaml:"minervini" json:"minervini"`
}

// Schedule 크론 표현식 (초 필드 포함)
type Schedule struct {
	Collect string `yaml:"collect" json:"collect"` // 데이터 수집
	Scan    string `yaml:"scan" json:"scan"`       // 스캔 사이클
}

// Default returns the textbook parameter set used when no YAML is supplied
func Default() *Config {
	return &Config{
		Meta: Meta{
			StrategyID: "kscan-daily",
			Version:    "1",
			Timezone:   "Asia/Seoul",
		},
		Universe: Universe{
			Markets:      []string{"KOSPI", "KOSDAQ"},
			UseRanking:   true,
			MaxPerMarket: 100,
		},
		Strategies: Strategies{
			Livermore: strategy.DefaultLivermoreParams(),
			ONeil:     strategy.DefaultONeilParams(),
			Minervini: strategy.DefaultMinerviniParams(),
		},
		Schedule: Schedule{
			Collect: "0 30 16 * * MON-FRI", // 장 마감 후 수집
			Scan:    "0 0 17 * * MON-FRI",  // 수집 후 스캔
		},
	}
}
