package contracts

// Trend is the broad market direction
type Trend string

const (
	TrendBullish Trend = "BULLISH"
	TrendBearish Trend = "BEARISH"
	TrendNeutral Trend = "NEUTRAL"
)

// MarketRegime classifies the overall index state for one scan cycle.
// 매 사이클 지수 시리즈에서 새로 계산되며 상태를 유지하지 않는다.
type MarketRegime struct {
	Trend      Trend   `json:"trend"`
	RSI        float64 `json:"rsi"`
	Overbought bool    `json:"overbought"` // RSI(14) >= 70
	Oversold   bool    `json:"oversold"`   // RSI(14) <= 30
}
