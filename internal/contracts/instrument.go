package contracts

// Market identifies the listing exchange
type Market string

const (
	MarketKOSPI  Market = "KOSPI"
	MarketKOSDAQ Market = "KOSDAQ"
)

// Instrument is the static identity of a tradable stock
type Instrument struct {
	Symbol string `json:"symbol"` // 종목코드 (예: 005930)
	Name   string `json:"name"`   // 종목명
	Market Market `json:"market"`
}
