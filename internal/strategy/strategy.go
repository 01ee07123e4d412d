// Package strategy implements the three entry-signal evaluators.
// 각 평가기는 일봉 시리즈와 시장 레짐을 받아 Match/No-Match와 랭킹 점수를 낸다.
package strategy

import (
	"time"

	"github.com/wonny/kscan/internal/contracts"
)

// Strategy names as they appear in result sets and persisted signals
const (
	NameLivermore = "livermore"
	NameONeil     = "oneil"
	NameMinervini = "minervini"
)

// Reason tags shared across evaluators
const (
	ReasonInsufficientHistory = "insufficient-history"
)

// Evaluator decides whether an instrument currently matches a strategy's
// entry criteria. 구현은 순수 함수여야 한다: 공유 상태 변경 금지.
type Evaluator interface {
	Name() string

	// Evaluate returns a signal for the instrument. A series shorter than the
	// strategy's window yields No-Match with reason "insufficient-history".
	// 에러는 지표가 정의역을 벗어난 경우에만 반환한다.
	Evaluate(inst contracts.Instrument, series *contracts.BarSeries, regime contracts.MarketRegime, now time.Time) (contracts.Signal, error)
}
