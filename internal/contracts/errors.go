package contracts

import (
	"errors"
	"fmt"
)

// 에러 분류:
//   - ErrInsufficientData: 전략이 요구하는 기간보다 짧은 시리즈. No-Match로 처리되며 에러가 아니다.
//   - ErrDataUnavailable: 시리즈 로드 실패. 해당 종목만 건너뛰고 사이클은 계속된다.
//   - ComputationError: 지표가 정의역을 벗어난 값을 산출. 해당 종목에만 치명적.
var (
	ErrInsufficientData = errors.New("insufficient data")
	ErrDataUnavailable  = errors.New("data unavailable")
)

// ComputationError marks an out-of-domain indicator result
type ComputationError struct {
	Indicator string
	Value     float64
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("computation error: %s produced out-of-domain value %v", e.Indicator, e.Value)
}

// IsInsufficientData reports whether err is an insufficient-data outcome
func IsInsufficientData(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}
