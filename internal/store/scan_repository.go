package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/kscan/internal/contracts"
)

// ScanRepository persists matched scan signals.
// ⭐ SSOT: 스캔 결과 저장소 접근은 여기서만
type ScanRepository struct {
	pool *pgxpool.Pool
}

// NewScanRepository creates a new scan repository
func NewScanRepository(pool *pgxpool.Pool) *ScanRepository {
	return &ScanRepository{pool: pool}
}

// SaveResultSet persists every matched signal of a scan cycle
func (r *ScanRepository) SaveResultSet(ctx context.Context, result *contracts.ScanResultSet) error {
	query := `
		INSERT INTO scan_signals (symbol, strategy, score, reason_tags, evaluated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, group := range result.Signals {
		for _, sig := range group {
			if _, err := r.pool.Exec(ctx, query,
				sig.Instrument.Symbol, sig.Strategy, sig.Score, sig.ReasonTags, sig.EvaluatedAt,
			); err != nil {
				return err
			}
		}
	}
	return nil
}

// StoredSignal is one persisted scan match joined with instrument metadata
type StoredSignal struct {
	Symbol      string    `json:"symbol"`
	Name        string    `json:"name"`
	Market      string    `json:"market"`
	Strategy    string    `json:"strategy"`
	Score       float64   `json:"score"`
	ReasonTags  []string  `json:"reason_tags"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// LatestSignals returns the matches of the most recent cycle for a strategy,
// highest score first.
func (r *ScanRepository) LatestSignals(ctx context.Context, strategy string, limit int) ([]StoredSignal, error) {
	if limit <= 0 {
		limit = 50
	}

	// 가장 최근 사이클의 시그널만 조회
	query := `
		SELECT s.symbol, COALESCE(i.name, ''), COALESCE(i.market, ''),
		       s.strategy, s.score, s.reason_tags, s.evaluated_at
		FROM scan_signals s
		LEFT JOIN instruments i ON s.symbol = i.symbol
		WHERE s.strategy = $1
		  AND s.evaluated_at = (
			SELECT MAX(evaluated_at) FROM scan_signals WHERE strategy = $1
		  )
		ORDER BY s.score DESC, s.symbol ASC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, strategy, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var signals []StoredSignal
	for rows.Next() {
		var s StoredSignal
		if err := rows.Scan(
			&s.Symbol, &s.Name, &s.Market, &s.Strategy, &s.Score, &s.ReasonTags, &s.EvaluatedAt,
		); err != nil {
			return nil, err
		}
		signals = append(signals, s)
	}
	return signals, rows.Err()
}
