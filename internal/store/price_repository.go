package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/kscan/internal/contracts"
)

// PriceRepository persists daily bars in Postgres.
// ⭐ SSOT: 일봉 저장소 접근은 여기서만
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a new price repository
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// GetBars retrieves bars for a symbol within a date range, oldest first
func (r *PriceRepository) GetBars(ctx context.Context, symbol string, from, to time.Time) ([]contracts.Bar, error) {
	query := `
		SELECT trade_date, open_price, high_price, low_price, close_price, volume
		FROM daily_bars
		WHERE symbol = $1 AND trade_date BETWEEN $2 AND $3
		ORDER BY trade_date ASC
	`

	rows, err := r.pool.Query(ctx, query, symbol, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars []contracts.Bar
	for rows.Next() {
		var b contracts.Bar
		if err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

// LatestDate returns the most recent stored trade date for a symbol.
// 저장된 봉이 없으면 zero time을 반환한다.
func (r *PriceRepository) LatestDate(ctx context.Context, symbol string) (time.Time, error) {
	query := `
		SELECT trade_date FROM daily_bars
		WHERE symbol = $1
		ORDER BY trade_date DESC
		LIMIT 1
	`

	var date time.Time
	err := r.pool.QueryRow(ctx, query, symbol).Scan(&date)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return date, nil
}

// SaveBars upserts bars for a symbol
func (r *PriceRepository) SaveBars(ctx context.Context, symbol string, bars []contracts.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	query := `
		INSERT INTO daily_bars (symbol, trade_date, open_price, high_price, low_price, close_price, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (symbol, trade_date) DO UPDATE SET
			open_price = EXCLUDED.open_price,
			high_price = EXCLUDED.high_price,
			low_price = EXCLUDED.low_price,
			close_price = EXCLUDED.close_price,
			volume = EXCLUDED.volume
	`

	for _, b := range bars {
		if _, err := r.pool.Exec(ctx, query,
			symbol, b.Date, b.Open, b.High, b.Low, b.Close, b.Volume,
		); err != nil {
			return err
		}
	}
	return nil
}
