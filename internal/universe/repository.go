package universe

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/kscan/internal/contracts"
)

// Repository persists the scan universe in the instruments table
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new universe repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Save upserts instruments. Watchlist 전용 종목은 이름이 비어 있을 수 있어서
// 빈 이름으로 기존 행을 덮어쓰지 않는다.
func (r *Repository) Save(ctx context.Context, instruments []contracts.Instrument) error {
	query := `
		INSERT INTO instruments (symbol, name, market)
		VALUES ($1, $2, $3)
		ON CONFLICT (symbol) DO UPDATE SET
			name = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE instruments.name END,
			market = CASE WHEN EXCLUDED.market <> '' THEN EXCLUDED.market ELSE instruments.market END
	`

	for _, inst := range instruments {
		if _, err := r.pool.Exec(ctx, query, inst.Symbol, inst.Name, string(inst.Market)); err != nil {
			return fmt.Errorf("upsert instrument %s: %w", inst.Symbol, err)
		}
	}
	return nil
}

// GetAll returns every stored instrument, symbol ascending
func (r *Repository) GetAll(ctx context.Context) ([]contracts.Instrument, error) {
	query := `SELECT symbol, name, market FROM instruments ORDER BY symbol ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var instruments []contracts.Instrument
	for rows.Next() {
		var inst contracts.Instrument
		var market string
		if err := rows.Scan(&inst.Symbol, &inst.Name, &market); err != nil {
			return nil, err
		}
		inst.Market = contracts.Market(market)
		instruments = append(instruments, inst)
	}
	return instruments, rows.Err()
}
