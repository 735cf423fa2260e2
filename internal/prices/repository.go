// Package prices resolves the daily closing prices that bracket a forecast window.
package prices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/wonny/analystlens/internal/contracts"
	"github.com/wonny/analystlens/pkg/database"
)

// Repository implements contracts.PriceLookup on security_prices
// ⭐ SSOT: 가격 조회 SQL은 여기서만
type Repository struct {
	db database.Querier
}

// NewRepository creates a new price repository
func NewRepository(db database.Querier) *Repository {
	return &Repository{db: db}
}

const firstOnOrAfterQuery = `
	SELECT ticker, date, prc::float8
	FROM security_prices
	WHERE ticker = $1 AND date >= $2
	ORDER BY date ASC
	LIMIT 1
`

const lastOnOrBeforeQuery = `
	SELECT ticker, date, prc::float8
	FROM security_prices
	WHERE ticker = $1 AND date <= $2
	ORDER BY date DESC
	LIMIT 1
`

// FirstOnOrAfter returns the earliest price dated on or after date
func (r *Repository) FirstOnOrAfter(ctx context.Context, ticker string, date time.Time) (*contracts.PricePoint, error) {
	p, err := r.one(ctx, firstOnOrAfterQuery, ticker, date)
	if err != nil {
		return nil, fmt.Errorf("first price on or after %s for %s: %w", date.Format(contracts.DateLayout), ticker, err)
	}
	return p, nil
}

// LastOnOrBefore returns the latest price dated on or before date
func (r *Repository) LastOnOrBefore(ctx context.Context, ticker string, date time.Time) (*contracts.PricePoint, error) {
	p, err := r.one(ctx, lastOnOrBeforeQuery, ticker, date)
	if err != nil {
		return nil, fmt.Errorf("last price on or before %s for %s: %w", date.Format(contracts.DateLayout), ticker, err)
	}
	return p, nil
}

func (r *Repository) one(ctx context.Context, query, ticker string, date time.Time) (*contracts.PricePoint, error) {
	var (
		p     contracts.PricePoint
		price *float64
	)

	err := r.db.QueryRow(ctx, query, ticker, contracts.NewDate(date).Time).Scan(&p.Ticker, &p.Date, &price)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	// a row with no recorded price is as good as no row
	if price == nil {
		return nil, nil
	}
	p.Price = *price
	return &p, nil
}
