// Package prediction pages an analyst's price-target history and
// attaches the accuracy metrics to each forecast.
package prediction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/wonny/analystlens/internal/contracts"
	"github.com/wonny/analystlens/pkg/database"
)

// Repository implements contracts.PredictionStore
// ⭐ SSOT: predictions 테이블 조회는 여기서만
type Repository struct {
	db database.Querier
}

// NewRepository creates a new prediction repository
func NewRepository(db database.Querier) *Repository {
	return &Repository{db: db}
}

const predictionColumns = `
	prediction_id,
	analyst_id,
	company_id,
	COALESCE(ticker, ''),
	COALESCE(cname, ''),
	COALESCE(cusip, ''),
	anndats,
	COALESCE(anntims::text, ''),
	COALESCE(estimid, ''),
	horizon::text,
	value::float8,
	COALESCE(curr, ''),
	COALESCE(alysnam, '')
`

func scanPrediction(row pgx.Row) (*contracts.Prediction, error) {
	var p contracts.Prediction
	var announced *time.Time
	err := row.Scan(
		&p.ID, &p.AnalystID, &p.CompanyID,
		&p.Ticker, &p.CompanyName, &p.CUSIP,
		&announced, &p.AnnouncedTime, &p.EstimatorID,
		&p.Horizon, &p.Value, &p.Currency, &p.AnalystName,
	)
	if err != nil {
		return nil, err
	}
	// NULL anndats stays the zero Date: no forecast window
	if announced != nil {
		p.AnnouncedAt = contracts.NewDate(*announced)
	}
	return &p, nil
}

// GetByID returns one prediction or contracts.ErrNotFound
func (r *Repository) GetByID(ctx context.Context, id int64) (*contracts.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE prediction_id = $1`

	p, err := scanPrediction(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("prediction %d: %w", id, contracts.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get prediction %d: %w", id, err)
	}
	return p, nil
}

// CountByAnalyst returns how many predictions an analyst has made
func (r *Repository) CountByAnalyst(ctx context.Context, analystID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM predictions WHERE analyst_id = $1`, analystID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count predictions for analyst %d: %w", analystID, err)
	}
	return n, nil
}

// PageByAnalyst returns predictions newest first.
// prediction_id breaks ties between same-day announcements.
func (r *Repository) PageByAnalyst(ctx context.Context, analystID int64, offset, limit int) ([]contracts.Prediction, error) {
	query := `SELECT ` + predictionColumns + `
		FROM predictions
		WHERE analyst_id = $1
		ORDER BY anndats DESC, prediction_id DESC
		OFFSET $2 LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, analystID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("page predictions for analyst %d: %w", analystID, err)
	}
	defer rows.Close()

	result := []contracts.Prediction{}
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}
