// Package earnings reads the questions analysts asked on earnings calls
// and shapes them into LLM context.
package earnings

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/wonny/analystlens/internal/contracts"
	"github.com/wonny/analystlens/pkg/database"
)

// Repository implements contracts.EarningsStore
// ⭐ SSOT: earnings_questions 조회는 여기서만
type Repository struct {
	db database.Querier
}

// NewRepository creates a new earnings repository
func NewRepository(db database.Querier) *Repository {
	return &Repository{db: db}
}

const questionColumns = `
	question_id,
	analyst_id,
	company_id,
	COALESCE(ticker, ''),
	mostimportantdateutc,
	COALESCE(full_name, ''),
	COALESCE(componenttextpreview, ''),
	word_count::int
`

// newest first; undated questions sink to the end
const questionOrder = `ORDER BY mostimportantdateutc DESC NULLS LAST, question_id DESC`

func scanQuestions(rows pgx.Rows) ([]contracts.EarningsQuestion, error) {
	defer rows.Close()

	result := []contracts.EarningsQuestion{}
	for rows.Next() {
		var q contracts.EarningsQuestion
		if err := rows.Scan(
			&q.ID, &q.AnalystID, &q.CompanyID, &q.Ticker,
			&q.AskedAt, &q.FullName, &q.Text, &q.WordCount,
		); err != nil {
			return nil, fmt.Errorf("scan earnings question: %w", err)
		}
		result = append(result, q)
	}
	return result, rows.Err()
}

// CountByAnalyst returns how many questions an analyst has asked
func (r *Repository) CountByAnalyst(ctx context.Context, analystID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM earnings_questions WHERE analyst_id = $1`, analystID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count questions for analyst %d: %w", analystID, err)
	}
	return n, nil
}

// PageByAnalyst returns one window of questions, newest first
func (r *Repository) PageByAnalyst(ctx context.Context, analystID int64, offset, limit int) ([]contracts.EarningsQuestion, error) {
	query := `SELECT ` + questionColumns + `
		FROM earnings_questions
		WHERE analyst_id = $1
		` + questionOrder + `
		OFFSET $2 LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, analystID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("page questions for analyst %d: %w", analystID, err)
	}
	return scanQuestions(rows)
}

// AllByAnalyst returns every question, newest first
func (r *Repository) AllByAnalyst(ctx context.Context, analystID int64) ([]contracts.EarningsQuestion, error) {
	query := `SELECT ` + questionColumns + `
		FROM earnings_questions
		WHERE analyst_id = $1
		` + questionOrder

	rows, err := r.db.Query(ctx, query, analystID)
	if err != nil {
		return nil, fmt.Errorf("list questions for analyst %d: %w", analystID, err)
	}
	return scanQuestions(rows)
}
