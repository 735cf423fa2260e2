// Package analyst reads the analyst directory and its LinkedIn profiles.
package analyst

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/wonny/analystlens/internal/contracts"
	"github.com/wonny/analystlens/pkg/database"
)

// Repository implements contracts.AnalystStore
// ⭐ SSOT: analysts / linkedin_info 조회는 여기서만
type Repository struct {
	db database.Querier
}

// NewRepository creates a new analyst repository
func NewRepository(db database.Querier) *Repository {
	return &Repository{db: db}
}

// The profile URL column was created mixed-case upstream and must stay quoted.
const analystColumns = `
	analyst_id,
	COALESCE(first_initial, ''),
	COALESCE(last_name, ''),
	COALESCE(first_initial_last_name, ''),
	COALESCE(full_name, ''),
	COALESCE("Linkedin", '')
`

func scanAnalyst(row pgx.Row) (*contracts.Analyst, error) {
	var a contracts.Analyst
	err := row.Scan(&a.ID, &a.FirstInitial, &a.LastName, &a.FirstInitialLastName, &a.FullName, &a.LinkedInURL)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByID returns one analyst or contracts.ErrNotFound
func (r *Repository) GetByID(ctx context.Context, id int64) (*contracts.Analyst, error) {
	query := `SELECT ` + analystColumns + ` FROM analysts WHERE analyst_id = $1`

	a, err := scanAnalyst(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("analyst %d: %w", id, contracts.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get analyst %d: %w", id, err)
	}
	return a, nil
}

// GetLinkedIn returns the scraped profile, or (nil, nil) when there is none
func (r *Repository) GetLinkedIn(ctx context.Context, id int64) (*contracts.LinkedInInfo, error) {
	query := `
		SELECT
			analyst_id,
			COALESCE(full_name, ''),
			COALESCE(city, ''),
			COALESCE(country_code, ''),
			COALESCE(about, ''),
			COALESCE(current_company_name, ''),
			COALESCE(experience::text, ''),
			COALESCE("Linkedin", ''),
			COALESCE(educations_details::text, ''),
			COALESCE(languages::text, ''),
			COALESCE(certifications::text, ''),
			COALESCE(recommendations::text, ''),
			followers::int,
			connections::int,
			COALESCE(activity::text, ''),
			COALESCE(honors_and_awards::text, ''),
			COALESCE(default_avatar::text, '')
		FROM linkedin_info
		WHERE analyst_id = $1
		LIMIT 1
	`

	var li contracts.LinkedInInfo
	err := r.db.QueryRow(ctx, query, id).Scan(
		&li.AnalystID, &li.FullName, &li.City, &li.CountryCode, &li.About,
		&li.CurrentCompanyName, &li.Experience, &li.LinkedInURL, &li.EducationsDetails,
		&li.Languages, &li.Certifications, &li.Recommendations,
		&li.Followers, &li.Connections,
		&li.Activity, &li.HonorsAndAwards, &li.DefaultAvatar,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get linkedin for analyst %d: %w", id, err)
	}
	return &li, nil
}

// Search matches full_name case-insensitively anywhere in the name.
// Callers enforce the minimum term length; see Service.Search.
func (r *Repository) Search(ctx context.Context, term string, limit int) ([]contracts.Analyst, error) {
	query := `SELECT ` + analystColumns + `
		FROM analysts
		WHERE full_name ILIKE '%' || $1 || '%' ESCAPE '\'
		ORDER BY full_name
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, escapeLike(term), limit)
	if err != nil {
		return nil, fmt.Errorf("search analysts %q: %w", term, err)
	}
	defer rows.Close()

	result := []contracts.Analyst{}
	for rows.Next() {
		a, err := scanAnalyst(rows)
		if err != nil {
			return nil, fmt.Errorf("scan analyst: %w", err)
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

// Count returns the directory size
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM analysts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count analysts: %w", err)
	}
	return n, nil
}

// AtOffset returns the analyst at a stable position, or (nil, nil) past the end
func (r *Repository) AtOffset(ctx context.Context, offset int) (*contracts.Analyst, error) {
	query := `SELECT ` + analystColumns + ` FROM analysts ORDER BY analyst_id OFFSET $1 LIMIT 1`

	a, err := scanAnalyst(r.db.QueryRow(ctx, query, offset))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("analyst at offset %d: %w", offset, err)
	}
	return a, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside ILIKE
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
