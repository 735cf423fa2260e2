package analyst

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/analystlens/internal/contracts"
	"github.com/wonny/analystlens/pkg/config"
	"github.com/wonny/analystlens/pkg/database"
)

// recordingDB captures SQL and answers every row lookup with no rows
type recordingDB struct {
	queries []string
}

type noRow struct{}

func (noRow) Scan(...any) error { return pgx.ErrNoRows }

func (d *recordingDB) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	d.queries = append(d.queries, sql)
	return nil, errors.New("query not supported")
}

func (d *recordingDB) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	d.queries = append(d.queries, sql)
	return noRow{}
}

func (d *recordingDB) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	d.queries = append(d.queries, sql)
	return pgconn.CommandTag{}, nil
}

func TestRepository_QuotesMixedCaseLinkedinColumn(t *testing.T) {
	db := &recordingDB{}
	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, 1)
	assert.ErrorIs(t, err, contracts.ErrNotFound)
	_, _ = repo.GetLinkedIn(ctx, 1)
	_, _ = repo.AtOffset(ctx, 0)
	_, _ = repo.Search(ctx, "smith", 10)

	require.Len(t, db.queries, 4)
	for _, q := range db.queries {
		assert.Contains(t, q, `"Linkedin"`)
		assert.NotContains(t, q, "(linkedin,")
	}
}

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	if testing.Short() || os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	cfg, err := config.Load()
	require.NoError(t, err)

	db, err := database.New(cfg)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

func TestRepository_DirectoryQueries(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db.Pool)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	if n == 0 {
		t.Skip("analysts table is empty")
	}

	first, err := repo.AtOffset(ctx, 0)
	require.NoError(t, err)
	require.NotNil(t, first)

	byID, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, byID.ID)

	_, err = repo.GetLinkedIn(ctx, first.ID)
	require.NoError(t, err)

	past, err := repo.AtOffset(ctx, n)
	require.NoError(t, err)
	assert.Nil(t, past)
}

func TestRepository_UnknownAnalyst(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db.Pool)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := repo.GetByID(ctx, -1)
	assert.ErrorIs(t, err, contracts.ErrNotFound)

	li, err := repo.GetLinkedIn(ctx, -1)
	require.NoError(t, err)
	assert.Nil(t, li)
}
