package prediction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nullDateRow fills a predictions row whose anndats is NULL (or set)
type nullDateRow struct {
	announced *time.Time
}

func (r nullDateRow) Scan(dest ...any) error {
	*dest[0].(*int64) = 7
	*dest[1].(*int64) = 1
	*dest[3].(*string) = "AAPL"
	*dest[6].(**time.Time) = r.announced
	*dest[10].(*float64) = 150
	return nil
}

func TestScanPrediction_NullAnnouncementDate(t *testing.T) {
	p, err := scanPrediction(nullDateRow{})
	require.NoError(t, err)

	assert.Equal(t, int64(7), p.ID)
	assert.True(t, p.AnnouncedAt.IsZero())
	assert.Equal(t, "", p.AnnouncedAt.String())
}

func TestScanPrediction_TruncatesAnnouncementDate(t *testing.T) {
	ts := time.Date(2023, 3, 15, 21, 5, 0, 0, time.UTC)

	p, err := scanPrediction(nullDateRow{announced: &ts})
	require.NoError(t, err)
	assert.Equal(t, "2023-03-15", p.AnnouncedAt.String())
}
