package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "AAPL", truncate("AAPL", 6))
	assert.Equal(t, "Apple…", truncate("Apple Inc", 6))
	assert.Equal(t, "한국…", truncate("한국전력공사", 3))
	assert.Equal(t, "A", truncate("AB", 1))
}

func TestMaskPassword(t *testing.T) {
	assert.Equal(t, "postgresql://user:***@db:5432/analysts", maskPassword("postgresql://user:secret@db:5432/analysts"))
	assert.Equal(t, "postgresql://db:5432/analysts", maskPassword("postgresql://db:5432/analysts"))
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"0", "-1", "abc", ""} {
		_, err := parseID(bad)
		assert.Error(t, err, bad)
	}
}
