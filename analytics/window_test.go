package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWindow(t *testing.T) {
	window, err := ParseWindow("monthly", "2026-08")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), window.Start)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), window.End)
}

func TestParseWindowDecember(t *testing.T) {
	window, err := ParseWindow("monthly", "2025-12")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), window.End)
}

func TestParseWindowInvalid(t *testing.T) {
	_, err := ParseWindow("weekly", "2026-08")
	assert.Error(t, err)

	_, err = ParseWindow("monthly", "2026-13")
	assert.Error(t, err)

	_, err = ParseWindow("monthly", "August 2026")
	assert.Error(t, err)
}

func TestWindowPrevious(t *testing.T) {
	window, err := ParseWindow("monthly", "2026-01")
	require.NoError(t, err)

	previous := window.Previous()
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), previous.Start)
	assert.Equal(t, window.Start, previous.End)
}

func TestWindowIsZero(t *testing.T) {
	assert.True(t, Window{}.IsZero())

	window, err := ParseWindow("monthly", "2026-08")
	require.NoError(t, err)
	assert.False(t, window.IsZero())
}
