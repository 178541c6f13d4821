package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounterSnapshot(t *testing.T) {
	snapshot := CounterSnapshot{
		Views:    5,
		Likes:    4,
		Comments: 3,
		Shares:   2,
		Clicks:   1,
	}

	assert.Equal(t, int64(15), snapshot.Total())

	expected := map[InteractionType]int64{
		View:    5,
		Like:    4,
		Comment: 3,
		Share:   2,
		Click:   1,
	}
	for _, kind := range InteractionTypes {
		assert.Equal(t, expected[kind], snapshot.Get(kind))
	}
	assert.Equal(t, int64(0), snapshot.Get("UPVOTE"))
}
