package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrowthPercent(t *testing.T) {
	tests := []struct {
		name     string
		current  int64
		previous int64
		expected float64
	}{
		{"both empty is flat", 0, 0, 0},
		{"growth from nothing", 7, 0, 100},
		{"doubled", 200, 100, 100},
		{"half gained", 150, 100, 50},
		{"half lost", 50, 100, -50},
		{"dropped to nothing", 0, 40, -100},
		{"rounded to one decimal", 1, 3, -66.7},
		{"unchanged", 25, 25, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GrowthPercent(tt.current, tt.previous))
		})
	}
}
