package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateShareToken(t *testing.T) {
	token, err := GenerateShareToken()
	require.NoError(t, err)

	assert.Len(t, token, shareTokenLength)
	for _, symbol := range token {
		assert.True(
			t,
			strings.ContainsRune(tokenAlphabet, symbol),
			"unexpected symbol %q in token %q", symbol, token,
		)
	}
}

func TestGenerateShareTokenUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		token, err := GenerateShareToken()
		require.NoError(t, err)
		require.False(t, seen[token], "duplicate token %q", token)
		seen[token] = true
	}
}
