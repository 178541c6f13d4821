package storage

import (
	"crypto/rand"
	"fmt"
)

// 64 symbols so 8 characters carry 48 bits of entropy, matching the share
// links the web client has always produced.
const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

const shareTokenLength = 8

// maxShareTokenLength bounds caller-supplied token candidates.
const maxShareTokenLength = 64

// GenerateShareToken returns a new random share token.
func GenerateShareToken() (string, error) {
	buf := make([]byte, shareTokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate share token: %w", err)
	}
	for i, b := range buf {
		buf[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return string(buf), nil
}
