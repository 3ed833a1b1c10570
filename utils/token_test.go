package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateInviteCode(t *testing.T) {
	re := regexp.MustCompile(`^[0-9a-z]{8}$`)
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		code := GenerateInviteCode()
		assert.Regexp(t, re, code)
		seen[code] = true
	}
	// 36^8 codes; 200 draws should not collide
	assert.Len(t, seen, 200)
}

func TestGenerateNumericCode(t *testing.T) {
	assert.Regexp(t, `^[0-9]{6}$`, GenerateNumericCode(6))
}

func TestGenerateRandomToken(t *testing.T) {
	tok := GenerateRandomToken(12)
	assert.Len(t, tok, 12)
	assert.Regexp(t, `^[A-Za-z0-9]+$`, tok)
}
