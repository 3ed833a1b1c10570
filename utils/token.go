package utils

import (
	"crypto/rand"
	"math/big"
)

const (
	alnumCharset  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	base36Charset = "0123456789abcdefghijklmnopqrstuvwxyz"
	digitCharset  = "0123456789"

	InviteCodeLength = 8
)

func randomFrom(charset string, length int) string {
	max := big.NewInt(int64(len(charset)))
	token := make([]byte, length)
	for i := range token {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("crypto/rand unavailable: " + err.Error())
		}
		token[i] = charset[n.Int64()]
	}
	return string(token)
}

func GenerateRandomToken(length int) string {
	return randomFrom(alnumCharset, length)
}

// GenerateInviteCode returns a short lowercase base-36 team code.
func GenerateInviteCode() string {
	return randomFrom(base36Charset, InviteCodeLength)
}

func GenerateNumericCode(length int) string {
	return randomFrom(digitCharset, length)
}
