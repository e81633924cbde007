// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
)

const (
	alphanumericCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	base36UpperCharset  = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

func randomFromCharset(charset string, length int) (string, error) {
	b := make([]byte, length)
	max := big.NewInt(int64(len(charset)))

	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = charset[n.Int64()]
	}

	return string(b), nil
}

func GenerateRandomString(length int) (string, error) {
	return randomFromCharset(alphanumericCharset, length)
}

// GenerateBase36 returns length random characters drawn from 0-9A-Z.
func GenerateBase36(length int) (string, error) {
	return randomFromCharset(base36UpperCharset, length)
}

func GenerateResetToken() (string, error) {
	return GenerateRandomString(32)
}

func HashString(input string) string {
	hasher := sha256.New()
	hasher.Write([]byte(input))
	return hex.EncodeToString(hasher.Sum(nil))
}
