package utils

import (
	"crypto/rand"
	"math/big"
)

// GenerateDigits returns a random numeric string of the given length.
func GenerateDigits(length int) (string, error) {
	return GenerateFromAlphabet("0123456789", length)
}

// GenerateFromAlphabet returns a random string built from the given
// character set.
func GenerateFromAlphabet(alphabet string, length int) (string, error) {
	result := make([]byte, length)
	max := big.NewInt(int64(len(alphabet)))
	for i := range result {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		result[i] = alphabet[n.Int64()]
	}
	return string(result), nil
}

// GenerateOtp returns a 6-digit one-time passcode.
func GenerateOtp() (string, error) {
	return GenerateDigits(6)
}
