package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// NormalizeEmail is the single place where the email comparison policy lives:
// surrounding whitespace is dropped and the address is lowercased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RandomIntInRange returns a uniformly distributed integer in [min, max].
func RandomIntInRange(min, max int64) (int64, error) {
	if max < min {
		return 0, fmt.Errorf("invalid range [%d, %d]", min, max)
	}
	n, err := rand.Int(rand.Reader, big.NewInt(max-min+1))
	if err != nil {
		return 0, fmt.Errorf("failed to read random bytes: %w", err)
	}
	return min + n.Int64(), nil
}

// GenerateNumericCode returns a numeric code uniformly drawn from [min, max].
func GenerateNumericCode(min, max int64) (string, error) {
	n, err := RandomIntInRange(min, max)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n, 10), nil
}
