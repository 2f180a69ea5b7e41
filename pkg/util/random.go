package util

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateOrderReference generates a short random reference suffix
// for human-readable order numbers.
func GenerateOrderReference() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
