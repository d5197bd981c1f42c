package rounddomain

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	// JoinCodeAlphabet drops characters that are easy to misread (I, O, 0, 1).
	JoinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	JoinCodeLength   = 10
	minJoinCodeLen   = 5
)

// NewJoinCode returns a random join code.
func NewJoinCode() (string, error) {
	var b strings.Builder
	b.Grow(JoinCodeLength)
	limit := big.NewInt(int64(len(JoinCodeAlphabet)))
	for range JoinCodeLength {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generate join code: %w", err)
		}
		b.WriteByte(JoinCodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// NormalizeJoinCode upper-cases and trims user input, rejecting codes too
// short to be meaningful.
func NormalizeJoinCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) < minJoinCodeLen {
		return "", ErrInvalidJoinCode
	}
	return code, nil
}
