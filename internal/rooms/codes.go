package rooms

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// Alphabet excludes ambiguous characters: 0, O, 1, I, L
const alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const codeLength = 4

func GenerateCode() (string, error) {
	code := make([]byte, codeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", err
		}
		code[i] = alphabet[n.Int64()]
	}
	return string(code), nil
}

// ValidCode reports whether a client-supplied code has the exact shape of a
// generated one. Preferred codes that fail this are replaced, never used.
func ValidCode(code string) bool {
	if len(code) != codeLength {
		return false
	}
	for _, ch := range code {
		if !strings.ContainsRune(alphabet, ch) {
			return false
		}
	}
	return true
}
