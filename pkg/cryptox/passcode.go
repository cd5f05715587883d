package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// PasscodeLength is the number of digits in a delivery passcode.
const PasscodeLength = 6

// GeneratePasscode returns a uniformly random numeric passcode of
// PasscodeLength digits, zero-padded, from a cryptographically secure source.
func GeneratePasscode() (string, error) {
	max := big.NewInt(1)
	for range PasscodeLength {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate passcode: %w", err)
	}

	return fmt.Sprintf("%0*d", PasscodeLength, n), nil
}

// DigestPasscode returns the deterministic SHA-256 digest of a passcode as a
// lowercase hex string. Only the digest is ever persisted.
func DigestPasscode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// NormalizePasscode trims surrounding whitespace and rejects anything that is
// not exactly PasscodeLength ASCII digits.
func NormalizePasscode(code string) (string, error) {
	code = strings.TrimSpace(code)
	if len(code) != PasscodeLength {
		return "", fmt.Errorf("passcode must be %d digits", PasscodeLength)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("passcode must be numeric")
		}
	}
	return code, nil
}

// VerifyPasscodeDigest compares the digest of code against storedDigest in
// constant time.
func VerifyPasscodeDigest(code, storedDigest string) bool {
	digest := DigestPasscode(code)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(strings.ToLower(storedDigest))) == 1
}

// GenerateToken creates a random token of size bytes, hex encoded. Used for
// test fixtures and opaque identifiers that never leave the process.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
