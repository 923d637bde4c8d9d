package crypto

import (
	"crypto/rand"
	"encoding/hex"

	"orienteer/internal/domain/service"

	"github.com/pkg/errors"
)

// ErrInvalidLength is returned by GenerateRandomHex for non-positive lengths.
var ErrInvalidLength = errors.New("length must be a positive integer")

// GenerateRandomHex returns exactly length hexadecimal characters drawn from crypto/rand.
func GenerateRandomHex(length int) (string, error) {
	if length <= 0 {
		return "", errors.WithStack(ErrInvalidLength)
	}

	b := make([]byte, (length+1)/2)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "reading random bytes")
	}

	return hex.EncodeToString(b)[:length], nil
}

// HexGenerator implements service.SecretGenerator on crypto/rand.
type HexGenerator struct{}

// NewSecretGenerator is the fx provider for the secret generator.
func NewSecretGenerator() service.SecretGenerator {
	return HexGenerator{}
}

// Hex returns exactly length random hexadecimal characters.
func (HexGenerator) Hex(length int) (string, error) {
	return GenerateRandomHex(length)
}
