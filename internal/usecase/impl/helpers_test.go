package impl

import (
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"orienteer/config"
	"orienteer/internal/domain/service"
	"orienteer/internal/infra/auth"
	"orienteer/internal/infra/crypto"

	"github.com/stretchr/testify/require"
)

const testCipherKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	return &config.Config{
		SecretKey: config.SecretKeyConfig{
			Token:  "test-signing-secret",
			Cipher: testCipherKey,
		},
		Auth: &config.AuthConfig{
			BcryptCost:       4,
			RefreshTokenTTL:  config.DefaultRefreshTokenTTL,
			EventPasswordTTL: config.DefaultEventPasswordTTL,
		},
	}
}

func newTestCipher(t *testing.T) service.Cipher {
	t.Helper()

	c, err := crypto.NewAESCipher(testCipherKey)
	require.NoError(t, err)

	return c
}

func newTestTokenService(t *testing.T) service.TokenService {
	t.Helper()

	ts, err := auth.NewJWTService(newTestConfig())
	require.NoError(t, err)

	return ts
}

func sealed(t *testing.T, c service.Cipher, plaintext string) []byte {
	t.Helper()

	blob, err := c.Seal(plaintext)
	require.NoError(t, err)

	return blob
}

// fakeHasher is a reversible stand-in for bcrypt that records every check.
type fakeHasher struct {
	mu     sync.Mutex
	checks []string
}

func (h *fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (h *fakeHasher) Check(password, hash string) bool {
	h.mu.Lock()
	h.checks = append(h.checks, hash)
	h.mu.Unlock()

	return hash == "hashed:"+password
}

// sequenceSecrets returns predictable hex strings: "a...", "b...", ...
type sequenceSecrets struct {
	mu   sync.Mutex
	next byte
}

func (s *sequenceSecrets) Hex(length int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := "abcdef"[int(s.next)%6]
	s.next++

	return strings.Repeat(string(ch), length), nil
}
