// Package crypto implements the symmetric cipher protecting stored secrets.
//
// Two payload formats exist. The modern format is AES-GCM with a 12-byte IV and
// a 16-byte tag. The legacy format is AES-CBC without an integrity tag; it is
// only ever decrypted, never produced, and offers no tamper detection.
package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"orienteer/config"
	"orienteer/internal/domain/entity"
	"orienteer/internal/domain/service"

	"github.com/pkg/errors"
)

const (
	// gcmIVSize is the IV length of the modern format in bytes.
	gcmIVSize = 12

	// gcmTagSize is the authentication tag length of the modern format in bytes.
	gcmTagSize = 16

	// payloadEncoding is the only binary encoding the modern format uses.
	payloadEncoding = "base64"
)

var (
	// ErrInvalidKey is returned at construction for missing or malformed key material.
	ErrInvalidKey = errors.New("cipher key must be 32, 48 or 64 hex characters")
	// ErrInvalidPayload is returned when a payload is structurally unusable.
	ErrInvalidPayload = errors.New("invalid encrypted payload")
	// ErrAlgorithmMismatch is returned when a modern payload names another algorithm than the configured key.
	ErrAlgorithmMismatch = errors.New("payload algorithm does not match configured key")
	// ErrAuthenticationFailed is returned when the tag does not verify or legacy padding is corrupt.
	ErrAuthenticationFailed = errors.New("payload authentication failed")
)

// AESCipher implements service.Cipher. The key is fixed at construction and
// read-only afterwards, so a single instance is safe for concurrent use.
type AESCipher struct {
	block cipher.Block
	gcm   cipher.AEAD
	alg   string
}

// NewCipher is the fx provider. It builds the process cipher from the
// configured secret; an error here aborts startup.
func NewCipher(cfg *config.Config) (service.Cipher, error) {
	c, err := NewAESCipher(cfg.SecretKey.Cipher)
	if err != nil {
		return nil, errors.Wrap(err, "secretKey.cipher")
	}

	return c, nil
}

// NewAESCipher builds a cipher from a hex-encoded 16, 24 or 32 byte key.
// The key length selects AES-128, AES-192 or AES-256.
func NewAESCipher(hexSecret string) (*AESCipher, error) {
	hexSecret = strings.TrimSpace(hexSecret)
	if hexSecret == "" || len(hexSecret)%2 != 0 {
		return nil, errors.WithStack(ErrInvalidKey)
	}

	key, err := hex.DecodeString(hexSecret)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidKey, err.Error())
	}

	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, errors.WithStack(ErrInvalidKey)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "creating AES cipher")
	}

	gcm, err := cipher.NewGCMWithNonceSize(block, gcmIVSize)
	if err != nil {
		return nil, errors.Wrap(err, "creating GCM")
	}

	return &AESCipher{
		block: block,
		gcm:   gcm,
		alg:   fmt.Sprintf("aes-%d-gcm", len(key)*8),
	}, nil
}

// Algorithm returns the modern algorithm name selected by the key size.
func (c *AESCipher) Algorithm() string {
	return c.alg
}

// Encrypt seals plaintext with AES-GCM under a fresh random IV.
func (c *AESCipher) Encrypt(plaintext string) (*entity.ModernPayload, error) {
	iv := make([]byte, gcmIVSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, errors.Wrap(err, "generating IV")
	}

	// Seal appends the tag to the ciphertext; the payload stores them apart.
	sealed := c.gcm.Seal(nil, iv, []byte(plaintext), nil)
	split := len(sealed) - gcmTagSize

	return &entity.ModernPayload{
		V:       entity.PayloadVersionModern,
		Alg:     c.alg,
		IV:      base64.StdEncoding.EncodeToString(iv),
		Tag:     base64.StdEncoding.EncodeToString(sealed[split:]),
		Content: base64.StdEncoding.EncodeToString(sealed[:split]),
		Enc:     payloadEncoding,
	}, nil
}

// Decrypt opens a payload of either format.
func (c *AESCipher) Decrypt(payload entity.EncryptedPayload) (string, error) {
	switch p := payload.(type) {
	case *entity.ModernPayload:
		return c.decryptModern(p)
	case *entity.LegacyPayload:
		return c.decryptLegacy(p)
	default:
		return "", errors.Wrapf(ErrInvalidPayload, "unsupported payload type %T", payload)
	}
}

// Seal encrypts plaintext and encodes the payload as a storage blob.
func (c *AESCipher) Seal(plaintext string) ([]byte, error) {
	payload, err := c.Encrypt(plaintext)
	if err != nil {
		return nil, err
	}

	return EncodePayload(payload)
}

// Open decodes a storage blob of either format and decrypts it.
func (c *AESCipher) Open(blob []byte) (string, error) {
	payload, err := DecodePayload(blob)
	if err != nil {
		return "", err
	}

	return c.Decrypt(payload)
}

func (c *AESCipher) decryptModern(p *entity.ModernPayload) (string, error) {
	if p == nil {
		return "", errors.WithStack(ErrInvalidPayload)
	}
	if p.V != entity.PayloadVersionModern {
		return "", errors.Wrapf(ErrInvalidPayload, "unsupported version %d", p.V)
	}
	if p.Enc != "" && p.Enc != payloadEncoding {
		return "", errors.Wrapf(ErrInvalidPayload, "unsupported encoding %q", p.Enc)
	}
	if p.Alg != c.alg {
		return "", errors.Wrapf(ErrAlgorithmMismatch, "got %q, want %q", p.Alg, c.alg)
	}

	iv, err := base64.StdEncoding.DecodeString(p.IV)
	if err != nil || len(iv) != gcmIVSize {
		return "", errors.Wrap(ErrInvalidPayload, "iv")
	}
	tag, err := base64.StdEncoding.DecodeString(p.Tag)
	if err != nil || len(tag) != gcmTagSize {
		return "", errors.Wrap(ErrInvalidPayload, "tag")
	}
	content, err := base64.StdEncoding.DecodeString(p.Content)
	if err != nil {
		return "", errors.Wrap(ErrInvalidPayload, "content")
	}

	sealed := make([]byte, 0, len(content)+len(tag))
	sealed = append(sealed, content...)
	sealed = append(sealed, tag...)

	plaintext, err := c.gcm.Open(nil, iv, sealed, nil)
	if err != nil {
		return "", errors.WithStack(ErrAuthenticationFailed)
	}

	return string(plaintext), nil
}

// decryptLegacy decrypts the AES-CBC format. Without a tag, tampering is only
// detected when it happens to corrupt the PKCS#7 padding.
func (c *AESCipher) decryptLegacy(p *entity.LegacyPayload) (string, error) {
	if p == nil {
		return "", errors.WithStack(ErrInvalidPayload)
	}

	iv, err := hex.DecodeString(p.IV)
	if err != nil || len(iv) != aes.BlockSize {
		return "", errors.Wrap(ErrInvalidPayload, "iv")
	}
	content, err := base64.StdEncoding.DecodeString(p.Content)
	if err != nil || len(content) == 0 || len(content)%aes.BlockSize != 0 {
		return "", errors.Wrap(ErrInvalidPayload, "content")
	}

	plaintext := make([]byte, len(content))
	cipher.NewCBCDecrypter(c.block, iv).CryptBlocks(plaintext, content)

	unpadded, err := pkcs7Unpad(plaintext)
	if err != nil {
		return "", err
	}

	return string(unpadded), nil
}

func pkcs7Unpad(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, errors.WithStack(ErrAuthenticationFailed)
	}

	n := int(b[len(b)-1])
	if n == 0 || n > aes.BlockSize || n > len(b) {
		return nil, errors.WithStack(ErrAuthenticationFailed)
	}
	if !bytes.Equal(b[len(b)-n:], bytes.Repeat([]byte{byte(n)}, n)) {
		return nil, errors.WithStack(ErrAuthenticationFailed)
	}

	return b[:len(b)-n], nil
}
