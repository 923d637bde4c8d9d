package service

import "orienteer/internal/domain/entity"

// Cipher encrypts stored secrets such as event passwords.
// Encryption always emits the modern AEAD format; decryption accepts every
// format ever emitted so that previously stored blobs stay readable.
type Cipher interface {
	// Encrypt seals plaintext under a fresh random IV.
	Encrypt(plaintext string) (*entity.ModernPayload, error)

	// Decrypt opens a payload of any supported format. A payload that fails
	// authentication returns an error and never partial plaintext.
	Decrypt(payload entity.EncryptedPayload) (string, error)

	// Seal encrypts plaintext and returns the JSON blob that is stored.
	Seal(plaintext string) ([]byte, error)

	// Open decodes a stored JSON blob of any supported format and decrypts it.
	Open(blob []byte) (string, error)
}
