package entity

// PayloadVersionModern is the version tag carried by AEAD payloads.
const PayloadVersionModern = 2

// EncryptedPayload is the stored form of an encrypted secret.
// It is a closed sum type: only LegacyPayload and ModernPayload implement it.
type EncryptedPayload interface {
	encryptedPayload()
}

// LegacyPayload is the pre-AEAD format: AES-CBC, hex IV, base64 content, no tag.
type LegacyPayload struct {
	IV      string `json:"iv"`
	Content string `json:"content"`
}

// ModernPayload is the AEAD format: AES-GCM, 12-byte IV, 16-byte tag, base64 fields.
type ModernPayload struct {
	V       int    `json:"v"`
	Alg     string `json:"alg"`
	IV      string `json:"iv"`
	Tag     string `json:"tag"`
	Content string `json:"content"`
	Enc     string `json:"enc"`
}

func (*LegacyPayload) encryptedPayload() {}
func (*ModernPayload) encryptedPayload() {}
