package crypto

import (
	"encoding/json"

	"orienteer/internal/domain/entity"

	"github.com/pkg/errors"
)

// payloadEnvelope is the union of every field any payload format has carried.
// Pointers distinguish an absent field from an empty one.
type payloadEnvelope struct {
	V       *int    `json:"v"`
	Alg     *string `json:"alg"`
	IV      *string `json:"iv"`
	Tag     *string `json:"tag"`
	Content *string `json:"content"`
	Enc     *string `json:"enc"`
}

// DecodePayload parses a stored blob into its concrete format. The presence of
// a tag selects the modern format; iv and content alone select the legacy one.
// Anything else is ErrInvalidPayload.
func DecodePayload(blob []byte) (entity.EncryptedPayload, error) {
	var env payloadEnvelope
	if err := json.Unmarshal(blob, &env); err != nil {
		return nil, errors.Wrap(ErrInvalidPayload, err.Error())
	}

	if env.Tag != nil {
		if env.V == nil || env.Alg == nil || env.IV == nil || env.Content == nil {
			return nil, errors.Wrap(ErrInvalidPayload, "modern payload is missing fields")
		}

		p := &entity.ModernPayload{
			V:       *env.V,
			Alg:     *env.Alg,
			IV:      *env.IV,
			Tag:     *env.Tag,
			Content: *env.Content,
		}
		if env.Enc != nil {
			p.Enc = *env.Enc
		}

		return p, nil
	}

	if env.IV != nil && env.Content != nil && env.V == nil && env.Alg == nil {
		return &entity.LegacyPayload{
			IV:      *env.IV,
			Content: *env.Content,
		}, nil
	}

	return nil, errors.Wrap(ErrInvalidPayload, "payload matches no known format")
}

// EncodePayload serializes a modern payload for storage.
func EncodePayload(p *entity.ModernPayload) ([]byte, error) {
	if p == nil {
		return nil, errors.WithStack(ErrInvalidPayload)
	}

	blob, err := json.Marshal(p)
	if err != nil {
		return nil, errors.Wrap(err, "encoding payload")
	}

	return blob, nil
}
