package service

// SecretGenerator produces high-entropy random secrets such as client ids,
// client secrets and event passwords.
type SecretGenerator interface {
	// Hex returns exactly length random hexadecimal characters.
	Hex(length int) (string, error)
}
