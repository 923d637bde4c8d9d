package service

import "orienteer/internal/domain/entity"

// AuthRecorder receives auth-core outcomes for observability.
// Implementations must be safe for concurrent use.
type AuthRecorder interface {
	// RecordResolution counts one credential resolution.
	RecordResolution(scheme entity.Scheme, reason entity.FailureReason)

	// RecordOwnershipDenial counts one ownership-guard failure by HTTP status.
	RecordOwnershipDenial(status int)

	// RecordTokenIssued counts one token issuance by grant type.
	RecordTokenIssued(grant entity.GrantType)
}

// NopAuthRecorder discards every observation.
type NopAuthRecorder struct{}

func (NopAuthRecorder) RecordResolution(entity.Scheme, entity.FailureReason) {}
func (NopAuthRecorder) RecordOwnershipDenial(int)                           {}
func (NopAuthRecorder) RecordTokenIssued(entity.GrantType)                  {}
