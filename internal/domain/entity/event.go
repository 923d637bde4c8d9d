package entity

import "time"

// Event is the ownership projection of an orienteering event.
type Event struct {
	ID       string // The event's identifier; also the username of its basic credentials.
	AuthorID string // The user who created, and therefore owns, the event.
	Name     string
}

// EventPassword is the single live event-scoped password of an event.
// The blob is replaced wholesale on rotation, never mutated in place.
type EventPassword struct {
	EventID           string    // 1:1 with Event.
	EncryptedPassword []byte    // JSON-encoded EncryptedPayload.
	ExpiresAt         time.Time // The password is rejected once ExpiresAt <= now.
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsExpired reports whether the password is no longer valid at the given instant.
func (p *EventPassword) IsExpired(now time.Time) bool {
	return !p.ExpiresAt.After(now)
}

// OwnershipRecord is the minimal projection fetched by the ownership guard.
type OwnershipRecord struct {
	ResourceID string
	AuthorID   string
}

// IssuedEventPassword is returned exactly once, when a password is generated.
type IssuedEventPassword struct {
	EventID   string    `json:"event_id"`
	Password  string    `json:"password"`
	ExpiresAt time.Time `json:"expires_at"`
}
