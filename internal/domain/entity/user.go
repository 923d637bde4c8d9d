// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// User is an account that can own events and OAuth clients.
// Only the identity fields the auth core needs are carried here.
type User struct {
	ID        string    // The user's identifier as issued by the account system.
	Email     string    // The user's primary contact email.
	Name      string    // The user's display name.
	CreatedAt time.Time // Timestamp of when this user account was created.
}
