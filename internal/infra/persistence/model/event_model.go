package model

import "time"

// EventModel mirrors the ownership columns of the 'events' table.
type EventModel struct {
	ID        string `gorm:"type:varchar(64);primaryKey"`
	AuthorID  string `gorm:"type:varchar(64);not null;index"`
	Name      string `gorm:"type:varchar(255)"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Password *EventPasswordModel `gorm:"foreignKey:EventID"`
}

// TableName explicitly sets the table name for GORM.
func (EventModel) TableName() string {
	return "events"
}

// EventPasswordModel mirrors the 'event_passwords' table. EventID is both the
// primary key and the foreign key, so an event holds at most one live password.
type EventPasswordModel struct {
	EventID           string    `gorm:"type:varchar(64);primaryKey"`
	EncryptedPassword []byte    `gorm:"type:jsonb;not null"`
	ExpiresAt         time.Time `gorm:"not null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName explicitly sets the table name for GORM.
func (EventPasswordModel) TableName() string {
	return "event_passwords"
}
