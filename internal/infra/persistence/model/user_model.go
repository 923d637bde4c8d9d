package model

import "time"

// UserModel mirrors the 'users' table. The auth core only reads it.
// It is an exported type so it can be used by the GORM Gen tool from other packages.
type UserModel struct {
	ID        string `gorm:"type:varchar(64);primaryKey"`
	Email     string `gorm:"type:varchar(255);unique;not null"`
	Name      string `gorm:"type:varchar(100)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
