package model

import "time"

// User represents a registered account. Email is unique across all users.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	FirstName    string    `json:"first_name" gorm:"type:varchar(50);not null"`
	LastName     string    `json:"last_name" gorm:"type:varchar(50);not null"`
	Email        string    `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `json:"created_at"`

	Trips []Trip `json:"-" gorm:"foreignKey:UserID"`
}
