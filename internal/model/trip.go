package model

import "time"

// Trip is a user-owned planned journey with a date range. The schema does
// not require start_date <= end_date; the range is stored as submitted.
type Trip struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"index;not null"`
	Destination string    `json:"destination" gorm:"type:varchar(100);not null"`
	StartDate   time.Time `json:"start_date" gorm:"type:date;not null"`
	EndDate     time.Time `json:"end_date" gorm:"type:date;not null"`
	Notes       string    `json:"notes" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`

	Itineraries []Itinerary `json:"-" gorm:"foreignKey:TripID"`
	Files       []File      `json:"-" gorm:"foreignKey:TripID"`
}
