package model

import "time"

// Itinerary is a timed sub-event of a trip. Start and end are full
// timestamps built from the trip's start date plus a time of day; either
// may be null when no time was supplied.
type Itinerary struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	TripID      uint       `json:"trip_id" gorm:"index;not null"`
	Title       string     `json:"title" gorm:"type:varchar(100);not null"`
	Description string     `json:"description" gorm:"type:text"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`

	Files []File `json:"-" gorm:"foreignKey:ItineraryID"`
}
