package model

import "time"

// File is an uploaded attachment. FilePath is the storage locator: an
// absolute local path or an s3://bucket/key URI. TripID and ItineraryID
// are both nullable in the schema.
type File struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	TripID      *uint     `json:"trip_id" gorm:"index"`
	ItineraryID *uint     `json:"itinerary_id" gorm:"index"`
	FileName    string    `json:"file_name" gorm:"type:varchar(255);not null"`
	FilePath    string    `json:"file_path" gorm:"type:varchar(255);not null"`
	UploadedAt  time.Time `json:"uploaded_at" gorm:"autoCreateTime"`
}
