package model

import (
	"time"
)

// PlaceholderDuration is stored on new uploads; no media probing is performed.
const PlaceholderDuration = "00:00"

// DefaultThumbnailURL is used when an upload carries no thumbnail.
const DefaultThumbnailURL = "https://i.ytimg.com/vi/default/maxresdefault.jpg"

// UploadDateLayout is the calendar layout of Video.UploadDate.
const UploadDateLayout = "2006-01-02"

// Video represents a single catalog record
type Video struct {
	ID           string `gorm:"primaryKey;size:64" json:"id"`
	Title        string `gorm:"size:500;not null" json:"title"`
	Description  string `gorm:"type:text" json:"description"`
	ThumbnailURL string `gorm:"size:1000" json:"thumbnailUrl"`
	VideoURL     string `gorm:"size:1000;not null" json:"videoUrl"`
	UploadDate   string `gorm:"size:10;index" json:"uploadDate"`
	Views        int64  `gorm:"default:0" json:"views"`
	Duration     string `gorm:"size:16" json:"duration"`

	// Seq keeps insertion order for SQL backed stores
	Seq int64 `gorm:"index" json:"-"`
}

// TableName returns the table name for Video
func (Video) TableName() string {
	return "videos"
}

// Clone returns a copy that shares no state with v
func (v *Video) Clone() *Video {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// MediaSource describes an uploaded media file.
// When URL is set it is used as-is and Data is ignored.
type MediaSource struct {
	Name        string
	ContentType string
	Data        []byte
	URL         string
}

// UploadInput carries everything needed to create a catalog record
type UploadInput struct {
	Title       string
	Description string
	Video       MediaSource
	Thumbnail   *MediaSource
}

// EventType names a catalog change
type EventType string

const (
	EventUploaded EventType = "uploaded"
	EventUpdated  EventType = "updated"
	EventDeleted  EventType = "deleted"
)

// VideoEvent is published after a catalog mutation
type VideoEvent struct {
	Type       EventType `json:"type"`
	Video      Video     `json:"video"`
	OccurredAt time.Time `json:"occurredAt"`
}
