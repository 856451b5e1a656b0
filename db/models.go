package db

import (
	"time"

	"gorm.io/gorm"
)

// Hack is one catalog entry mirrored into the local database.
type Hack struct {
	gorm.Model
	Slug          string `gorm:"uniqueIndex"` // catalog entry id
	Position      int    // index in the snapshot, keeps source order
	Title         string
	SourcePage    int
	Platform      string `gorm:"index"`
	VersionLabel  string
	Status        string `gorm:"index"`
	Summary       string
	ImageSrc      string
	ImageAlt      string
	OfficialURL   string
	OfficialLabel string
	Tags          string // joined with "|"
	VerifiedOn    string
	CoverPath     string // local copy of ImageSrc, if downloaded
	CoverSHA1     string
}

// LinkCheck records one reachability check of an entry's official or image URL.
type LinkCheck struct {
	gorm.Model
	Slug       string `gorm:"index"`
	Kind       string // "official" or "image"
	URL        string
	StatusCode int
	OK         bool
	Error      string
	Duration   time.Duration
	CheckedAt  time.Time `gorm:"index"`
}
