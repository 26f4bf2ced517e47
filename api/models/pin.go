package models

import (
	"errors"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinRating         = 1
	MaxRating         = 5
	MaxTitleLen       = 120
	MaxDescriptionLen = 2000
)

var (
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrInvalidLocation = errors.New("invalid geographic coordinates")
	ErrMissingTitle    = errors.New("title is required")
	ErrMissingName     = errors.New("name is required")
	ErrFieldTooLong    = errors.New("field too long")
)

type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (l Location) Valid() bool {
	if math.IsNaN(l.Lat) || math.IsNaN(l.Lon) {
		return false
	}
	return l.Lat >= -90 && l.Lat <= 90 && l.Lon >= -180 && l.Lon <= 180
}

// Pin is a geo-tagged review. ID and CreatedAt are assigned by the store.
type Pin struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Rating      int       `json:"rating"`
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (p Pin) Location() Location {
	return Location{Lat: p.Lat, Lon: p.Lon}
}

func (p Pin) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrMissingName
	}
	if strings.TrimSpace(p.Title) == "" {
		return ErrMissingTitle
	}
	if utf8.RuneCountInString(p.Title) > MaxTitleLen || utf8.RuneCountInString(p.Description) > MaxDescriptionLen {
		return ErrFieldTooLong
	}
	if p.Rating < MinRating || p.Rating > MaxRating {
		return ErrInvalidRating
	}
	if !p.Location().Valid() {
		return ErrInvalidLocation
	}
	return nil
}
