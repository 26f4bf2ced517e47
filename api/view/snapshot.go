package view

import (
	"time"

	"github.com/LeoJim2/cool-travel-app-voyageur/api/models"

	"github.com/dustin/go-humanize"
)

const (
	AuthorColor = "Crimson"
	UserColor   = "DarkBlue"
	RatingColor = "Gold"
)

type Marker struct {
	PinID      string
	Lat        float64
	Lon        float64
	Color      string
	Size       float64
	OffsetLeft float64
	OffsetTop  float64
	Selected   bool
}

type Popup struct {
	PinID       string
	Title       string
	Description string
	Rating      int
	Author      string
	CreatedAgo  string
	Lat         float64
	Lon         float64
}

// Stars returns one entry per rating point, for ranging in templates.
func (p Popup) Stars() []int {
	n := p.Rating
	if n < 0 {
		n = 0
	}
	if n > models.MaxRating {
		n = models.MaxRating
	}
	stars := make([]int, n)
	for i := range stars {
		stars[i] = i + 1
	}
	return stars
}

// Snapshot is everything needed to draw the page once.
type Snapshot struct {
	CurrentUser string
	Viewport    models.Viewport
	Markers     []Marker
	Popup       *Popup
	Draft       *models.Location
	FlyTo       *FlyTo
	Error       string
}

// FlyToShown clears the pending fly-to once a page carrying it reached
// the browser. A fly-to set after f was taken is kept.
func (p *Page) FlyToShown(f *FlyTo) {
	if f == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.flyTo == f {
		p.flyTo = nil
	}
}

// Snapshot renders the current state. A pending fly-to stays pending
// until FlyToShown is called with it.
func (p *Page) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.touch()

	s := Snapshot{
		CurrentUser: p.currentUser,
		Viewport:    p.viewport,
		Markers:     make([]Marker, 0, len(p.pins)),
		FlyTo:       p.flyTo,
		Error:       p.lastErr,
	}

	if p.draft != nil {
		d := *p.draft
		s.Draft = &d
	}

	zoom := p.viewport.Zoom
	now := p.now()
	for _, pin := range p.pins {
		color := UserColor
		if pin.Name == p.currentUser {
			color = AuthorColor
		}
		s.Markers = append(s.Markers, Marker{
			PinID:      pin.ID,
			Lat:        pin.Lat,
			Lon:        pin.Lon,
			Color:      color,
			Size:       zoom * 7,
			OffsetLeft: -zoom * 3.5,
			OffsetTop:  -zoom * 7,
			Selected:   pin.ID == p.selected,
		})
		if pin.ID == p.selected && s.Popup == nil {
			s.Popup = &Popup{
				PinID:       pin.ID,
				Title:       pin.Title,
				Description: pin.Description,
				Rating:      pin.Rating,
				Author:      pin.Name,
				CreatedAgo:  createdAgo(pin.CreatedAt, now),
				Lat:         pin.Lat,
				Lon:         pin.Lon,
			}
		}
	}
	return s
}

func createdAgo(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
