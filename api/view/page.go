// Package view holds the state of the map page: viewport, pin list,
// selected pin and the pending draft location.
package view

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/LeoJim2/cool-travel-app-voyageur/api/dtos"
	"github.com/LeoJim2/cool-travel-app-voyageur/api/metrics"
	"github.com/LeoJim2/cool-travel-app-voyageur/api/models"
)

// FlyDuration matches the animation length used by the map widget.
const FlyDuration = 2002 * time.Millisecond

// DefaultViewport frames the North Atlantic so both Europe and the Americas are visible.
var DefaultViewport = models.Viewport{Longitude: -39.462891, Latitude: 35.746512, Zoom: 3}

var (
	ErrPinNotFound     = errors.New("pin not found")
	ErrNoDraft         = errors.New("no draft location")
	ErrInvalidViewport = errors.New("invalid viewport")
)

// PinSource is the remote /pins resource.
type PinSource interface {
	GetPins(ctx context.Context) ([]models.Pin, error)
	CreatePin(ctx context.Context, req dtos.CreatePinRequest) (*models.Pin, error)
}

type FlyTo struct {
	Center   models.Location
	Duration time.Duration
}

// Form is the add-pin form as submitted by the user.
type Form struct {
	Title       string
	Description string
	Rating      int
}

// Page is one browser's map page. All methods are safe for concurrent use;
// events are applied one at a time.
type Page struct {
	mu          sync.Mutex
	source      PinSource
	currentUser string

	viewport models.Viewport
	pins     []models.Pin
	selected string
	draft    *models.Location
	flyTo    *FlyTo
	lastErr  string
	loaded   bool
	lastSeen atomic.Int64 // unix nanos, read by Store.Sweep without the page lock
	now      func() time.Time
}

func NewPage(source PinSource, currentUser string, initial models.Viewport) *Page {
	p := &Page{
		source:      source,
		currentUser: currentUser,
		viewport:    initial,
		now:         time.Now,
	}
	p.touch()
	return p
}

func (p *Page) CurrentUser() string {
	return p.currentUser
}

// Load fetches the pin collection the first time it is called. A failed
// fetch leaves the page with zero pins and an error indicator.
func (p *Page) Load(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.touch()
	if p.loaded {
		return
	}
	p.loaded = true

	pins, err := p.source.GetPins(ctx)
	if err != nil {
		log.Println("load pins:", err)
		metrics.ClientErrors.WithLabelValues("list").Inc()
		p.lastErr = "Pins could not be loaded."
		return
	}
	p.pins = pins
}

func (p *Page) Viewport() models.Viewport {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.viewport
}

// Move records a pan or zoom reported by the map widget.
func (p *Page) Move(v models.Viewport) error {
	if !v.Valid() {
		return ErrInvalidViewport
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.touch()
	p.viewport = v
	return nil
}

// SelectPin opens the popup of pin id and recenters the map on it.
func (p *Page) SelectPin(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.touch()
	for _, pin := range p.pins {
		if pin.ID == id {
			p.selected = id
			p.flyTo = &FlyTo{Center: pin.Location(), Duration: FlyDuration}
			return nil
		}
	}
	return ErrPinNotFound
}

func (p *Page) ClosePopup() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.touch()
	p.selected = ""
}

// OpenDraft replaces any pending draft with loc. The selection is untouched.
func (p *Page) OpenDraft(loc models.Location) error {
	if !loc.Valid() {
		return models.ErrInvalidLocation
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.touch()
	p.draft = &loc
	return nil
}

func (p *Page) CloseDraft() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.touch()
	p.draft = nil
}

// Submit sends the form for the pending draft. On failure the draft stays open.
func (p *Page) Submit(ctx context.Context, f Form) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.touch()
	if p.draft == nil {
		return ErrNoDraft
	}
	loc := *p.draft

	req := dtos.CreatePinRequest{
		Name:        p.currentUser,
		Title:       f.Title,
		Description: f.Description,
		Rating:      dtos.Rating(f.Rating),
		Lat:         loc.Lat,
		Lon:         loc.Lon,
	}
	if err := req.ToModel().Validate(); err != nil {
		p.lastErr = fmt.Sprintf("Pin was not saved: %v.", err)
		return err
	}

	pin, err := p.source.CreatePin(ctx, req)
	if err != nil {
		log.Println("create pin:", err)
		metrics.ClientErrors.WithLabelValues("create").Inc()
		p.lastErr = "Pin could not be saved."
		return err
	}

	p.pins = append(p.pins, *pin)
	p.draft = nil
	p.selected = pin.ID
	p.flyTo = &FlyTo{Center: loc, Duration: FlyDuration}
	p.lastErr = ""
	return nil
}

func (p *Page) DismissError() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastErr = ""
}

func (p *Page) touch() {
	p.lastSeen.Store(p.now().UnixNano())
}

func (p *Page) idleSince() time.Time {
	return time.Unix(0, p.lastSeen.Load())
}
