package dtos

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/LeoJim2/cool-travel-app-voyageur/api/models"
)

// Rating accepts both 4 and "4" on the wire; html selects post strings.
type Rating int

func (r *Rating) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("rating: %q is not an integer", s)
	}
	*r = Rating(n)
	return nil
}

type CreatePinRequest struct {
	Name        string  `json:"name"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Rating      Rating  `json:"rating"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

func (r CreatePinRequest) ToModel() models.Pin {
	return models.Pin{
		Name:        strings.TrimSpace(r.Name),
		Title:       strings.TrimSpace(r.Title),
		Description: r.Description,
		Rating:      int(r.Rating),
		Lat:         r.Lat,
		Lon:         r.Lon,
	}
}

type Pin struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Rating      Rating    `json:"rating"`
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UnmarshalJSON falls back to "_id" for servers that expose Mongo ids.
func (p *Pin) UnmarshalJSON(b []byte) error {
	type plain Pin
	var aux struct {
		plain
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*p = Pin(aux.plain)
	if p.ID == "" {
		p.ID = aux.MongoID
	}
	return nil
}

func NewPin(pin models.Pin) Pin {
	return Pin{
		ID:          pin.ID,
		Name:        pin.Name,
		Title:       pin.Title,
		Description: pin.Description,
		Rating:      Rating(pin.Rating),
		Lat:         pin.Lat,
		Lon:         pin.Lon,
		CreatedAt:   pin.CreatedAt,
	}
}

func (p Pin) ToModel() models.Pin {
	return models.Pin{
		ID:          p.ID,
		Name:        p.Name,
		Title:       p.Title,
		Description: p.Description,
		Rating:      int(p.Rating),
		Lat:         p.Lat,
		Lon:         p.Lon,
		CreatedAt:   p.CreatedAt,
	}
}

func NewPinList(pins []models.Pin) []Pin {
	out := make([]Pin, 0, len(pins))
	for _, pin := range pins {
		out = append(out, NewPin(pin))
	}
	return out
}
