package models

import "math"

const MaxZoom = 22

// Viewport is the map's current center and zoom level.
type Viewport struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Zoom      float64 `json:"zoom"`
}

func (v Viewport) Center() Location {
	return Location{Lat: v.Latitude, Lon: v.Longitude}
}

func (v Viewport) Valid() bool {
	if math.IsNaN(v.Zoom) || v.Zoom < 0 || v.Zoom > MaxZoom {
		return false
	}
	return v.Center().Valid()
}
