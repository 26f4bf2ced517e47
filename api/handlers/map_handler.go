package handlers

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/LeoJim2/cool-travel-app-voyageur/api/auth"
	"github.com/LeoJim2/cool-travel-app-voyageur/api/models"
	"github.com/LeoJim2/cool-travel-app-voyageur/api/view"

	"github.com/go-chi/chi/v5"
)

// MapHandlers serves the map page and the events posted back by it.
type MapHandlers struct {
	Pages    *view.Store
	Renderer *view.Renderer
}

func (h *MapHandlers) page(r *http.Request) (*view.Page, bool) {
	sess, ok := auth.SessionFrom(r.Context())
	if !ok {
		return nil, false
	}
	return h.Pages.Get(sess.ID.String()), true
}

func (h *MapHandlers) withPage(fn func(w http.ResponseWriter, r *http.Request, p *view.Page)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := h.page(r)
		if !ok {
			http.Error(w, "missing session", http.StatusUnauthorized)
			return
		}
		fn(w, r, p)
	}
}

func backToMap(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// GET /
func (h *MapHandlers) GetMapHandler() http.HandlerFunc {
	return h.withPage(func(w http.ResponseWriter, r *http.Request, p *view.Page) {
		p.Load(r.Context())

		s := p.Snapshot()
		var buf bytes.Buffer
		if err := h.Renderer.Render(&buf, s); err != nil {
			log.Println("render map:", err)
			http.Error(w, "unable to render map", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		if _, err := buf.WriteTo(w); err != nil {
			log.Println("write map:", err)
			return
		}
		p.FlyToShown(s.FlyTo)
	})
}

// POST /ui/move
func (h *MapHandlers) PostMoveHandler() http.HandlerFunc {
	return h.withPage(func(w http.ResponseWriter, r *http.Request, p *view.Page) {
		lon, errLon := formFloat(r, "longitude")
		lat, errLat := formFloat(r, "latitude")
		zoom, errZoom := formFloat(r, "zoom")
		if err := errors.Join(errLon, errLat, errZoom); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := p.Move(models.Viewport{Longitude: lon, Latitude: lat, Zoom: zoom}); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

// POST /ui/pins/{pinID}/select
func (h *MapHandlers) PostSelectPinHandler() http.HandlerFunc {
	return h.withPage(func(w http.ResponseWriter, r *http.Request, p *view.Page) {
		if err := p.SelectPin(chi.URLParam(r, "pinID")); err != nil {
			log.Println("select pin:", err)
		}
		backToMap(w, r)
	})
}

// POST /ui/popup/close
func (h *MapHandlers) PostClosePopupHandler() http.HandlerFunc {
	return h.withPage(func(w http.ResponseWriter, r *http.Request, p *view.Page) {
		p.ClosePopup()
		backToMap(w, r)
	})
}

// POST /ui/draft
func (h *MapHandlers) PostDraftHandler() http.HandlerFunc {
	return h.withPage(func(w http.ResponseWriter, r *http.Request, p *view.Page) {
		lat, errLat := formFloat(r, "lat")
		lon, errLon := formFloat(r, "lon")
		if err := errors.Join(errLat, errLon); err != nil {
			log.Println("open draft:", err)
			backToMap(w, r)
			return
		}
		if err := p.OpenDraft(models.Location{Lat: lat, Lon: lon}); err != nil {
			log.Println("open draft:", err)
		}
		backToMap(w, r)
	})
}

// POST /ui/draft/close
func (h *MapHandlers) PostCloseDraftHandler() http.HandlerFunc {
	return h.withPage(func(w http.ResponseWriter, r *http.Request, p *view.Page) {
		p.CloseDraft()
		backToMap(w, r)
	})
}

// POST /ui/draft/submit
func (h *MapHandlers) PostSubmitDraftHandler() http.HandlerFunc {
	return h.withPage(func(w http.ResponseWriter, r *http.Request, p *view.Page) {
		rating, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("rating")))
		if err != nil {
			rating = 0
		}
		form := view.Form{
			Title:       r.PostFormValue("title"),
			Description: r.PostFormValue("description"),
			Rating:      rating,
		}
		if err := p.Submit(r.Context(), form); err != nil {
			log.Println("submit pin:", err)
		}
		backToMap(w, r)
	})
}

// POST /ui/error/dismiss
func (h *MapHandlers) PostDismissErrorHandler() http.HandlerFunc {
	return h.withPage(func(w http.ResponseWriter, r *http.Request, p *view.Page) {
		p.DismissError()
		backToMap(w, r)
	})
}

func formFloat(r *http.Request, key string) (float64, error) {
	raw := strings.TrimSpace(r.PostFormValue(key))
	if raw == "" {
		return 0, errors.New("missing form value: " + key)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New("invalid " + key)
	}
	return v, nil
}
