package view

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer turns a Snapshot into the map page HTML.
type Renderer struct {
	tmpl        *template.Template
	accessToken string
	style       string
}

type flyToJS struct {
	Center   [2]float64 `json:"center"`
	Duration int64      `json:"duration"`
}

type pageData struct {
	Snapshot
	AccessToken string
	Style       string
	Fly         *flyToJS
}

func NewRenderer(accessToken, style string) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl, accessToken: accessToken, style: style}, nil
}

func (r *Renderer) Render(w io.Writer, s Snapshot) error {
	data := pageData{Snapshot: s, AccessToken: r.accessToken, Style: r.style}
	if s.FlyTo != nil {
		data.Fly = &flyToJS{
			Center:   [2]float64{s.FlyTo.Center.Lon, s.FlyTo.Center.Lat},
			Duration: s.FlyTo.Duration.Milliseconds(),
		}
	}
	return r.tmpl.ExecuteTemplate(w, "map.html", data)
}
