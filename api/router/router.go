package router

import (
	"encoding/json"
	"net/http"

	"github.com/LeoJim2/cool-travel-app-voyageur/api/auth"
	"github.com/LeoJim2/cool-travel-app-voyageur/api/handlers"
	"github.com/LeoJim2/cool-travel-app-voyageur/api/middleware"
	"github.com/LeoJim2/cool-travel-app-voyageur/api/repositories"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	PinRepo     repositories.PinRepository
	Map         *handlers.MapHandlers
	Signer      *auth.Signer
	CurrentUser string
	Limiter     *middleware.RateLimiter
	Gatherer    prometheus.Gatherer
}

func CreateRouter(d Deps) chi.Router {
	r := chi.NewRouter()

	// Simple health endpoint
	r.Get("/hello", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Hello, world!"})
	})

	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/pins", func(r chi.Router) {
		r.Get("/", handlers.GetPinsHandler(d.PinRepo))
		r.With(d.Limiter.RemoteMiddleware).Post("/", handlers.PostPinsHandler(d.PinRepo))
	})

	r.Group(func(r chi.Router) {
		r.Use(d.Signer.SessionMiddleware(d.CurrentUser))
		r.Get("/", d.Map.GetMapHandler())
		r.Route("/ui", func(r chi.Router) {
			r.Post("/move", d.Map.PostMoveHandler())
			r.Post("/pins/{pinID}/select", d.Map.PostSelectPinHandler())
			r.Post("/popup/close", d.Map.PostClosePopupHandler())
			r.Post("/draft", d.Map.PostDraftHandler())
			r.Post("/draft/close", d.Map.PostCloseDraftHandler())
			r.With(d.Limiter.Middleware).Post("/draft/submit", d.Map.PostSubmitDraftHandler())
			r.Post("/error/dismiss", d.Map.PostDismissErrorHandler())
		})
	})

	return r
}
