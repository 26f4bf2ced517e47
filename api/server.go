package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/LeoJim2/cool-travel-app-voyageur/api/auth"
	"github.com/LeoJim2/cool-travel-app-voyageur/api/client"
	"github.com/LeoJim2/cool-travel-app-voyageur/api/config"
	"github.com/LeoJim2/cool-travel-app-voyageur/api/handlers"
	"github.com/LeoJim2/cool-travel-app-voyageur/api/metrics"
	"github.com/LeoJim2/cool-travel-app-voyageur/api/middleware"
	"github.com/LeoJim2/cool-travel-app-voyageur/api/repositories"
	"github.com/LeoJim2/cool-travel-app-voyageur/api/router"
	"github.com/LeoJim2/cool-travel-app-voyageur/api/view"

	"github.com/prometheus/client_golang/prometheus"
)

type server struct {
	http  *http.Server
	pages *view.Store
	idle  time.Duration
}

func newServer(cfg *config.Config, pinRepo repositories.PinRepository) (*server, error) {
	reg := prometheus.NewRegistry()
	metrics.RegisterCollectors(reg)

	renderer, err := view.NewRenderer(cfg.Map.AccessToken, cfg.Map.Style)
	if err != nil {
		return nil, err
	}

	pins := client.NewPinClient(cfg.PinsAPI.BaseURL, cfg.PinsAPI.Timeout)
	pages := view.NewStore(func() *view.Page {
		return view.NewPage(pins, cfg.Session.CurrentUser, cfg.Map.Initial)
	})

	h := router.CreateRouter(router.Deps{
		PinRepo:     pinRepo,
		Map:         &handlers.MapHandlers{Pages: pages, Renderer: renderer},
		Signer:      auth.NewSigner(cfg.Session.Secret),
		CurrentUser: cfg.Session.CurrentUser,
		Limiter:     middleware.NewRateLimiter(cfg.Limit.RPS, cfg.Limit.Burst),
		Gatherer:    reg,
	})

	return &server{
		http: &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      h,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		pages: pages,
		idle:  cfg.Session.Idle,
	}, nil
}

// run serves until ctx is cancelled, then drains in-flight requests.
func (s *server) run(ctx context.Context) error {
	go s.sweepPages(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.Println("Server running on", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

func (s *server) sweepPages(ctx context.Context) {
	if s.idle <= 0 {
		return
	}
	t := time.NewTicker(s.idle / 2)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.pages.Sweep(now, s.idle); n > 0 {
				log.Printf("Dropped %d idle map sessions", n)
			}
		}
	}
}
