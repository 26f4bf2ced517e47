package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/LeoJim2/cool-travel-app-voyageur/api/dtos"
	"github.com/LeoJim2/cool-travel-app-voyageur/api/metrics"
	"github.com/LeoJim2/cool-travel-app-voyageur/api/repositories"
)

const maxPinBodyBytes = 16 << 10

// GET /pins
func GetPinsHandler(pinRepo repositories.PinRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pins, err := pinRepo.ListPins(r.Context())
		if err != nil {
			log.Println("list pins:", err)
			metrics.PinRequests.WithLabelValues("list", "error").Inc()
			http.Error(w, "unable to fetch pins", http.StatusInternalServerError)
			return
		}
		metrics.PinRequests.WithLabelValues("list", "ok").Inc()

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(dtos.NewPinList(pins)); err != nil {
			log.Println("encode pins response:", err)
		}
	}
}

// POST /pins
func PostPinsHandler(pinRepo repositories.PinRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.CreatePinRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPinBodyBytes)).Decode(&req); err != nil {
			metrics.PinRequests.WithLabelValues("create", "invalid").Inc()
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		pin := req.ToModel()
		if err := pin.Validate(); err != nil {
			metrics.PinRequests.WithLabelValues("create", "invalid").Inc()
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := pinRepo.CreatePin(r.Context(), &pin); err != nil {
			log.Println("create pin:", err)
			metrics.PinRequests.WithLabelValues("create", "error").Inc()
			http.Error(w, "unable to create pin", http.StatusInternalServerError)
			return
		}
		metrics.PinRequests.WithLabelValues("create", "ok").Inc()
		metrics.PinsCreated.Inc()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(dtos.NewPin(pin)); err != nil {
			log.Println("encode created pin:", err)
		}
	}
}
