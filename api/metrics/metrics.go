package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	PinsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "voyageur", Name: "pins_created_total", Help: "Number of pins stored through POST /pins."},
	)
	PinRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "voyageur", Name: "pin_requests_total", Help: "Requests to the /pins resource by operation and outcome."},
		[]string{"op", "outcome"},
	)
	ClientErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "voyageur", Name: "client_errors_total", Help: "Failed calls from the map page to the /pins resource."},
		[]string{"op"},
	)
	RateLimitRejected = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "voyageur", Name: "rate_limit_rejected_total", Help: "Requests rejected by the rate limiter."},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(PinsCreated)
	reg.MustRegister(PinRequests)
	reg.MustRegister(ClientErrors)
	reg.MustRegister(RateLimitRejected)
}
