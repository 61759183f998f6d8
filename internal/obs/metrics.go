package obs

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ForwardAuthDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forwardauth_decisions_total",
		Help: "Forward-auth decisions by result.",
	}, []string{"result"})

	LoginSessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "login_sessions_created_total",
		Help: "Login sessions issued.",
	})

	LoginSessionSweeps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "login_session_sweeps_total",
		Help: "Expired login session sweeps by outcome.",
	}, []string{"outcome"})

	ConsentDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "consent_decisions_total",
		Help: "Consent submissions by flow and action.",
	}, []string{"kind", "action"})
)

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// HealthHandler answers 200 while health returns nil and 503 otherwise.
func HealthHandler(health func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := health(ctx); err != nil {
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
