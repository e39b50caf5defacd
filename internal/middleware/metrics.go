package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LifecycleTransitions counts successful request status transitions by kind.
	LifecycleTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "airtecs_lifecycle_transitions_total",
		Help: "Total number of successful service request transitions",
	}, []string{"transition"})

	// ConflictRejections counts transitions rejected by the CAS guard.
	ConflictRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "airtecs_conflict_rejections_total",
		Help: "Total number of transitions rejected because the request state had moved",
	}, []string{"transition"})

	// ExpiredRequestsSwept counts pending requests removed by the expiry sweep.
	ExpiredRequestsSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "airtecs_expired_requests_swept_total",
		Help: "Total number of expired pending requests deleted by the sweep",
	})

	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "airtecs_redis_error_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})
)

// InitMetrics creates the Prometheus HTTP middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware wraps the fiberprometheus middleware as a fiber.Handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
