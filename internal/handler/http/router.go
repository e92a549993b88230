package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/obuzietter/Messah-Enterprise/internal/service"
	"github.com/obuzietter/Messah-Enterprise/pkg/health"
	"github.com/obuzietter/Messah-Enterprise/pkg/middleware"
)

// NewRouter creates a chi router with all checkout service routes registered.
func NewRouter(
	checkoutService *service.CheckoutService,
	healthHandler *health.Handler,
	corsConfig middleware.CORSConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(corsConfig))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("checkout"))

	// Operational endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Checkout API endpoints
	checkoutHandler := NewCheckoutHandler(checkoutService, logger)

	r.Route("/api/v1/checkout", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/summary", checkoutHandler.Summary)
		r.Post("/addresses", checkoutHandler.SubmitAddress)
		r.Post("/shipping-method", checkoutHandler.SubmitShippingMethod)
		r.Post("/payment-method", checkoutHandler.SubmitPaymentMethod)
		r.Post("/order", checkoutHandler.SubmitOrder)
		r.Get("/minimum-order", checkoutHandler.CheckMinimumOrder)
		r.Get("/order/last", checkoutHandler.LastOrder)
	})

	return r
}
