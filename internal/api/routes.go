package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures all API routes.
func SetupRoutes(h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	// CORS - the dashboard frontend runs on its own origin in dev
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Link"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		// Dashboard - headline indicators in one call
		r.Get("/dashboard", h.GetDashboard)

		// Filter option lists for the sidebar
		r.Get("/filters/options", h.GetFilterOptions)

		// Indicator routes; all accept the shared filter query params
		r.Route("/indicators", func(r chi.Router) {
			r.Get("/revenue", h.GetRevenue)
			r.Get("/revenue/daily", h.GetDailyRevenue)
			r.Get("/revenue/monthly", h.GetMonthlyRevenue)
			r.Get("/revenue/seasonal", h.GetSeasonalVariation)
			r.Get("/revenue/country", h.GetRevenueByCountry)
			r.Get("/customers", h.GetCustomerIndicators)
			r.Get("/products", h.GetProductIndicators)
			r.Get("/transactions", h.GetTransactionIndicators)
		})

		// Churn cohorts
		r.Route("/churn", func(r chi.Router) {
			r.Get("/summary", h.GetChurnSummary)
			r.Get("/{window}/products", h.GetChurnProducts)
		})

		// Customer segmentation
		r.Get("/segments", h.GetSegments)
		r.Get("/segments/{customerID}", h.GetCustomerSegment)

		// Narrative reports
		r.Route("/reports", func(r chi.Router) {
			r.Get("/sales", h.GetSalesReport)
			r.Get("/technical", h.GetTechnicalReport)
		})
	})

	return r
}
