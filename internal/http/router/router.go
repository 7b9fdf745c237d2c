package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fabbrica-mes/backoffice/internal/http/handlers"
	mw "github.com/fabbrica-mes/backoffice/internal/http/middleware"
	rl "github.com/fabbrica-mes/backoffice/internal/http/rate_limiter"
)

func NewRouter() http.Handler {
	r := chi.NewRouter()

	r.Route("/customers", func(r chi.Router) {
		r.Post("/", handlers.CreateCustomerHandler)
		r.Get("/", handlers.FilterCustomersHandler)
		r.Get("/select", handlers.GetCustomersForSelectHandler)
		r.Get("/form-options", handlers.GetCustomerFormOptionsHandler)
		r.Get("/{uuid}", handlers.GetCustomerByUUIDHandler)
		r.Put("/{uuid}", handlers.UpdateCustomerHandler)
		r.Delete("/{uuid}", handlers.DeleteCustomerHandler)
		r.Get("/{uuid}/divisions", handlers.GetDivisionsByCustomerHandler)
		r.Post("/{uuid}/divisions", handlers.CreateDivisionHandler)
		r.Get("/{uuid}/shipping-addresses", handlers.GetShippingAddressesByCustomerHandler)
		r.Post("/{uuid}/shipping-addresses", handlers.CreateShippingAddressHandler)
	})

	r.Route("/divisions", func(r chi.Router) {
		r.Put("/{uuid}", handlers.UpdateDivisionHandler)
		r.Delete("/{uuid}", handlers.DeleteDivisionHandler)
	})

	r.Route("/shipping-addresses", func(r chi.Router) {
		r.Put("/{uuid}", handlers.UpdateShippingAddressHandler)
		r.Delete("/{uuid}", handlers.DeleteShippingAddressHandler)
	})

	r.Route("/offers", func(r chi.Router) {
		r.Post("/", handlers.CreateOfferHandler)
		r.Get("/", handlers.FilterOffersHandler)
		r.Get("/select", handlers.GetOffersForSelectHandler)
		r.Get("/{uuid}", handlers.GetOfferByUUIDHandler)
		r.Put("/{uuid}", handlers.UpdateOfferHandler)
		r.Delete("/{uuid}", handlers.DeleteOfferHandler)
		r.Get("/{uuid}/articles", handlers.GetArticlesByOfferHandler)
		r.Post("/{uuid}/fulfill", handlers.FulfillOfferHandler)
	})

	r.Route("/articles", func(r chi.Router) {
		r.Post("/", handlers.CreateArticleHandler)
		r.Get("/", handlers.FilterArticlesHandler)
		r.Get("/select", handlers.GetArticlesForSelectHandler)
		r.Get("/{uuid}", handlers.GetArticleByUUIDHandler)
		r.Put("/{uuid}", handlers.UpdateArticleHandler)
		r.Delete("/{uuid}", handlers.DeleteArticleHandler)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", handlers.FilterOrdersHandler)
		r.Get("/{uuid}", handlers.GetOrderByUUIDHandler)
		r.Put("/{uuid}", handlers.UpdateOrderHandler)
		r.Delete("/{uuid}", handlers.DeleteOrderHandler)
	})

	r.Route("/employees", func(r chi.Router) {
		r.Post("/", handlers.CreateEmployeeHandler)
		r.Get("/", handlers.FilterEmployeesHandler)
		r.Get("/{uuid}", handlers.GetEmployeeByUUIDHandler)
		r.Put("/{uuid}", handlers.UpdateEmployeeHandler)
		r.Delete("/{uuid}", handlers.DeleteEmployeeHandler)
	})

	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/statistics", handlers.GetStatisticsHandler)
		r.Get("/urgent-orders", handlers.GetUrgentOrdersHandler)
		r.Get("/recent-orders", handlers.GetRecentOrdersHandler)
		r.Get("/top-customers", handlers.GetTopCustomersHandler)
		r.Get("/top-articles", handlers.GetTopArticlesHandler)
		r.Get("/performance", handlers.GetPerformanceMetricsHandler)
		r.Get("/comparison", handlers.GetComparisonStatsHandler)
		r.Get("/production-progress", handlers.GetProductionProgressHandler)
		r.Get("/orders-trend", handlers.GetOrdersTrendHandler)
		r.Get("/filters/customers", handlers.GetCustomerFilterOptionsHandler)
		r.Get("/filters/order-statuses", handlers.GetOrderStatusFilterOptionsHandler)
	})

	r.Route("/portal", func(r chi.Router) {
		r.With(rl.Limit).Post("/authenticate", handlers.PortalAuthenticateHandler)

		r.Group(func(r chi.Router) {
			r.Use(mw.PortalAuth)
			r.Get("/dashboard", handlers.PortalDashboardHandler)
			r.Get("/orders/{uuid}", handlers.PortalOrderHandler)
			r.Post("/orders/{uuid}/pallet", handlers.PortalAddPalletHandler)
			r.Post("/orders/{uuid}/quantity", handlers.PortalAddQuantityHandler)
			r.Post("/orders/{uuid}/suspend", handlers.PortalSuspendHandler)
			r.Post("/orders/{uuid}/autocontrollo", handlers.PortalAutocontrolloHandler)
			r.Post("/logout", handlers.PortalLogoutHandler)
		})
	})

	return r
}
