package handlers

import (
	"time"

	"github.com/fabbrica-mes/backoffice/internal/cache"
	"github.com/fabbrica-mes/backoffice/internal/dashboard"
	"github.com/fabbrica-mes/backoffice/internal/portal"
	repo "github.com/fabbrica-mes/backoffice/internal/repo"
)

var (
	customerRepo        repo.CustomerRepository
	divisionRepo        repo.DivisionRepository
	shippingAddressRepo repo.ShippingAddressRepository
	offerRepo           repo.OfferRepository
	articleRepo         repo.ArticleRepository
	orderRepo           repo.OrderRepository
	employeeRepo        repo.EmployeeRepository

	dashboardRepo dashboard.Repository
	portalService *portal.Service

	cacheStore cache.Store
	sessionTTL = 8 * time.Hour

	urgentHorizonDays = 7
)

func SetCustomerRepo(r repo.CustomerRepository) {
	customerRepo = r
}

func SetDivisionRepo(r repo.DivisionRepository) {
	divisionRepo = r
}

func SetShippingAddressRepo(r repo.ShippingAddressRepository) {
	shippingAddressRepo = r
}

func SetOfferRepo(r repo.OfferRepository) {
	offerRepo = r
}

func SetArticleRepo(r repo.ArticleRepository) {
	articleRepo = r
}

func SetOrderRepo(r repo.OrderRepository) {
	orderRepo = r
}

func SetEmployeeRepo(r repo.EmployeeRepository) {
	employeeRepo = r
}

func SetDashboardRepo(r dashboard.Repository) {
	dashboardRepo = r
}

func SetPortalService(s *portal.Service) {
	portalService = s
}

// SetCacheStore wires the cache used for logout token revocation; the TTL
// must cover the session token lifetime so a revoked token stays revoked
// until it expires on its own.
func SetCacheStore(s cache.Store, tokenTTL time.Duration) {
	cacheStore = s
	if tokenTTL > 0 {
		sessionTTL = tokenTTL
	}
}

func SetUrgentHorizonDays(days int) {
	if days > 0 {
		urgentHorizonDays = days
	}
}
