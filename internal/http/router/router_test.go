package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/fabbrica-mes/backoffice/internal/auth"
	"github.com/fabbrica-mes/backoffice/internal/cache"
	"github.com/fabbrica-mes/backoffice/internal/dashboard"
	"github.com/fabbrica-mes/backoffice/internal/http/handlers"
	mw "github.com/fabbrica-mes/backoffice/internal/http/middleware"
	rl "github.com/fabbrica-mes/backoffice/internal/http/rate_limiter"
	"github.com/fabbrica-mes/backoffice/internal/http/router"
	"github.com/fabbrica-mes/backoffice/internal/models"
	"github.com/fabbrica-mes/backoffice/internal/portal"
	repo "github.com/fabbrica-mes/backoffice/internal/repo"
)

var (
	customerRepo *repo.InMemoryCustomerRepository
	offerRepo    *repo.InMemoryOfferRepository
	articleRepo  *repo.InMemoryArticleRepository
	orderRepo    *repo.InMemoryOrderRepository
	employeeRepo *repo.InMemoryEmployeeRepository
)

func init() {
	customerRepo = repo.NewInMemoryCustomerRepository()
	divisionRepo := repo.NewInMemoryDivisionRepository()
	addressRepo := repo.NewInMemoryShippingAddressRepository()
	customerRepo.LinkChildren(divisionRepo, addressRepo)

	articleRepo = repo.NewInMemoryArticleRepository()
	orderRepo = repo.NewInMemoryOrderRepository()
	offerRepo = repo.NewInMemoryOfferRepository(articleRepo, orderRepo)
	orderRepo.LinkCatalog(articleRepo, offerRepo)
	employeeRepo = repo.NewInMemoryEmployeeRepository()

	handlers.SetCustomerRepo(customerRepo)
	handlers.SetDivisionRepo(divisionRepo)
	handlers.SetShippingAddressRepo(addressRepo)
	handlers.SetOfferRepo(offerRepo)
	handlers.SetArticleRepo(articleRepo)
	handlers.SetOrderRepo(orderRepo)
	handlers.SetEmployeeRepo(employeeRepo)
	handlers.SetDashboardRepo(dashboard.NewInMemoryRepository(orderRepo, articleRepo, offerRepo, customerRepo))

	store := cache.NewMemoryStore()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	mw.SetTokenManager(tokens)
	mw.SetRevocationStore(store)
	handlers.SetCacheStore(store, time.Hour)
	handlers.SetPortalService(portal.NewService(employeeRepo, orderRepo, articleRepo, tokens, "http://printer:9100"))

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		panic(fmt.Sprintf("error hashing password: %v", err))
	}
	if _, err := employeeRepo.Create(models.Employee{
		MatriculationNumber: "M001",
		EANCode:             "8001234567890",
		FirstName:           "Mario",
		LastName:            "Rossi",
		PasswordHash:        string(hash),
		Active:              true,
	}); err != nil {
		panic(fmt.Sprintf("error creating employee: %v", err))
	}
}

func clearData() {
	customerRepo.Clear()
	offerRepo.Clear()
	articleRepo.Clear()
	orderRepo.Clear()
	rl.CleanupAllVisitors()
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("error encoding body: %v", err)
		}
		reader = bytes.NewReader(jsonBody)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r http.Handler) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/portal/authenticate", "", handlers.PortalLoginRequest{
		MatriculationNumber: "M001",
		Password:            "secret123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on login, got %d: %s", w.Code, w.Body.String())
	}

	var result portal.AuthResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("error decoding login response: %v", err)
	}
	return result.Token
}

func TestCreateCustomerHandler_Valid(t *testing.T) {
	t.Cleanup(clearData)
	r := router.NewRouter()

	w := doJSON(t, r, http.MethodPost, "/customers", "", handlers.CustomerRequest{
		CompanyName: "Acme Stampaggio",
		VATNumber:   "IT00112233445",
		Email:       "info@acme.it",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}

	var created models.Customer
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if created.CompanyName != "Acme Stampaggio" {
		t.Errorf("expected company name to round-trip, got %q", created.CompanyName)
	}
	if created.UUID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("expected a generated UUID")
	}
}

func TestCreateCustomerHandler_Invalid(t *testing.T) {
	t.Cleanup(clearData)
	r := router.NewRouter()

	w := doJSON(t, r, http.MethodPost, "/customers", "", handlers.CustomerRequest{Email: "bad"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 Bad Request, got %d", w.Code)
	}

	var errs []handlers.ValidationError
	if err := json.NewDecoder(w.Body).Decode(&errs); err != nil {
		t.Fatalf("error decoding validation errors: %v", err)
	}
	if len(errs) != 3 {
		t.Errorf("expected 3 validation errors, got %d: %+v", len(errs), errs)
	}
}

func TestCustomerLifecycle(t *testing.T) {
	t.Cleanup(clearData)
	r := router.NewRouter()

	w := doJSON(t, r, http.MethodPost, "/customers", "", handlers.CustomerRequest{
		CompanyName: "Beta Plastica",
		VATNumber:   "IT998877",
	})
	var created models.Customer
	json.NewDecoder(w.Body).Decode(&created)

	w = doJSON(t, r, http.MethodPut, "/customers/"+created.UUID.String(), "", handlers.CustomerRequest{
		CompanyName: "Beta Plastica SRL",
		VATNumber:   "IT998877",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on update, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodDelete, "/customers/"+created.UUID.String(), "", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 on delete, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/customers/"+created.UUID.String(), "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after soft delete, got %d", w.Code)
	}
}

func TestFulfillOfferEndpoint(t *testing.T) {
	t.Cleanup(clearData)
	r := router.NewRouter()

	customer, _ := customerRepo.Create(models.Customer{CompanyName: "Acme", VATNumber: "IT1"})
	offer, _ := offerRepo.Create(models.Offer{CustomerUUID: customer.UUID, Number: "OF-9", Status: models.OfferAccepted})
	articleRepo.Create(models.Article{OfferUUID: offer.UUID, Code: "A1", Quantity: 150, DeliveryDate: time.Now().AddDate(0, 1, 0)})

	w := doJSON(t, r, http.MethodPost, "/offers/"+offer.UUID.String()+"/fulfill", "", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}

	var launched []handlers.OrderResponse
	if err := json.NewDecoder(w.Body).Decode(&launched); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if len(launched) != 1 || launched[0].Quantity != 150 {
		t.Fatalf("expected one launched order of 150 pieces, got %+v", launched)
	}
	if launched[0].StatusLabel != "launched" {
		t.Errorf("expected launched status label, got %q", launched[0].StatusLabel)
	}

	w = doJSON(t, r, http.MethodPost, "/offers/"+offer.UUID.String()+"/fulfill", "", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 on a second fulfill, got %d", w.Code)
	}
}

func TestPortalRequiresToken(t *testing.T) {
	t.Cleanup(clearData)
	r := router.NewRouter()

	w := doJSON(t, r, http.MethodGet, "/portal/dashboard", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/portal/dashboard", "garbage-token", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with a garbage token, got %d", w.Code)
	}
}

func TestPortalWorkflow(t *testing.T) {
	t.Cleanup(clearData)
	r := router.NewRouter()

	order, _ := orderRepo.Create(models.Order{
		ProductionNumber: "2026/500",
		Quantity:         100,
		DeliveryDate:     time.Now().AddDate(0, 0, 10),
	})

	token := login(t, r)

	w := doJSON(t, r, http.MethodPost, "/portal/orders/"+order.UUID.String()+"/quantity", token, handlers.PortalQuantityRequest{Quantity: 40})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on quantity add, got %d: %s", w.Code, w.Body.String())
	}
	var result portal.ActionResult
	json.NewDecoder(w.Body).Decode(&result)
	if result.Order.WorkedQuantity != 40 || result.Order.Status != models.OrderInProgress {
		t.Errorf("expected 40 worked and in_progress, got %d and %s", result.Order.WorkedQuantity, result.Order.Status.Label())
	}

	w = doJSON(t, r, http.MethodPost, "/portal/orders/"+order.UUID.String()+"/suspend", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on suspend, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/portal/orders/"+order.UUID.String()+"/quantity", token, handlers.PortalQuantityRequest{Quantity: 10})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 on a suspended order, got %d", w.Code)
	}
	json.NewDecoder(w.Body).Decode(&result)
	if result.Error != "order is suspended" {
		t.Errorf("expected suspension message, got %q", result.Error)
	}
}

func TestPortalLogoutRevokesToken(t *testing.T) {
	t.Cleanup(clearData)
	r := router.NewRouter()

	token := login(t, r)

	w := doJSON(t, r, http.MethodGet, "/portal/dashboard", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 before logout, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/portal/logout", token, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 on logout, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/portal/dashboard", token, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", w.Code)
	}
}

func TestPortalAuthenticateRateLimited(t *testing.T) {
	t.Cleanup(clearData)
	r := router.NewRouter()

	var last int
	for i := 0; i < 10; i++ {
		w := doJSON(t, r, http.MethodPost, "/portal/authenticate", "", handlers.PortalLoginRequest{
			MatriculationNumber: "M001",
			Password:            "wrong",
		})
		last = w.Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after a burst of attempts, got %d", last)
	}
}

func TestDashboardStatusFilterOptions(t *testing.T) {
	t.Cleanup(clearData)
	r := router.NewRouter()

	w := doJSON(t, r, http.MethodGet, "/dashboard/filters/order-statuses", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var options []dashboard.StatusOption
	if err := json.NewDecoder(w.Body).Decode(&options); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if len(options) != 5 {
		t.Fatalf("expected 5 status options, got %d", len(options))
	}
}

func TestOrdersIndexWithStatusFilter(t *testing.T) {
	t.Cleanup(clearData)
	r := router.NewRouter()

	orderRepo.Create(models.Order{ProductionNumber: "2026/600", Quantity: 10})
	done, _ := orderRepo.Create(models.Order{ProductionNumber: "2026/601", Quantity: 10})
	done.Status = models.OrderCompleted
	done.WorkedQuantity = 10
	orderRepo.Update(done)

	w := doJSON(t, r, http.MethodGet, "/orders?status=5", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var result handlers.OrdersSearchResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if result.Meta.TotalCount != 1 || len(result.Data) != 1 {
		t.Fatalf("expected one completed order, got %d", result.Meta.TotalCount)
	}
	if result.Data[0].ProductionNumber != "2026/601" {
		t.Errorf("expected the completed order, got %q", result.Data[0].ProductionNumber)
	}
}
