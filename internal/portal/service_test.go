package portal

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/fabbrica-mes/backoffice/internal/auth"
	"github.com/fabbrica-mes/backoffice/internal/models"
	"github.com/fabbrica-mes/backoffice/internal/repo"
)

type fixture struct {
	service   *Service
	employees *repo.InMemoryEmployeeRepository
	orders    *repo.InMemoryOrderRepository
	articles  *repo.InMemoryArticleRepository
	employee  models.Employee
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	employees := repo.NewInMemoryEmployeeRepository()
	orders := repo.NewInMemoryOrderRepository()
	articles := repo.NewInMemoryArticleRepository()
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	employee, err := employees.Create(models.Employee{
		MatriculationNumber: "M001",
		EANCode:             "8001234567890",
		FirstName:           "Mario",
		LastName:            "Rossi",
		PasswordHash:        string(hash),
		Active:              true,
	})
	if err != nil {
		t.Fatalf("creating employee: %v", err)
	}

	return &fixture{
		service:   NewService(employees, orders, articles, tokens, "http://printer:9100"),
		employees: employees,
		orders:    orders,
		articles:  articles,
		employee:  employee,
	}
}

func (f *fixture) session() auth.Session {
	return auth.Session{
		TokenID:       "test-token",
		EmployeeUUID:  f.employee.UUID,
		Matriculation: f.employee.MatriculationNumber,
	}
}

func (f *fixture) seedOrder(t *testing.T, quantity, worked int, status models.OrderStatus) models.Order {
	t.Helper()
	order, err := f.orders.Create(models.Order{
		ProductionNumber: "2026/100",
		Quantity:         quantity,
		DeliveryDate:     time.Now().AddDate(0, 0, 14),
	})
	if err != nil {
		t.Fatalf("creating order: %v", err)
	}
	order.WorkedQuantity = worked
	order.Status = status
	order, err = f.orders.Update(order)
	if err != nil {
		t.Fatalf("updating order: %v", err)
	}
	return order
}

func TestAuthenticateCredentials(t *testing.T) {
	f := newFixture(t)

	result, err := f.service.AuthenticateCredentials("M001", "password123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.OK {
		t.Fatalf("expected successful login, got error %q", result.Error)
	}
	if result.Token == "" {
		t.Error("expected a session token")
	}
	if result.Employee != "Mario Rossi" {
		t.Errorf("expected employee name Mario Rossi, got %q", result.Employee)
	}
	if result.OrderUUID != nil {
		t.Error("credential sessions must not be bound to an order")
	}
}

func TestAuthenticateCredentialsRejections(t *testing.T) {
	f := newFixture(t)

	inactive, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if _, err := f.employees.Create(models.Employee{
		MatriculationNumber: "M002",
		EANCode:             "8009999999999",
		FirstName:           "Luca",
		LastName:            "Bianchi",
		PasswordHash:        string(inactive),
		Active:              false,
	}); err != nil {
		t.Fatalf("creating employee: %v", err)
	}

	tests := []struct {
		name          string
		matriculation string
		password      string
	}{
		{"wrong password", "M001", "wrong"},
		{"unknown matriculation", "M999", "password123"},
		{"inactive employee", "M002", "password123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := f.service.AuthenticateCredentials(tt.matriculation, tt.password)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.OK {
				t.Fatal("expected login to be rejected")
			}
			if result.Error != "invalid credentials" {
				t.Errorf("expected generic rejection message, got %q", result.Error)
			}
		})
	}
}

func TestAuthenticateCodesBindsOrder(t *testing.T) {
	f := newFixture(t)
	order := f.seedOrder(t, 100, 0, models.OrderLaunched)

	result, err := f.service.AuthenticateCodes("8001234567890", "2026/100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.OK {
		t.Fatalf("expected successful login, got error %q", result.Error)
	}
	if result.OrderUUID == nil || *result.OrderUUID != order.UUID {
		t.Error("scanned-code session must be bound to the scanned order")
	}
}

func TestAuthenticateCodesRejections(t *testing.T) {
	f := newFixture(t)
	f.seedOrder(t, 100, 100, models.OrderCompleted)

	tests := []struct {
		name         string
		employeeCode string
		orderCode    string
		wantError    string
	}{
		{"unknown employee code", "0000000000000", "2026/100", "unknown employee code"},
		{"unknown order code", "8001234567890", "2026/999", "unknown order code"},
		{"closed order", "8001234567890", "2026/100", "order already closed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := f.service.AuthenticateCodes(tt.employeeCode, tt.orderCode)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.OK {
				t.Fatal("expected login to be rejected")
			}
			if result.Error != tt.wantError {
				t.Errorf("expected error %q, got %q", tt.wantError, result.Error)
			}
		})
	}
}

func TestAddManualQuantity(t *testing.T) {
	f := newFixture(t)
	order := f.seedOrder(t, 100, 50, models.OrderInProgress)

	result, err := f.service.AddManualQuantity(f.session(), order.UUID, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.OK {
		t.Fatalf("expected success, got error %q", result.Error)
	}
	if result.Order.WorkedQuantity != 70 {
		t.Errorf("expected worked quantity 70, got %d", result.Order.WorkedQuantity)
	}
	if result.Order.Status != models.OrderInProgress {
		t.Errorf("expected status to stay in_progress, got %s", result.Order.Status.Label())
	}
	if result.AppliedQuantity != 20 {
		t.Errorf("expected applied quantity 20, got %d", result.AppliedQuantity)
	}
}

func TestAddManualQuantityCompletesOrder(t *testing.T) {
	f := newFixture(t)
	order := f.seedOrder(t, 100, 90, models.OrderInProgress)

	result, err := f.service.AddManualQuantity(f.session(), order.UUID, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.OK {
		t.Fatalf("expected success, got error %q", result.Error)
	}
	if result.Order.Status != models.OrderCompleted {
		t.Errorf("expected completed status, got %s", result.Order.Status.Label())
	}
	if result.Order.CompletedAt == nil {
		t.Error("expected CompletedAt to be set")
	}
	if result.Order.RemainingQuantity() != 0 {
		t.Errorf("expected no remaining quantity, got %d", result.Order.RemainingQuantity())
	}
}

func TestAddManualQuantityClampsAtContractedQuantity(t *testing.T) {
	f := newFixture(t)
	order := f.seedOrder(t, 100, 95, models.OrderInProgress)

	result, err := f.service.AddManualQuantity(f.session(), order.UUID, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.OK {
		t.Fatalf("expected success, got error %q", result.Error)
	}
	if result.AppliedQuantity != 5 {
		t.Errorf("expected applied quantity clamped to 5, got %d", result.AppliedQuantity)
	}
	if result.Order.WorkedQuantity != 100 {
		t.Errorf("expected worked quantity 100, got %d", result.Order.WorkedQuantity)
	}
	if result.Order.Status != models.OrderCompleted {
		t.Errorf("expected completed status, got %s", result.Order.Status.Label())
	}
}

func TestAddManualQuantityOnSuspendedOrder(t *testing.T) {
	f := newFixture(t)
	order := f.seedOrder(t, 100, 40, models.OrderInProgress)

	if _, err := f.service.SuspendOrder(f.session(), order.UUID); err != nil {
		t.Fatalf("suspending order: %v", err)
	}

	result, err := f.service.AddManualQuantity(f.session(), order.UUID, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.OK {
		t.Fatal("expected rejection on a suspended order")
	}
	if result.Error != "order is suspended" {
		t.Errorf("expected suspension message, got %q", result.Error)
	}

	after, err := f.orders.GetByUUID(order.UUID)
	if err != nil {
		t.Fatalf("fetching order: %v", err)
	}
	if after.WorkedQuantity != 40 {
		t.Errorf("worked quantity must not change on rejection, got %d", after.WorkedQuantity)
	}
}

func TestSuspendTwiceRejected(t *testing.T) {
	f := newFixture(t)
	order := f.seedOrder(t, 100, 10, models.OrderInProgress)

	first, err := f.service.SuspendOrder(f.session(), order.UUID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.OK {
		t.Fatalf("expected first suspend to succeed, got %q", first.Error)
	}

	second, err := f.service.SuspendOrder(f.session(), order.UUID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.OK {
		t.Fatal("expected second suspend to be rejected")
	}
	if second.Error != "order is suspended" {
		t.Errorf("expected suspension message, got %q", second.Error)
	}
}

func TestAddPalletQuantity(t *testing.T) {
	f := newFixture(t)

	article, err := f.articles.Create(models.Article{
		Code:              "ART-1",
		Quantity:          500,
		PiecesPerPackage:  12,
		PackagesPerPallet: 4,
	})
	if err != nil {
		t.Fatalf("creating article: %v", err)
	}

	order, err := f.orders.Create(models.Order{
		ArticleUUID:      article.UUID,
		ProductionNumber: "2026/200",
		Quantity:         500,
		DeliveryDate:     time.Now().AddDate(0, 0, 30),
	})
	if err != nil {
		t.Fatalf("creating order: %v", err)
	}

	result, err := f.service.AddPalletQuantity(f.session(), order.UUID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.OK {
		t.Fatalf("expected success, got error %q", result.Error)
	}
	if result.AppliedQuantity != 48 {
		t.Errorf("expected pallet increment 48 (12x4), got %d", result.AppliedQuantity)
	}
	if result.Order.Status != models.OrderInProgress {
		t.Errorf("first increment must move a launched order to in_progress, got %s", result.Order.Status.Label())
	}
	wantURL := "http://printer:9100/labels/" + order.UUID.String()
	if result.LabelURL != wantURL {
		t.Errorf("expected label URL %q, got %q", wantURL, result.LabelURL)
	}
}

func TestConfirmAutocontrolloIdempotent(t *testing.T) {
	f := newFixture(t)
	order := f.seedOrder(t, 100, 10, models.OrderInProgress)

	first, err := f.service.ConfirmAutocontrollo(f.session(), order.UUID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.OK || first.AlreadyConfirmed {
		t.Fatalf("expected fresh confirmation, got ok=%v already=%v", first.OK, first.AlreadyConfirmed)
	}
	if !first.Order.Autocontrollo {
		t.Error("expected autocontrollo flag to be set")
	}

	second, err := f.service.ConfirmAutocontrollo(f.session(), order.UUID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.OK || !second.AlreadyConfirmed {
		t.Fatalf("expected idempotent no-op, got ok=%v already=%v", second.OK, second.AlreadyConfirmed)
	}
}

func TestOrderBoundSessionRestrictedToItsOrder(t *testing.T) {
	f := newFixture(t)
	bound := f.seedOrder(t, 100, 0, models.OrderLaunched)
	other, err := f.orders.Create(models.Order{
		ProductionNumber: "2026/300",
		Quantity:         50,
		DeliveryDate:     time.Now().AddDate(0, 0, 21),
	})
	if err != nil {
		t.Fatalf("creating order: %v", err)
	}

	session := f.session()
	session.OrderUUID = &bound.UUID

	result, err := f.service.AddManualQuantity(session, other.UUID, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.OK {
		t.Fatal("expected order-bound session to be rejected for another order")
	}
	if result.Error != "session not authorized for this order" {
		t.Errorf("unexpected rejection message %q", result.Error)
	}

	orders, err := f.service.InFlightOrders(session)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 1 || orders[0].UUID != bound.UUID {
		t.Errorf("order-bound session must only see its own order, got %d orders", len(orders))
	}
}

func TestInFlightOrdersSortedByDelivery(t *testing.T) {
	f := newFixture(t)

	late, _ := f.orders.Create(models.Order{ProductionNumber: "2026/401", Quantity: 10, DeliveryDate: time.Now().AddDate(0, 0, 30)})
	soon, _ := f.orders.Create(models.Order{ProductionNumber: "2026/402", Quantity: 10, DeliveryDate: time.Now().AddDate(0, 0, 3)})
	done, _ := f.orders.Create(models.Order{ProductionNumber: "2026/403", Quantity: 10, DeliveryDate: time.Now().AddDate(0, 0, 1)})
	done.Status = models.OrderCompleted
	done.WorkedQuantity = 10
	if _, err := f.orders.Update(done); err != nil {
		t.Fatalf("updating order: %v", err)
	}

	orders, err := f.service.InFlightOrders(f.session())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 in-flight orders, got %d", len(orders))
	}
	if orders[0].UUID != soon.UUID || orders[1].UUID != late.UUID {
		t.Error("expected in-flight orders sorted by delivery date ascending")
	}
}
