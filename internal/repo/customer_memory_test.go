package repo

import (
	"errors"
	"testing"

	"github.com/fabbrica-mes/backoffice/internal/models"
)

func seedCustomers(t *testing.T) *InMemoryCustomerRepository {
	t.Helper()
	r := NewInMemoryCustomerRepository()
	for _, c := range []models.Customer{
		{CompanyName: "Acme Stampaggio", VATNumber: "IT001", Email: "info@acme.it"},
		{CompanyName: "Beta Plastica", VATNumber: "IT002", Email: "sales@beta.it"},
		{CompanyName: "Gamma Industrie", VATNumber: "IT003", Email: "acme-reseller@gamma.it"},
	} {
		if _, err := r.Create(c); err != nil {
			t.Fatalf("creating customer: %v", err)
		}
	}
	return r
}

func TestCustomerFilterSearch(t *testing.T) {
	r := seedCustomers(t)

	customers, total, err := r.Filter(CustomerFilter{Search: "acme"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 matches (name and email), got %d", total)
	}
	if customers[0].CompanyName != "Acme Stampaggio" {
		t.Errorf("expected alphabetical order, got %q first", customers[0].CompanyName)
	}
}

func TestCustomerFilterExcludesRemoved(t *testing.T) {
	r := seedCustomers(t)

	all, _, err := r.Filter(CustomerFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Delete(all[0].UUID); err != nil {
		t.Fatalf("deleting customer: %v", err)
	}

	remaining, total, err := r.Filter(CustomerFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 customers after soft delete, got %d", total)
	}
	for _, c := range remaining {
		if c.UUID == all[0].UUID {
			t.Error("removed customer must not appear in listings")
		}
	}

	if _, err := r.GetByUUID(all[0].UUID); !errors.Is(err, ErrCustomerNotFound) {
		t.Errorf("expected ErrCustomerNotFound for a removed customer, got %v", err)
	}

	options, err := r.GetForSelect()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(options) != 2 {
		t.Errorf("expected 2 select options, got %d", len(options))
	}
}

func TestCustomerFilterPagination(t *testing.T) {
	r := seedCustomers(t)

	offset, limit := 1, 1
	page, total, err := r.Filter(CustomerFilter{Offset: &offset, Limit: &limit})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 {
		t.Errorf("total must count all matches, got %d", total)
	}
	if len(page) != 1 || page[0].CompanyName != "Beta Plastica" {
		t.Errorf("expected the second customer alphabetically, got %+v", page)
	}

	past := 10
	empty, _, err := r.Filter(CustomerFilter{Offset: &past})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("offset past the end must return an empty page, got %d rows", len(empty))
	}
}
