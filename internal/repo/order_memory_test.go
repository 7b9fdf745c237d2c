package repo

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fabbrica-mes/backoffice/internal/models"
	"github.com/google/uuid"
)

func TestAddWorkedQuantityValidation(t *testing.T) {
	r := NewInMemoryOrderRepository()
	order, _ := r.Create(models.Order{ProductionNumber: "P/1", Quantity: 100})

	if _, _, err := r.AddWorkedQuantity(order.UUID, 0); err == nil {
		t.Error("expected rejection of a zero delta")
	}
	if _, _, err := r.AddWorkedQuantity(order.UUID, -5); err == nil {
		t.Error("expected rejection of a negative delta")
	}
	if _, _, err := r.AddWorkedQuantity(uuid.New(), 10); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestAddWorkedQuantityConcurrent(t *testing.T) {
	r := NewInMemoryOrderRepository()
	order, _ := r.Create(models.Order{ProductionNumber: "P/1", Quantity: 1000})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if _, _, err := r.AddWorkedQuantity(order.UUID, 1); err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	after, err := r.GetByUUID(order.UUID)
	if err != nil {
		t.Fatalf("fetching order: %v", err)
	}
	if after.WorkedQuantity != 100 {
		t.Errorf("expected 100 after 100 unit increments, got %d", after.WorkedQuantity)
	}
}

func TestSuspendTerminalOrder(t *testing.T) {
	r := NewInMemoryOrderRepository()
	order, _ := r.Create(models.Order{ProductionNumber: "P/1", Quantity: 10})

	if _, _, err := r.AddWorkedQuantity(order.UUID, 10); err != nil {
		t.Fatalf("completing order: %v", err)
	}

	if _, err := r.Suspend(order.UUID); !errors.Is(err, ErrOrderTerminal) {
		t.Errorf("expected ErrOrderTerminal on a completed order, got %v", err)
	}
	if _, _, err := r.AddWorkedQuantity(order.UUID, 1); !errors.Is(err, ErrOrderTerminal) {
		t.Errorf("expected ErrOrderTerminal on further increments, got %v", err)
	}
}

func TestGetByProductionNumber(t *testing.T) {
	r := NewInMemoryOrderRepository()
	order, _ := r.Create(models.Order{ProductionNumber: "2026/42", Quantity: 10})

	found, err := r.GetByProductionNumber("2026/42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.UUID != order.UUID {
		t.Error("expected the seeded order")
	}

	if err := r.Delete(order.UUID); err != nil {
		t.Fatalf("deleting order: %v", err)
	}
	if _, err := r.GetByProductionNumber("2026/42"); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("removed orders must not resolve by production number, got %v", err)
	}
}

func TestOrderFilterByStatusAndWindow(t *testing.T) {
	r := NewInMemoryOrderRepository()
	now := time.Now().UTC()

	r.Seed(models.Order{ProductionNumber: "old/1", Quantity: 10, Status: models.OrderLaunched, CreatedAt: now.AddDate(0, 0, -10)})
	r.Seed(models.Order{ProductionNumber: "new/1", Quantity: 10, Status: models.OrderLaunched, CreatedAt: now})
	r.Seed(models.Order{ProductionNumber: "new/2", Quantity: 10, Status: models.OrderCompleted, CreatedAt: now})

	from := now.AddDate(0, 0, -1)
	orders, total, err := r.Filter(OrderFilter{
		Statuses: []models.OrderStatus{models.OrderLaunched},
		From:     &from,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || orders[0].ProductionNumber != "new/1" {
		t.Errorf("expected only the recent launched order, got %d rows", total)
	}
}

func TestFulfillOfferLaunchesOrders(t *testing.T) {
	articles := NewInMemoryArticleRepository()
	orders := NewInMemoryOrderRepository()
	offers := NewInMemoryOfferRepository(articles, orders)

	offer, _ := offers.Create(models.Offer{Number: "OF-7", Status: models.OfferAccepted})
	delivery := time.Now().AddDate(0, 1, 0)
	articles.Create(models.Article{OfferUUID: offer.UUID, Code: "A1", Quantity: 120, DeliveryDate: delivery})
	articles.Create(models.Article{OfferUUID: offer.UUID, Code: "A2", Quantity: 80, DeliveryDate: delivery})

	launched, err := offers.Fulfill(offer.UUID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(launched) != 2 {
		t.Fatalf("expected one order per article, got %d", len(launched))
	}
	for i, o := range launched {
		if o.Status != models.OrderLaunched {
			t.Errorf("order %d: expected launched status, got %s", i, o.Status.Label())
		}
	}
	if launched[0].ProductionNumber != "OF-7/1" || launched[1].ProductionNumber != "OF-7/2" {
		t.Errorf("unexpected production numbers %q, %q", launched[0].ProductionNumber, launched[1].ProductionNumber)
	}
	if launched[0].Quantity != 120 || launched[1].Quantity != 80 {
		t.Error("order quantities must come from the articles")
	}

	updated, err := offers.GetByUUID(offer.UUID)
	if err != nil {
		t.Fatalf("fetching offer: %v", err)
	}
	if updated.Status != models.OfferFulfilled {
		t.Errorf("expected fulfilled offer, got %s", updated.Status)
	}

	if _, err := offers.Fulfill(offer.UUID); !errors.Is(err, ErrOfferAlreadyFulfilled) {
		t.Errorf("expected ErrOfferAlreadyFulfilled on a second fulfill, got %v", err)
	}
}
