package dashboard

import (
	"fmt"
	"testing"
	"time"

	"github.com/fabbrica-mes/backoffice/internal/models"
	"github.com/fabbrica-mes/backoffice/internal/repo"
)

type testData struct {
	dash      *InMemoryRepository
	customers *repo.InMemoryCustomerRepository
	offers    *repo.InMemoryOfferRepository
	articles  *repo.InMemoryArticleRepository
	orders    *repo.InMemoryOrderRepository
}

func newTestData(t *testing.T) *testData {
	t.Helper()

	customers := repo.NewInMemoryCustomerRepository()
	articles := repo.NewInMemoryArticleRepository()
	orders := repo.NewInMemoryOrderRepository()
	offers := repo.NewInMemoryOfferRepository(articles, orders)
	orders.LinkCatalog(articles, offers)

	return &testData{
		dash:      NewInMemoryRepository(orders, articles, offers, customers),
		customers: customers,
		offers:    offers,
		articles:  articles,
		orders:    orders,
	}
}

// seedCustomerOrders creates a customer with one offer, one article and the
// requested number of orders against it.
func (d *testData) seedCustomerOrders(t *testing.T, name string, orderCount int) models.Customer {
	t.Helper()

	customer, err := d.customers.Create(models.Customer{CompanyName: name, VATNumber: "IT" + name})
	if err != nil {
		t.Fatalf("creating customer: %v", err)
	}
	offer, err := d.offers.Create(models.Offer{CustomerUUID: customer.UUID, Number: "OF-" + name, Status: models.OfferAccepted})
	if err != nil {
		t.Fatalf("creating offer: %v", err)
	}
	article, err := d.articles.Create(models.Article{OfferUUID: offer.UUID, Code: "ART-" + name, Quantity: 100})
	if err != nil {
		t.Fatalf("creating article: %v", err)
	}
	for i := 0; i < orderCount; i++ {
		if _, err := d.orders.Create(models.Order{
			ArticleUUID:      article.UUID,
			ProductionNumber: fmt.Sprintf("%s/%d", name, i+1),
			Quantity:         100,
			DeliveryDate:     time.Now().AddDate(0, 0, 14),
		}); err != nil {
			t.Fatalf("creating order: %v", err)
		}
	}
	return customer
}

func TestGetOrderStatusesForFilter(t *testing.T) {
	d := newTestData(t)

	options := d.dash.GetOrderStatusesForFilter()
	if len(options) != 5 {
		t.Fatalf("expected exactly 5 status options, got %d", len(options))
	}

	want := map[int]string{2: "launched", 3: "in_progress", 4: "suspended", 5: "completed", 6: "evaded"}
	for _, opt := range options {
		if want[opt.Value] != opt.Label {
			t.Errorf("status %d: expected label %q, got %q", opt.Value, want[opt.Value], opt.Label)
		}
	}
}

func TestGetTopCustomers(t *testing.T) {
	d := newTestData(t)

	counts := []int{10, 9, 8, 7, 6, 5}
	for i, c := range counts {
		d.seedCustomerOrders(t, fmt.Sprintf("C%d", i), c)
	}

	ranks, err := d.dash.GetTopCustomers(DateRange{}, 5, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranks) != 5 {
		t.Fatalf("expected 5 customers, got %d", len(ranks))
	}
	for i, want := range []int{10, 9, 8, 7, 6} {
		if ranks[i].OrderCount != want {
			t.Errorf("rank %d: expected %d orders, got %d", i, want, ranks[i].OrderCount)
		}
	}
	if ranks[0].CompanyName != "C0" {
		t.Errorf("expected C0 on top, got %q", ranks[0].CompanyName)
	}
}

func TestGetTopCustomersScopedToOne(t *testing.T) {
	d := newTestData(t)

	big := d.seedCustomerOrders(t, "Big", 4)
	d.seedCustomerOrders(t, "Small", 1)

	ranks, err := d.dash.GetTopCustomers(DateRange{}, 5, &big.UUID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranks) != 1 || ranks[0].UUID != big.UUID {
		t.Fatalf("expected only the scoped customer, got %d rows", len(ranks))
	}
}

func TestGetTopArticlesSumsQuantities(t *testing.T) {
	d := newTestData(t)

	customer, _ := d.customers.Create(models.Customer{CompanyName: "Acme", VATNumber: "IT123"})
	offer, _ := d.offers.Create(models.Offer{CustomerUUID: customer.UUID, Number: "OF-1"})
	heavy, _ := d.articles.Create(models.Article{OfferUUID: offer.UUID, Code: "HEAVY"})
	light, _ := d.articles.Create(models.Article{OfferUUID: offer.UUID, Code: "LIGHT"})

	for _, q := range []int{300, 200} {
		d.orders.Create(models.Order{ArticleUUID: heavy.UUID, ProductionNumber: fmt.Sprintf("H/%d", q), Quantity: q})
	}
	d.orders.Create(models.Order{ArticleUUID: light.UUID, ProductionNumber: "L/1", Quantity: 100})

	ranks, err := d.dash.GetTopArticles(DateRange{}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranks) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(ranks))
	}
	if ranks[0].Code != "HEAVY" || ranks[0].TotalQuantity != 500 {
		t.Errorf("expected HEAVY with 500, got %q with %d", ranks[0].Code, ranks[0].TotalQuantity)
	}
	if ranks[1].Code != "LIGHT" || ranks[1].TotalQuantity != 100 {
		t.Errorf("expected LIGHT with 100, got %q with %d", ranks[1].Code, ranks[1].TotalQuantity)
	}
}

func TestGetStatistics(t *testing.T) {
	d := newTestData(t)
	customer := d.seedCustomerOrders(t, "Acme", 2)

	orders, _, err := d.orders.Filter(repo.OrderFilter{})
	if err != nil {
		t.Fatalf("listing orders: %v", err)
	}
	completed := orders[0]
	completed.Status = models.OrderCompleted
	completed.WorkedQuantity = 100
	if _, err := d.orders.Update(completed); err != nil {
		t.Fatalf("updating order: %v", err)
	}

	stats, err := d.dash.GetStatistics(DateRange{}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalOrders != 2 {
		t.Errorf("expected 2 orders, got %d", stats.TotalOrders)
	}
	if stats.OrdersByStatus["completed"] != 1 || stats.OrdersByStatus["launched"] != 1 {
		t.Errorf("unexpected status breakdown: %v", stats.OrdersByStatus)
	}
	if stats.TotalProduced != 100 || stats.TotalRequested != 200 {
		t.Errorf("expected produced 100 of 200, got %d of %d", stats.TotalProduced, stats.TotalRequested)
	}
	if stats.TotalCustomers != 1 || stats.TotalOffers != 1 || stats.TotalArticles != 1 {
		t.Errorf("unexpected entity counts: %+v", stats)
	}

	scoped, err := d.dash.GetStatistics(DateRange{}, &customer.UUID, []int{int(models.OrderCompleted)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scoped.TotalOrders != 1 {
		t.Errorf("expected 1 completed order for the customer, got %d", scoped.TotalOrders)
	}
}

func TestGetComparisonStats(t *testing.T) {
	d := newTestData(t)

	now := time.Date(2026, time.March, 11, 12, 0, 0, 0, time.UTC)
	d.dash.SetNow(func() time.Time { return now })

	d.orders.Seed(models.Order{
		ProductionNumber: "today/1",
		Quantity:         100,
		WorkedQuantity:   30,
		Status:           models.OrderInProgress,
		CreatedAt:        now.Add(-2 * time.Hour),
	})
	d.orders.Seed(models.Order{
		ProductionNumber: "yesterday/1",
		Quantity:         100,
		WorkedQuantity:   10,
		Status:           models.OrderInProgress,
		CreatedAt:        now.AddDate(0, 0, -1),
	})

	stats, err := d.dash.GetComparisonStats(PeriodDay, DateRange{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats == nil {
		t.Fatal("expected comparison stats for period=day")
	}
	if stats.Current.Orders != 1 || stats.Previous.Orders != 1 {
		t.Errorf("expected 1 order in each window, got %d and %d", stats.Current.Orders, stats.Previous.Orders)
	}
	if stats.ProducedDelta != 20 {
		t.Errorf("expected produced delta 20, got %d", stats.ProducedDelta)
	}
	if stats.OrdersChangePct != 0 {
		t.Errorf("expected flat order change, got %v", stats.OrdersChangePct)
	}
}

func TestGetComparisonStatsAllPeriod(t *testing.T) {
	d := newTestData(t)

	stats, err := d.dash.GetComparisonStats(PeriodAll, DateRange{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats != nil {
		t.Error("period=all has no prior window and must return nil")
	}
}

func TestGetProductionProgressData(t *testing.T) {
	d := newTestData(t)

	now := time.Now().UTC()
	d.dash.SetNow(func() time.Time { return now })

	d.orders.Seed(models.Order{
		ProductionNumber: "urgent/1",
		Quantity:         200,
		WorkedQuantity:   50,
		Status:           models.OrderInProgress,
		DeliveryDate:     now.AddDate(0, 0, 3),
		CreatedAt:        now,
	})
	d.orders.Seed(models.Order{
		ProductionNumber: "relaxed/1",
		Quantity:         100,
		WorkedQuantity:   100,
		Status:           models.OrderCompleted,
		DeliveryDate:     now.AddDate(0, 0, 30),
		CreatedAt:        now,
	})
	d.orders.Seed(models.Order{
		ProductionNumber: "relaxed/2",
		Quantity:         100,
		WorkedQuantity:   25,
		Status:           models.OrderLaunched,
		DeliveryDate:     now.AddDate(0, 0, 30),
		CreatedAt:        now,
	})

	rows, err := d.dash.GetProductionProgressData(7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 open orders, got %d", len(rows))
	}
	if rows[0].ProductionNumber != "urgent/1" || !rows[0].Urgent {
		t.Errorf("expected the urgent order first and flagged, got %+v", rows[0])
	}
	if rows[0].Percent != 25 {
		t.Errorf("expected 25%% progress, got %v", rows[0].Percent)
	}
	if rows[1].Urgent {
		t.Error("order due in 30 days must not be urgent with a 7-day horizon")
	}
}

func TestGetOrdersTrend(t *testing.T) {
	d := newTestData(t)

	day1 := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, time.March, 11, 9, 0, 0, 0, time.UTC)
	for i, ts := range []time.Time{day1, day1, day2} {
		d.orders.Seed(models.Order{
			ProductionNumber: fmt.Sprintf("T/%d", i),
			Quantity:         10,
			Status:           models.OrderLaunched,
			CreatedAt:        ts,
		})
	}

	buckets, err := d.dash.GetOrdersTrend(DateRange{}, GroupByDay, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	if buckets[0].Bucket != "2026-03-10" || buckets[0].Count != 2 {
		t.Errorf("unexpected first bucket: %+v", buckets[0])
	}
	if buckets[1].Bucket != "2026-03-11" || buckets[1].Count != 1 {
		t.Errorf("unexpected second bucket: %+v", buckets[1])
	}
}

func TestGetUrgentOrdersExcludesTerminal(t *testing.T) {
	d := newTestData(t)

	now := time.Now().UTC()
	d.dash.SetNow(func() time.Time { return now })

	d.orders.Seed(models.Order{
		ProductionNumber: "open/1",
		Quantity:         10,
		Status:           models.OrderLaunched,
		DeliveryDate:     now.AddDate(0, 0, 2),
		CreatedAt:        now,
	})
	d.orders.Seed(models.Order{
		ProductionNumber: "done/1",
		Quantity:         10,
		WorkedQuantity:   10,
		Status:           models.OrderCompleted,
		DeliveryDate:     now.AddDate(0, 0, 2),
		CreatedAt:        now,
	})

	urgent, err := d.dash.GetUrgentOrders(7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(urgent) != 1 || urgent[0].ProductionNumber != "open/1" {
		t.Fatalf("expected only the open order, got %d rows", len(urgent))
	}
	if urgent[0].Remaining != 10 {
		t.Errorf("expected remaining 10, got %d", urgent[0].Remaining)
	}
}
