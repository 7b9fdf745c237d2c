package dashboard

import (
	"sort"
	"time"

	"github.com/fabbrica-mes/backoffice/internal/models"
	"github.com/fabbrica-mes/backoffice/internal/repo"
	"github.com/google/uuid"
)

// InMemoryRepository computes the same aggregates as PostgresRepository over
// the in-memory repositories. Tests use it to pin down ranking, bucketing
// and comparison semantics without a database.
type InMemoryRepository struct {
	orders    repo.OrderRepository
	articles  repo.ArticleRepository
	offers    repo.OfferRepository
	customers repo.CustomerRepository
	now       func() time.Time
}

func NewInMemoryRepository(orders repo.OrderRepository, articles repo.ArticleRepository, offers repo.OfferRepository, customers repo.CustomerRepository) *InMemoryRepository {
	return &InMemoryRepository{
		orders:    orders,
		articles:  articles,
		offers:    offers,
		customers: customers,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SetNow overrides the clock for deterministic period tests.
func (m *InMemoryRepository) SetNow(now func() time.Time) {
	m.now = now
}

func (m *InMemoryRepository) activeOrders() ([]models.Order, error) {
	orders, _, err := m.orders.Filter(repo.OrderFilter{})
	return orders, err
}

func (m *InMemoryRepository) customerOf(o models.Order) (models.Customer, bool) {
	article, err := m.articles.GetByUUID(o.ArticleUUID)
	if err != nil {
		return models.Customer{}, false
	}
	offer, err := m.offers.GetByUUID(article.OfferUUID)
	if err != nil {
		return models.Customer{}, false
	}
	customer, err := m.customers.GetByUUID(offer.CustomerUUID)
	if err != nil {
		return models.Customer{}, false
	}
	return customer, true
}

func matchesScope(o models.Order, r DateRange, statuses []int) bool {
	if !r.Contains(o.CreatedAt) {
		return false
	}
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if int(o.Status) == s {
			return true
		}
	}
	return false
}

func (m *InMemoryRepository) GetStatistics(r DateRange, customerUUID *uuid.UUID, statuses []int) (Statistics, error) {
	orders, err := m.activeOrders()
	if err != nil {
		return Statistics{}, err
	}

	stats := Statistics{OrdersByStatus: map[string]int{}}
	for _, o := range orders {
		if !matchesScope(o, r, statuses) {
			continue
		}
		if customerUUID != nil {
			customer, ok := m.customerOf(o)
			if !ok || customer.UUID != *customerUUID {
				continue
			}
		}
		stats.TotalOrders++
		stats.OrdersByStatus[o.Status.Label()]++
		stats.TotalProduced += o.WorkedQuantity
		stats.TotalRequested += o.Quantity
	}

	offers, _, err := m.offers.Filter(repo.OfferFilter{})
	if err != nil {
		return Statistics{}, err
	}
	for _, o := range offers {
		if r.Contains(o.CreatedAt) {
			stats.TotalOffers++
		}
	}

	articles, _, err := m.articles.Filter(repo.ArticleFilter{})
	if err != nil {
		return Statistics{}, err
	}
	for _, a := range articles {
		if r.Contains(a.CreatedAt) {
			stats.TotalArticles++
		}
	}

	customers, _, err := m.customers.Filter(repo.CustomerFilter{})
	if err != nil {
		return Statistics{}, err
	}
	for _, c := range customers {
		if r.Contains(c.CreatedAt) {
			stats.TotalCustomers++
		}
	}

	return stats, nil
}

func (m *InMemoryRepository) summary(o models.Order) OrderSummary {
	code := ""
	if article, err := m.articles.GetByUUID(o.ArticleUUID); err == nil {
		code = article.Code
	}
	return OrderSummary{
		UUID:             o.UUID,
		ProductionNumber: o.ProductionNumber,
		ArticleCode:      code,
		Quantity:         o.Quantity,
		WorkedQuantity:   o.WorkedQuantity,
		Remaining:        o.RemainingQuantity(),
		Status:           o.Status.Label(),
		DeliveryDate:     o.DeliveryDate,
		CreatedAt:        o.CreatedAt,
	}
}

func (m *InMemoryRepository) GetUrgentOrders(horizonDays int) ([]OrderSummary, error) {
	orders, err := m.activeOrders()
	if err != nil {
		return nil, err
	}

	horizon := m.now().AddDate(0, 0, horizonDays)
	var urgent []models.Order
	for _, o := range orders {
		if !o.Status.Terminal() && !o.DeliveryDate.After(horizon) {
			urgent = append(urgent, o)
		}
	}
	sort.Slice(urgent, func(i, j int) bool { return urgent[i].DeliveryDate.Before(urgent[j].DeliveryDate) })

	summaries := make([]OrderSummary, len(urgent))
	for i, o := range urgent {
		summaries[i] = m.summary(o)
	}
	return summaries, nil
}

func (m *InMemoryRepository) GetRecentOrders(limit int) ([]OrderSummary, error) {
	orders, err := m.activeOrders()
	if err != nil {
		return nil, err
	}

	sort.Slice(orders, func(i, j int) bool { return orders[j].CreatedAt.Before(orders[i].CreatedAt) })
	if limit > 0 && len(orders) > limit {
		orders = orders[:limit]
	}

	summaries := make([]OrderSummary, len(orders))
	for i, o := range orders {
		summaries[i] = m.summary(o)
	}
	return summaries, nil
}

func (m *InMemoryRepository) GetTopCustomers(r DateRange, limit int, customerUUID *uuid.UUID) ([]CustomerRank, error) {
	orders, err := m.activeOrders()
	if err != nil {
		return nil, err
	}

	type entry struct {
		customer models.Customer
		count    int
	}
	counts := map[uuid.UUID]*entry{}
	for _, o := range orders {
		if !r.Contains(o.CreatedAt) {
			continue
		}
		customer, ok := m.customerOf(o)
		if !ok {
			continue
		}
		if customerUUID != nil && customer.UUID != *customerUUID {
			continue
		}
		if e, ok := counts[customer.UUID]; ok {
			e.count++
		} else {
			counts[customer.UUID] = &entry{customer: customer, count: 1}
		}
	}

	entries := make([]*entry, 0, len(counts))
	for _, e := range counts {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		if !entries[i].customer.CreatedAt.Equal(entries[j].customer.CreatedAt) {
			return entries[i].customer.CreatedAt.Before(entries[j].customer.CreatedAt)
		}
		return entries[i].customer.UUID.String() < entries[j].customer.UUID.String()
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	ranks := make([]CustomerRank, len(entries))
	for i, e := range entries {
		ranks[i] = CustomerRank{UUID: e.customer.UUID, CompanyName: e.customer.CompanyName, OrderCount: e.count}
	}
	return ranks, nil
}

func (m *InMemoryRepository) GetTopArticles(r DateRange, limit int) ([]ArticleRank, error) {
	orders, err := m.activeOrders()
	if err != nil {
		return nil, err
	}

	type entry struct {
		article models.Article
		total   int
	}
	totals := map[uuid.UUID]*entry{}
	for _, o := range orders {
		if !r.Contains(o.CreatedAt) {
			continue
		}
		article, err := m.articles.GetByUUID(o.ArticleUUID)
		if err != nil {
			continue
		}
		if e, ok := totals[article.UUID]; ok {
			e.total += o.Quantity
		} else {
			totals[article.UUID] = &entry{article: article, total: o.Quantity}
		}
	}

	entries := make([]*entry, 0, len(totals))
	for _, e := range totals {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].total != entries[j].total {
			return entries[i].total > entries[j].total
		}
		if !entries[i].article.CreatedAt.Equal(entries[j].article.CreatedAt) {
			return entries[i].article.CreatedAt.Before(entries[j].article.CreatedAt)
		}
		return entries[i].article.UUID.String() < entries[j].article.UUID.String()
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	ranks := make([]ArticleRank, len(entries))
	for i, e := range entries {
		ranks[i] = ArticleRank{UUID: e.article.UUID, Code: e.article.Code, Description: e.article.Description, TotalQuantity: e.total}
	}
	return ranks, nil
}

func (m *InMemoryRepository) GetPerformanceMetrics(r DateRange) (PerformanceMetrics, error) {
	orders, err := m.activeOrders()
	if err != nil {
		return PerformanceMetrics{}, err
	}

	var metrics PerformanceMetrics
	var total, completed int
	var totalDays float64
	var completedWithTime int
	var minCreated, maxCreated time.Time

	for _, o := range orders {
		if !r.Contains(o.CreatedAt) {
			continue
		}
		total++
		if minCreated.IsZero() || o.CreatedAt.Before(minCreated) {
			minCreated = o.CreatedAt
		}
		if o.CreatedAt.After(maxCreated) {
			maxCreated = o.CreatedAt
		}
		if o.Status == models.OrderCompleted {
			completed++
			if o.CompletedAt != nil {
				totalDays += o.CompletedAt.Sub(o.CreatedAt).Hours() / 24
				completedWithTime++
			}
		}
	}

	if total > 0 {
		metrics.CompletionRate = float64(completed) / float64(total) * 100
		days := maxCreated.Sub(minCreated).Hours()/24 + 1
		metrics.OrdersPerDay = float64(total) / days
	}
	if completedWithTime > 0 {
		metrics.AvgProductionDays = totalDays / float64(completedWithTime)
	}
	return metrics, nil
}

func (m *InMemoryRepository) periodStats(from, to time.Time) (PeriodStats, error) {
	orders, err := m.activeOrders()
	if err != nil {
		return PeriodStats{}, err
	}

	stats := PeriodStats{From: from, To: to}
	for _, o := range orders {
		if o.CreatedAt.Before(from) || o.CreatedAt.After(to) {
			continue
		}
		stats.Orders++
		stats.Produced += o.WorkedQuantity
	}
	return stats, nil
}

func (m *InMemoryRepository) GetComparisonStats(period PeriodKind, r DateRange) (*ComparisonStats, error) {
	if period == PeriodAll {
		return nil, nil
	}

	from, to := resolveRange(period, r, m.now())
	prevFrom, prevTo := previousRange(period, from, to)

	current, err := m.periodStats(from, to)
	if err != nil {
		return nil, err
	}
	previous, err := m.periodStats(prevFrom, prevTo)
	if err != nil {
		return nil, err
	}

	return &ComparisonStats{
		Current:           current,
		Previous:          previous,
		OrdersDelta:       current.Orders - previous.Orders,
		ProducedDelta:     current.Produced - previous.Produced,
		OrdersChangePct:   pctChange(current.Orders, previous.Orders),
		ProducedChangePct: pctChange(current.Produced, previous.Produced),
	}, nil
}

func (m *InMemoryRepository) GetProductionProgressData(horizonDays int) ([]ProgressRow, error) {
	orders, err := m.activeOrders()
	if err != nil {
		return nil, err
	}

	horizon := m.now().AddDate(0, 0, horizonDays)
	var inFlight []models.Order
	for _, o := range orders {
		if !o.Status.Terminal() {
			inFlight = append(inFlight, o)
		}
	}
	sort.Slice(inFlight, func(i, j int) bool { return inFlight[i].DeliveryDate.Before(inFlight[j].DeliveryDate) })

	progress := make([]ProgressRow, len(inFlight))
	for i, o := range inFlight {
		row := ProgressRow{
			UUID:             o.UUID,
			ProductionNumber: o.ProductionNumber,
			WorkedQuantity:   o.WorkedQuantity,
			Quantity:         o.Quantity,
			Urgent:           !o.DeliveryDate.After(horizon),
		}
		if o.Quantity > 0 {
			row.Percent = float64(o.WorkedQuantity) / float64(o.Quantity) * 100
		}
		progress[i] = row
	}
	return progress, nil
}

func (m *InMemoryRepository) GetOrdersTrend(r DateRange, groupBy GroupBy, customerUUID *uuid.UUID, statuses []int) ([]TrendBucket, error) {
	orders, err := m.activeOrders()
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	for _, o := range orders {
		if !matchesScope(o, r, statuses) {
			continue
		}
		if customerUUID != nil {
			customer, ok := m.customerOf(o)
			if !ok || customer.UUID != *customerUUID {
				continue
			}
		}
		counts[bucketKey(o.CreatedAt, groupBy)]++
	}

	buckets := make([]TrendBucket, 0, len(counts))
	for key, count := range counts {
		buckets = append(buckets, TrendBucket{Bucket: key, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Bucket < buckets[j].Bucket })
	return buckets, nil
}

func (m *InMemoryRepository) GetCustomersForFilter() ([]CustomerOption, error) {
	customers, _, err := m.customers.Filter(repo.CustomerFilter{})
	if err != nil {
		return nil, err
	}
	options := make([]CustomerOption, len(customers))
	for i, c := range customers {
		options[i] = CustomerOption{UUID: c.UUID, CompanyName: c.CompanyName}
	}
	return options, nil
}

func (m *InMemoryRepository) GetOrderStatusesForFilter() []StatusOption {
	return statusOptions()
}
