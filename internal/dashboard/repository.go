package dashboard

import (
	"time"

	"github.com/google/uuid"
)

// DateRange is an optional time window over order creation. A nil bound
// means unbounded on that side.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

type PeriodKind string

const (
	PeriodDay   PeriodKind = "day"
	PeriodWeek  PeriodKind = "week"
	PeriodMonth PeriodKind = "month"
	PeriodAll   PeriodKind = "all"
)

type GroupBy string

const (
	GroupByDay   GroupBy = "day"
	GroupByWeek  GroupBy = "week"
	GroupByMonth GroupBy = "month"
)

type Statistics struct {
	TotalOrders    int            `json:"total_orders"`
	OrdersByStatus map[string]int `json:"orders_by_status"`
	TotalOffers    int            `json:"total_offers"`
	TotalArticles  int            `json:"total_articles"`
	TotalCustomers int            `json:"total_customers"`
	TotalProduced  int            `json:"total_produced"`
	TotalRequested int            `json:"total_requested"`
}

// OrderSummary is an order row enriched with its article code for list
// views (urgent, recent).
type OrderSummary struct {
	UUID             uuid.UUID `json:"uuid"`
	ProductionNumber string    `json:"production_number"`
	ArticleCode      string    `json:"article_code"`
	Quantity         int       `json:"quantity"`
	WorkedQuantity   int       `json:"worked_quantity"`
	Remaining        int       `json:"remaining_quantity"`
	Status           string    `json:"status"`
	DeliveryDate     time.Time `json:"delivery_date"`
	CreatedAt        time.Time `json:"created_at"`
}

type CustomerRank struct {
	UUID        uuid.UUID `json:"uuid"`
	CompanyName string    `json:"company_name"`
	OrderCount  int       `json:"order_count"`
}

type ArticleRank struct {
	UUID          uuid.UUID `json:"uuid"`
	Code          string    `json:"code"`
	Description   string    `json:"description"`
	TotalQuantity int       `json:"total_quantity"`
}

type PerformanceMetrics struct {
	CompletionRate    float64 `json:"completion_rate"`
	AvgProductionDays float64 `json:"avg_production_days"`
	OrdersPerDay      float64 `json:"orders_per_day"`
}

type PeriodStats struct {
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`
	Orders   int       `json:"orders"`
	Produced int       `json:"produced"`
}

// ComparisonStats pairs the current period with the equivalent prior one
// for delta display.
type ComparisonStats struct {
	Current             PeriodStats `json:"current"`
	Previous            PeriodStats `json:"previous"`
	OrdersDelta         int         `json:"orders_delta"`
	ProducedDelta       int         `json:"produced_delta"`
	OrdersChangePct     float64     `json:"orders_change_pct"`
	ProducedChangePct   float64     `json:"produced_change_pct"`
}

type ProgressRow struct {
	UUID             uuid.UUID `json:"uuid"`
	ProductionNumber string    `json:"production_number"`
	WorkedQuantity   int       `json:"worked_quantity"`
	Quantity         int       `json:"quantity"`
	Percent          float64   `json:"percent"`
	Urgent           bool      `json:"urgent"`
}

type TrendBucket struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
}

type StatusOption struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

type CustomerOption struct {
	UUID        uuid.UUID `json:"uuid"`
	CompanyName string    `json:"company_name"`
}

// Repository computes the read-only aggregate views behind the dashboard.
// All queries see active (non-removed) rows only.
type Repository interface {
	GetStatistics(r DateRange, customerUUID *uuid.UUID, statuses []int) (Statistics, error)
	GetUrgentOrders(horizonDays int) ([]OrderSummary, error)
	GetRecentOrders(limit int) ([]OrderSummary, error)
	GetTopCustomers(r DateRange, limit int, customerUUID *uuid.UUID) ([]CustomerRank, error)
	GetTopArticles(r DateRange, limit int) ([]ArticleRank, error)
	GetPerformanceMetrics(r DateRange) (PerformanceMetrics, error)
	GetComparisonStats(period PeriodKind, r DateRange) (*ComparisonStats, error)
	GetProductionProgressData(horizonDays int) ([]ProgressRow, error)
	GetOrdersTrend(r DateRange, groupBy GroupBy, customerUUID *uuid.UUID, statuses []int) ([]TrendBucket, error)
	GetCustomersForFilter() ([]CustomerOption, error)
	GetOrderStatusesForFilter() []StatusOption
}
