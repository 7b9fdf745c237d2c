package handlers

import (
	"net/http"

	"github.com/fabbrica-mes/backoffice/internal/dashboard"
)

func dateRangeFromQuery(r *http.Request) dashboard.DateRange {
	q := r.URL.Query()
	return dashboard.DateRange{
		From: parseTimePtr(q.Get("from")),
		To:   parseTimePtr(q.Get("to")),
	}
}

// GetStatisticsHandler godoc
// @Summary Aggregate order, offer, article and customer counts
// @Tags dashboard
// @Produce json
// @Param from query string false "Created-at lower bound"
// @Param to query string false "Created-at upper bound"
// @Param customer query string false "Filter by customer UUID"
// @Param status query string false "Comma-separated status values"
// @Success 200 {object} dashboard.Statistics
// @Failure 500 {string} string "Internal error"
// @Router /dashboard/statistics [get]
func GetStatisticsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	stats, err := dashboardRepo.GetStatistics(
		dateRangeFromQuery(r),
		parseUUIDPtr(q.Get("customer")),
		parseStatuses(q.Get("status")),
	)
	if err != nil {
		http.Error(w, "could not compute statistics", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GetUrgentOrdersHandler godoc
// @Summary Open orders with delivery dates inside the urgency horizon
// @Tags dashboard
// @Produce json
// @Param horizon query int false "Horizon in days"
// @Success 200 {array} dashboard.OrderSummary
// @Failure 500 {string} string "Internal error"
// @Router /dashboard/urgent-orders [get]
func GetUrgentOrdersHandler(w http.ResponseWriter, r *http.Request) {
	horizon := urgentHorizonDays
	if v := parseIntPtr(r.URL.Query().Get("horizon")); v != nil && *v > 0 {
		horizon = *v
	}

	orders, err := dashboardRepo.GetUrgentOrders(horizon)
	if err != nil {
		http.Error(w, "could not fetch urgent orders", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetRecentOrdersHandler godoc
// @Summary Most recently created orders
// @Tags dashboard
// @Produce json
// @Param limit query int false "Number of orders (default 10)"
// @Success 200 {array} dashboard.OrderSummary
// @Failure 500 {string} string "Internal error"
// @Router /dashboard/recent-orders [get]
func GetRecentOrdersHandler(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := parseIntPtr(r.URL.Query().Get("limit")); v != nil && *v > 0 {
		limit = *v
	}

	orders, err := dashboardRepo.GetRecentOrders(limit)
	if err != nil {
		http.Error(w, "could not fetch recent orders", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetTopCustomersHandler godoc
// @Summary Customers ranked by order count
// @Tags dashboard
// @Produce json
// @Param from query string false "Created-at lower bound"
// @Param to query string false "Created-at upper bound"
// @Param customer query string false "Restrict to a single customer"
// @Param limit query int false "Number of customers (default 5)"
// @Success 200 {array} dashboard.CustomerRank
// @Failure 500 {string} string "Internal error"
// @Router /dashboard/top-customers [get]
func GetTopCustomersHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 5
	if v := parseIntPtr(q.Get("limit")); v != nil && *v > 0 {
		limit = *v
	}

	ranks, err := dashboardRepo.GetTopCustomers(dateRangeFromQuery(r), limit, parseUUIDPtr(q.Get("customer")))
	if err != nil {
		http.Error(w, "could not fetch top customers", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, ranks)
}

// GetTopArticlesHandler godoc
// @Summary Articles ranked by ordered quantity
// @Tags dashboard
// @Produce json
// @Param from query string false "Created-at lower bound"
// @Param to query string false "Created-at upper bound"
// @Param limit query int false "Number of articles (default 5)"
// @Success 200 {array} dashboard.ArticleRank
// @Failure 500 {string} string "Internal error"
// @Router /dashboard/top-articles [get]
func GetTopArticlesHandler(w http.ResponseWriter, r *http.Request) {
	limit := 5
	if v := parseIntPtr(r.URL.Query().Get("limit")); v != nil && *v > 0 {
		limit = *v
	}

	ranks, err := dashboardRepo.GetTopArticles(dateRangeFromQuery(r), limit)
	if err != nil {
		http.Error(w, "could not fetch top articles", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, ranks)
}

// GetPerformanceMetricsHandler godoc
// @Summary Completion rate, average production days and orders per day
// @Tags dashboard
// @Produce json
// @Param from query string false "Created-at lower bound"
// @Param to query string false "Created-at upper bound"
// @Success 200 {object} dashboard.PerformanceMetrics
// @Failure 500 {string} string "Internal error"
// @Router /dashboard/performance [get]
func GetPerformanceMetricsHandler(w http.ResponseWriter, r *http.Request) {
	metrics, err := dashboardRepo.GetPerformanceMetrics(dateRangeFromQuery(r))
	if err != nil {
		http.Error(w, "could not compute performance metrics", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

// GetComparisonStatsHandler godoc
// @Summary Current period vs the equivalent prior one
// @Description With period=all there is no prior window and the response body is null.
// @Tags dashboard
// @Produce json
// @Param period query string false "day, week, month or all (default day)"
// @Param from query string false "Explicit window lower bound"
// @Param to query string false "Explicit window upper bound"
// @Success 200 {object} dashboard.ComparisonStats
// @Failure 400 {string} string "Invalid period"
// @Failure 500 {string} string "Internal error"
// @Router /dashboard/comparison [get]
func GetComparisonStatsHandler(w http.ResponseWriter, r *http.Request) {
	period := dashboard.PeriodKind(r.URL.Query().Get("period"))
	if period == "" {
		period = dashboard.PeriodDay
	}
	switch period {
	case dashboard.PeriodDay, dashboard.PeriodWeek, dashboard.PeriodMonth, dashboard.PeriodAll:
	default:
		http.Error(w, "period must be day, week, month or all", http.StatusBadRequest)
		return
	}

	stats, err := dashboardRepo.GetComparisonStats(period, dateRangeFromQuery(r))
	if err != nil {
		http.Error(w, "could not compute comparison stats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GetProductionProgressHandler godoc
// @Summary Per-order completion percentages for open orders
// @Tags dashboard
// @Produce json
// @Param horizon query int false "Urgency horizon in days"
// @Success 200 {array} dashboard.ProgressRow
// @Failure 500 {string} string "Internal error"
// @Router /dashboard/production-progress [get]
func GetProductionProgressHandler(w http.ResponseWriter, r *http.Request) {
	horizon := urgentHorizonDays
	if v := parseIntPtr(r.URL.Query().Get("horizon")); v != nil && *v > 0 {
		horizon = *v
	}

	rows, err := dashboardRepo.GetProductionProgressData(horizon)
	if err != nil {
		http.Error(w, "could not fetch production progress", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// GetOrdersTrendHandler godoc
// @Summary Order counts bucketed by day, ISO week or month
// @Tags dashboard
// @Produce json
// @Param group_by query string false "day, week or month (default day)"
// @Param from query string false "Created-at lower bound"
// @Param to query string false "Created-at upper bound"
// @Param customer query string false "Filter by customer UUID"
// @Param status query string false "Comma-separated status values"
// @Success 200 {array} dashboard.TrendBucket
// @Failure 400 {string} string "Invalid group_by"
// @Failure 500 {string} string "Internal error"
// @Router /dashboard/orders-trend [get]
func GetOrdersTrendHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	groupBy := dashboard.GroupBy(q.Get("group_by"))
	if groupBy == "" {
		groupBy = dashboard.GroupByDay
	}
	switch groupBy {
	case dashboard.GroupByDay, dashboard.GroupByWeek, dashboard.GroupByMonth:
	default:
		http.Error(w, "group_by must be day, week or month", http.StatusBadRequest)
		return
	}

	buckets, err := dashboardRepo.GetOrdersTrend(
		dateRangeFromQuery(r),
		groupBy,
		parseUUIDPtr(q.Get("customer")),
		parseStatuses(q.Get("status")),
	)
	if err != nil {
		http.Error(w, "could not compute orders trend", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, buckets)
}

// GetCustomerFilterOptionsHandler godoc
// @Summary Customers available in the dashboard filter
// @Tags dashboard
// @Produce json
// @Success 200 {array} dashboard.CustomerOption
// @Failure 500 {string} string "Internal error"
// @Router /dashboard/filters/customers [get]
func GetCustomerFilterOptionsHandler(w http.ResponseWriter, r *http.Request) {
	options, err := dashboardRepo.GetCustomersForFilter()
	if err != nil {
		http.Error(w, "could not fetch customer filter options", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, options)
}

// GetOrderStatusFilterOptionsHandler godoc
// @Summary Order statuses available in the dashboard filter
// @Tags dashboard
// @Produce json
// @Success 200 {array} dashboard.StatusOption
// @Router /dashboard/filters/order-statuses [get]
func GetOrderStatusFilterOptionsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dashboardRepo.GetOrderStatusesForFilter())
}
