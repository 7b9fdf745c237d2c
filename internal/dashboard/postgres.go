package dashboard

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fabbrica-mes/backoffice/internal/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// orderScope builds the shared WHERE tail for order aggregations: active
// rows, optional date window, optional customer (via article -> offer),
// optional status list. The returned join clause is empty unless customer
// scoping is requested.
func orderScope(r DateRange, customerUUID *uuid.UUID, statuses []int, argIdx int) (join, conditions string, args []any, next int) {
	if r.From != nil {
		conditions += fmt.Sprintf(" AND o.created_at >= $%d", argIdx)
		args = append(args, *r.From)
		argIdx++
	}
	if r.To != nil {
		conditions += fmt.Sprintf(" AND o.created_at <= $%d", argIdx)
		args = append(args, *r.To)
		argIdx++
	}
	if customerUUID != nil {
		join = ` JOIN articles a ON o.article_uuid = a.uuid JOIN offers f ON a.offer_uuid = f.uuid`
		conditions += fmt.Sprintf(" AND f.customer_uuid = $%d", argIdx)
		args = append(args, *customerUUID)
		argIdx++
	}
	if len(statuses) > 0 {
		placeholders := ""
		for i, s := range statuses {
			if i > 0 {
				placeholders += ", "
			}
			placeholders += fmt.Sprintf("$%d", argIdx)
			args = append(args, s)
			argIdx++
		}
		conditions += " AND o.status IN (" + placeholders + ")"
	}
	return join, conditions, args, argIdx
}

func (p *PostgresRepository) GetStatistics(r DateRange, customerUUID *uuid.UUID, statuses []int) (Statistics, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	stats := Statistics{OrdersByStatus: map[string]int{}}

	join, conditions, args, _ := orderScope(r, customerUUID, statuses, 1)

	query := `SELECT COUNT(*), COALESCE(SUM(o.worked_quantity), 0), COALESCE(SUM(o.quantity), 0)
		FROM orders o` + join + ` WHERE o.removed = FALSE` + conditions
	if err := p.db.QueryRowContext(ctx, query, args...).Scan(&stats.TotalOrders, &stats.TotalProduced, &stats.TotalRequested); err != nil {
		return Statistics{}, err
	}

	statusQuery := `SELECT o.status, COUNT(*) FROM orders o` + join + ` WHERE o.removed = FALSE` + conditions + ` GROUP BY o.status`
	rows, err := p.db.QueryContext(ctx, statusQuery, args...)
	if err != nil {
		return Statistics{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var status, count int
		if err := rows.Scan(&status, &count); err != nil {
			return Statistics{}, err
		}
		stats.OrdersByStatus[models.OrderStatus(status).Label()] = count
	}
	if err := rows.Err(); err != nil {
		return Statistics{}, err
	}

	// Entity counts share the date window but not the order-level filters.
	windowed := func(table string) (int, error) {
		conditions := ""
		args := []any{}
		argIdx := 1
		if r.From != nil {
			conditions += fmt.Sprintf(" AND created_at >= $%d", argIdx)
			args = append(args, *r.From)
			argIdx++
		}
		if r.To != nil {
			conditions += fmt.Sprintf(" AND created_at <= $%d", argIdx)
			args = append(args, *r.To)
		}
		var n int
		err := p.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table+` WHERE removed = FALSE`+conditions, args...).Scan(&n)
		return n, err
	}

	if stats.TotalOffers, err = windowed("offers"); err != nil {
		return Statistics{}, err
	}
	if stats.TotalArticles, err = windowed("articles"); err != nil {
		return Statistics{}, err
	}
	if stats.TotalCustomers, err = windowed("customers"); err != nil {
		return Statistics{}, err
	}

	return stats, nil
}

const orderSummaryQuery = `SELECT o.uuid, o.production_number, a.code, o.quantity, o.worked_quantity, o.status, o.delivery_date, o.created_at
	FROM orders o JOIN articles a ON o.article_uuid = a.uuid
	WHERE o.removed = FALSE AND a.removed = FALSE`

func (p *PostgresRepository) scanSummaries(ctx context.Context, query string, args ...any) ([]OrderSummary, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []OrderSummary
	for rows.Next() {
		var s OrderSummary
		var status int
		if err := rows.Scan(&s.UUID, &s.ProductionNumber, &s.ArticleCode, &s.Quantity, &s.WorkedQuantity,
			&status, &s.DeliveryDate, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.Status = models.OrderStatus(status).Label()
		s.Remaining = s.Quantity - s.WorkedQuantity
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (p *PostgresRepository) GetUrgentOrders(horizonDays int) ([]OrderSummary, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	query := orderSummaryQuery + ` AND o.status NOT IN ($1, $2) AND o.delivery_date <= $3 ORDER BY o.delivery_date ASC`
	horizon := time.Now().UTC().AddDate(0, 0, horizonDays)
	return p.scanSummaries(ctx, query, models.OrderCompleted, models.OrderEvaded, horizon)
}

func (p *PostgresRepository) GetRecentOrders(limit int) ([]OrderSummary, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	query := orderSummaryQuery + ` ORDER BY o.created_at DESC LIMIT $1`
	return p.scanSummaries(ctx, query, limit)
}

func (p *PostgresRepository) GetTopCustomers(r DateRange, limit int, customerUUID *uuid.UUID) ([]CustomerRank, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	conditions := ""
	args := []any{}
	argIdx := 1
	if r.From != nil {
		conditions += fmt.Sprintf(" AND o.created_at >= $%d", argIdx)
		args = append(args, *r.From)
		argIdx++
	}
	if r.To != nil {
		conditions += fmt.Sprintf(" AND o.created_at <= $%d", argIdx)
		args = append(args, *r.To)
		argIdx++
	}
	if customerUUID != nil {
		conditions += fmt.Sprintf(" AND c.uuid = $%d", argIdx)
		args = append(args, *customerUUID)
		argIdx++
	}

	// Ties resolve by customer age then UUID so the ranking is stable.
	query := `SELECT c.uuid, c.company_name, COUNT(o.uuid) AS cnt
		FROM orders o
		JOIN articles a ON o.article_uuid = a.uuid
		JOIN offers f ON a.offer_uuid = f.uuid
		JOIN customers c ON f.customer_uuid = c.uuid
		WHERE o.removed = FALSE AND a.removed = FALSE AND f.removed = FALSE AND c.removed = FALSE` + conditions + `
		GROUP BY c.uuid, c.company_name, c.created_at
		ORDER BY cnt DESC, c.created_at ASC, c.uuid ASC
		LIMIT $` + fmt.Sprint(argIdx)
	args = append(args, limit)

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ranks []CustomerRank
	for rows.Next() {
		var cr CustomerRank
		if err := rows.Scan(&cr.UUID, &cr.CompanyName, &cr.OrderCount); err != nil {
			return nil, err
		}
		ranks = append(ranks, cr)
	}
	return ranks, rows.Err()
}

func (p *PostgresRepository) GetTopArticles(r DateRange, limit int) ([]ArticleRank, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	conditions := ""
	args := []any{}
	argIdx := 1
	if r.From != nil {
		conditions += fmt.Sprintf(" AND o.created_at >= $%d", argIdx)
		args = append(args, *r.From)
		argIdx++
	}
	if r.To != nil {
		conditions += fmt.Sprintf(" AND o.created_at <= $%d", argIdx)
		args = append(args, *r.To)
		argIdx++
	}

	query := `SELECT a.uuid, a.code, a.description, COALESCE(SUM(o.quantity), 0) AS total_qty
		FROM orders o
		JOIN articles a ON o.article_uuid = a.uuid
		WHERE o.removed = FALSE AND a.removed = FALSE` + conditions + `
		GROUP BY a.uuid, a.code, a.description, a.created_at
		ORDER BY total_qty DESC, a.created_at ASC, a.uuid ASC
		LIMIT $` + fmt.Sprint(argIdx)
	args = append(args, limit)

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ranks []ArticleRank
	for rows.Next() {
		var ar ArticleRank
		if err := rows.Scan(&ar.UUID, &ar.Code, &ar.Description, &ar.TotalQuantity); err != nil {
			return nil, err
		}
		ranks = append(ranks, ar)
	}
	return ranks, rows.Err()
}

func (p *PostgresRepository) GetPerformanceMetrics(r DateRange) (PerformanceMetrics, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, conditions, args, _ := orderScope(r, nil, nil, 1)

	var m PerformanceMetrics
	var total, completed int
	var avgDays sql.NullFloat64
	var minCreated, maxCreated sql.NullTime

	query := `SELECT COUNT(*),
		COUNT(*) FILTER (WHERE o.status = ` + fmt.Sprint(int(models.OrderCompleted)) + `),
		AVG(EXTRACT(EPOCH FROM (o.completed_at - o.created_at)) / 86400.0),
		MIN(o.created_at), MAX(o.created_at)
		FROM orders o WHERE o.removed = FALSE` + conditions
	if err := p.db.QueryRowContext(ctx, query, args...).Scan(&total, &completed, &avgDays, &minCreated, &maxCreated); err != nil {
		return PerformanceMetrics{}, err
	}

	if total > 0 {
		m.CompletionRate = float64(completed) / float64(total) * 100
	}
	if avgDays.Valid {
		m.AvgProductionDays = avgDays.Float64
	}
	if total > 0 && minCreated.Valid && maxCreated.Valid {
		days := maxCreated.Time.Sub(minCreated.Time).Hours()/24 + 1
		m.OrdersPerDay = float64(total) / days
	}
	return m, nil
}

func (p *PostgresRepository) periodStats(ctx context.Context, from, to time.Time) (PeriodStats, error) {
	stats := PeriodStats{From: from, To: to}
	err := p.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(worked_quantity), 0) FROM orders
		WHERE removed = FALSE AND created_at >= $1 AND created_at <= $2`,
		from, to).Scan(&stats.Orders, &stats.Produced)
	return stats, err
}

func (p *PostgresRepository) GetComparisonStats(period PeriodKind, r DateRange) (*ComparisonStats, error) {
	// "all" has no meaningful previous period.
	if period == PeriodAll {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	from, to := resolveRange(period, r, time.Now().UTC())
	prevFrom, prevTo := previousRange(period, from, to)

	current, err := p.periodStats(ctx, from, to)
	if err != nil {
		return nil, err
	}
	previous, err := p.periodStats(ctx, prevFrom, prevTo)
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

func (p *PostgresRepository) GetProductionProgressData(horizonDays int) ([]ProgressRow, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	query := `SELECT uuid, production_number, worked_quantity, quantity, delivery_date
		FROM orders WHERE removed = FALSE AND status IN ($1, $2, $3)
		ORDER BY delivery_date ASC`
	rows, err := p.db.QueryContext(ctx, query, models.OrderLaunched, models.OrderInProgress, models.OrderSuspended)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	horizon := time.Now().UTC().AddDate(0, 0, horizonDays)
	var progress []ProgressRow
	for rows.Next() {
		var row ProgressRow
		var deliveryDate time.Time
		if err := rows.Scan(&row.UUID, &row.ProductionNumber, &row.WorkedQuantity, &row.Quantity, &deliveryDate); err != nil {
			return nil, err
		}
		if row.Quantity > 0 {
			row.Percent = float64(row.WorkedQuantity) / float64(row.Quantity) * 100
		}
		row.Urgent = !deliveryDate.After(horizon)
		progress = append(progress, row)
	}
	return progress, rows.Err()
}

func (p *PostgresRepository) GetOrdersTrend(r DateRange, groupBy GroupBy, customerUUID *uuid.UUID, statuses []int) ([]TrendBucket, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	join, conditions, args, _ := orderScope(r, customerUUID, statuses, 1)

	expr := trendExpr(groupBy)
	query := `SELECT ` + expr + ` AS bucket, COUNT(*) FROM orders o` + join + `
		WHERE o.removed = FALSE` + conditions + `
		GROUP BY bucket ORDER BY bucket ASC`

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []TrendBucket
	for rows.Next() {
		var b TrendBucket
		if err := rows.Scan(&b.Bucket, &b.Count); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

func (p *PostgresRepository) GetCustomersForFilter() ([]CustomerOption, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := p.db.QueryContext(ctx,
		`SELECT uuid, company_name FROM customers WHERE removed = FALSE ORDER BY company_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var options []CustomerOption
	for rows.Next() {
		var o CustomerOption
		if err := rows.Scan(&o.UUID, &o.CompanyName); err != nil {
			return nil, err
		}
		options = append(options, o)
	}
	return options, rows.Err()
}

func (p *PostgresRepository) GetOrderStatusesForFilter() []StatusOption {
	return statusOptions()
}

func statusOptions() []StatusOption {
	statuses := models.OrderStatuses()
	options := make([]StatusOption, len(statuses))
	for i, s := range statuses {
		options[i] = StatusOption{Value: int(s), Label: s.Label()}
	}
	return options
}
