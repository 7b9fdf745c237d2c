package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fabbrica-mes/backoffice/internal/models"
	"github.com/google/uuid"
)

const orderColumns = `uuid, article_uuid, production_number, quantity, worked_quantity, status, autocontrollo, delivery_date, completed_at, created_at, updated_at`

type PostgresOrderRepository struct {
	db *sql.DB
}

func NewPostgresOrderRepository(db *sql.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

func scanOrder(row interface{ Scan(...any) error }) (models.Order, error) {
	var o models.Order
	err := row.Scan(&o.UUID, &o.ArticleUUID, &o.ProductionNumber, &o.Quantity, &o.WorkedQuantity,
		&o.Status, &o.Autocontrollo, &o.DeliveryDate, &o.CompletedAt, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func (r *PostgresOrderRepository) Create(o models.Order) (models.Order, error) {
	query := `INSERT INTO orders (uuid, article_uuid, production_number, quantity, worked_quantity, status, autocontrollo, delivery_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	o.UUID = uuid.New()
	if o.Status == 0 {
		o.Status = models.OrderLaunched
	}
	o.CreatedAt = time.Now().UTC()
	o.UpdatedAt = o.CreatedAt

	_, err := r.db.ExecContext(ctx, query, o.UUID, o.ArticleUUID, o.ProductionNumber, o.Quantity,
		o.WorkedQuantity, o.Status, o.Autocontrollo, o.DeliveryDate, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return models.Order{}, err
	}
	return o, nil
}

func (r *PostgresOrderRepository) GetByUUID(id uuid.UUID) (models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE uuid = $1 AND removed = FALSE`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, ErrOrderNotFound
	}
	return o, err
}

func (r *PostgresOrderRepository) GetByProductionNumber(number string) (models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE production_number = $1 AND removed = FALSE`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, number))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, ErrOrderNotFound
	}
	return o, err
}

func (r *PostgresOrderRepository) Update(o models.Order) (models.Order, error) {
	query := `UPDATE orders SET article_uuid = $1, production_number = $2, quantity = $3, worked_quantity = $4,
		status = $5, autocontrollo = $6, delivery_date = $7, completed_at = $8, updated_at = $9
		WHERE uuid = $10 AND removed = FALSE`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	o.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, o.ArticleUUID, o.ProductionNumber, o.Quantity, o.WorkedQuantity,
		o.Status, o.Autocontrollo, o.DeliveryDate, o.CompletedAt, o.UpdatedAt, o.UUID)
	if err != nil {
		return models.Order{}, err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return models.Order{}, ErrOrderNotFound
	}
	return o, nil
}

func (r *PostgresOrderRepository) Delete(id uuid.UUID) error {
	query := `UPDATE orders SET removed = TRUE, updated_at = $1 WHERE uuid = $2 AND removed = FALSE`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *PostgresOrderRepository) Filter(f OrderFilter) ([]models.Order, int, error) {
	conditions := ""
	args := []any{}
	argIdx := 1

	if f.Search != "" {
		conditions += fmt.Sprintf(" AND o.production_number ILIKE $%d", argIdx)
		args = append(args, "%"+f.Search+"%")
		argIdx++
	}
	if len(f.Statuses) > 0 {
		placeholders := ""
		for i, s := range f.Statuses {
			if i > 0 {
				placeholders += ", "
			}
			placeholders += fmt.Sprintf("$%d", argIdx)
			args = append(args, int(s))
			argIdx++
		}
		conditions += " AND o.status IN (" + placeholders + ")"
	}
	if f.From != nil {
		conditions += fmt.Sprintf(" AND o.created_at >= $%d", argIdx)
		args = append(args, *f.From)
		argIdx++
	}
	if f.To != nil {
		conditions += fmt.Sprintf(" AND o.created_at <= $%d", argIdx)
		args = append(args, *f.To)
		argIdx++
	}

	// Customer scoping walks order -> article -> offer.
	join := ""
	if f.CustomerUUID != nil {
		join = ` JOIN articles a ON o.article_uuid = a.uuid JOIN offers f ON a.offer_uuid = f.uuid`
		conditions += fmt.Sprintf(" AND f.customer_uuid = $%d", argIdx)
		args = append(args, *f.CustomerUUID)
		argIdx++
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var totalCount int
	countQuery := `SELECT COUNT(*) FROM orders o` + join + ` WHERE o.removed = FALSE` + conditions
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + orderSelectColumns() + ` FROM orders o` + join + ` WHERE o.removed = FALSE` + conditions
	if f.Sort == "delivery_date" {
		query += " ORDER BY o.delivery_date ASC"
	} else {
		query += " ORDER BY o.created_at DESC"
	}

	if f.Limit != nil && *f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, *f.Limit)
		argIdx++
	}
	if f.Offset != nil && *f.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, *f.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	return orders, totalCount, rows.Err()
}

func orderSelectColumns() string {
	return `o.uuid, o.article_uuid, o.production_number, o.quantity, o.worked_quantity, o.status, o.autocontrollo, o.delivery_date, o.completed_at, o.created_at, o.updated_at`
}

func (r *PostgresOrderRepository) AddWorkedQuantity(id uuid.UUID, delta int) (models.Order, int, error) {
	if delta <= 0 {
		return models.Order{}, 0, fmt.Errorf("delta must be positive, got %d", delta)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Order{}, 0, err
	}
	defer tx.Rollback()

	o, err := scanOrder(tx.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE uuid = $1 AND removed = FALSE FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, 0, ErrOrderNotFound
	}
	if err != nil {
		return models.Order{}, 0, err
	}

	if o.Status == models.OrderSuspended {
		return models.Order{}, 0, ErrOrderSuspended
	}
	if o.Status.Terminal() {
		return models.Order{}, 0, ErrOrderTerminal
	}

	applied := delta
	if remaining := o.RemainingQuantity(); applied > remaining {
		applied = remaining
	}

	now := time.Now().UTC()
	o.WorkedQuantity += applied
	o.UpdatedAt = now
	switch {
	case o.WorkedQuantity >= o.Quantity:
		o.Status = models.OrderCompleted
		o.CompletedAt = &now
	case o.Status == models.OrderLaunched:
		o.Status = models.OrderInProgress
	}

	_, err = tx.ExecContext(ctx, `UPDATE orders SET worked_quantity = $1, status = $2, completed_at = $3, updated_at = $4 WHERE uuid = $5`,
		o.WorkedQuantity, o.Status, o.CompletedAt, o.UpdatedAt, o.UUID)
	if err != nil {
		return models.Order{}, 0, err
	}

	if err := tx.Commit(); err != nil {
		return models.Order{}, 0, err
	}
	return o, applied, nil
}

func (r *PostgresOrderRepository) Suspend(id uuid.UUID) (models.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	query := `UPDATE orders SET status = $1, updated_at = $2
		WHERE uuid = $3 AND removed = FALSE AND status IN ($4, $5)
		RETURNING ` + orderColumns
	o, err := scanOrder(r.db.QueryRowContext(ctx, query,
		models.OrderSuspended, time.Now().UTC(), id, models.OrderLaunched, models.OrderInProgress))
	if errors.Is(err, sql.ErrNoRows) {
		// Distinguish a missing order from one that cannot be suspended.
		existing, getErr := r.GetByUUID(id)
		if getErr != nil {
			return models.Order{}, getErr
		}
		if existing.Status == models.OrderSuspended {
			return models.Order{}, ErrOrderSuspended
		}
		return models.Order{}, ErrOrderTerminal
	}
	return o, err
}

func (r *PostgresOrderRepository) ConfirmAutocontrollo(id uuid.UUID) (models.Order, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	query := `UPDATE orders SET autocontrollo = TRUE, updated_at = $1
		WHERE uuid = $2 AND removed = FALSE AND autocontrollo = FALSE
		RETURNING ` + orderColumns
	o, err := scanOrder(r.db.QueryRowContext(ctx, query, time.Now().UTC(), id))
	if errors.Is(err, sql.ErrNoRows) {
		existing, getErr := r.GetByUUID(id)
		if getErr != nil {
			return models.Order{}, false, getErr
		}
		return existing, true, nil
	}
	return o, false, err
}
