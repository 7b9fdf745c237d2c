package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fabbrica-mes/backoffice/internal/cache"
	"github.com/fabbrica-mes/backoffice/internal/models"
	"github.com/google/uuid"
)

const offerColumns = `uuid, customer_uuid, division_uuid, number, description, status, amount, offer_date, created_at, updated_at`

type PostgresOfferRepository struct {
	db    *sql.DB
	cache cache.Store
}

func NewPostgresOfferRepository(db *sql.DB, cache cache.Store) *PostgresOfferRepository {
	return &PostgresOfferRepository{db: db, cache: cache}
}

func scanOffer(row interface{ Scan(...any) error }) (models.Offer, error) {
	var o models.Offer
	err := row.Scan(&o.UUID, &o.CustomerUUID, &o.DivisionUUID, &o.Number, &o.Description,
		&o.Status, &o.Amount, &o.OfferDate, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func (r *PostgresOfferRepository) Create(o models.Offer) (models.Offer, error) {
	query := `INSERT INTO offers (uuid, customer_uuid, division_uuid, number, description, status, amount, offer_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	o.UUID = uuid.New()
	if o.Status == "" {
		o.Status = models.OfferDraft
	}
	o.CreatedAt = time.Now().UTC()
	o.UpdatedAt = o.CreatedAt

	_, err := r.db.ExecContext(ctx, query, o.UUID, o.CustomerUUID, o.DivisionUUID, o.Number,
		o.Description, o.Status, o.Amount, o.OfferDate, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return models.Offer{}, err
	}

	r.invalidate(ctx)
	return o, nil
}

func (r *PostgresOfferRepository) GetByUUID(id uuid.UUID) (models.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE uuid = $1 AND removed = FALSE`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	o, err := scanOffer(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Offer{}, ErrOfferNotFound
	}
	return o, err
}

func (r *PostgresOfferRepository) Update(o models.Offer) (models.Offer, error) {
	query := `UPDATE offers SET customer_uuid = $1, division_uuid = $2, number = $3, description = $4,
		status = $5, amount = $6, offer_date = $7, updated_at = $8 WHERE uuid = $9 AND removed = FALSE`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	o.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, o.CustomerUUID, o.DivisionUUID, o.Number, o.Description,
		o.Status, o.Amount, o.OfferDate, o.UpdatedAt, o.UUID)
	if err != nil {
		return models.Offer{}, err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return models.Offer{}, ErrOfferNotFound
	}

	r.invalidate(ctx)
	return o, nil
}

func (r *PostgresOfferRepository) Delete(id uuid.UUID) error {
	query := `UPDATE offers SET removed = TRUE, updated_at = $1 WHERE uuid = $2 AND removed = FALSE`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrOfferNotFound
	}

	r.invalidate(ctx)
	return nil
}

func (r *PostgresOfferRepository) Filter(f OfferFilter) ([]models.Offer, int, error) {
	conditions := ""
	args := []any{}
	argIdx := 1

	if f.Search != "" {
		conditions += fmt.Sprintf(" AND (number ILIKE $%d OR description ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+f.Search+"%")
		argIdx++
	}
	if f.CustomerUUID != nil {
		conditions += fmt.Sprintf(" AND customer_uuid = $%d", argIdx)
		args = append(args, *f.CustomerUUID)
		argIdx++
	}
	if f.Status != nil {
		conditions += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *f.Status)
		argIdx++
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var totalCount int
	countQuery := `SELECT COUNT(*) FROM offers WHERE removed = FALSE` + conditions
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + offerColumns + ` FROM offers WHERE removed = FALSE` + conditions
	if f.Sort == "offer_date" {
		query += " ORDER BY offer_date ASC"
	} else {
		query += " ORDER BY offer_date DESC"
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

	var offers []models.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, 0, err
		}
		offers = append(offers, o)
	}
	return offers, totalCount, rows.Err()
}

func (r *PostgresOfferRepository) GetForSelect() ([]SelectOption, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var options []SelectOption
	if ok, err := r.cache.Get(ctx, cache.KeyOffersSelect, &options); err == nil && ok {
		return options, nil
	}

	query := `SELECT uuid, number FROM offers WHERE removed = FALSE ORDER BY number`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var o SelectOption
		if err := rows.Scan(&o.UUID, &o.Label); err != nil {
			return nil, err
		}
		options = append(options, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	_ = r.cache.Set(ctx, cache.KeyOffersSelect, options, cache.DefaultTTL)
	return options, nil
}

// Fulfill flips the offer to fulfilled and inserts one launched order per
// active article, all in one transaction so a failed insert leaves the offer
// untouched.
func (r *PostgresOfferRepository) Fulfill(id uuid.UUID) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var offer models.Offer
	err = tx.QueryRowContext(ctx, `SELECT uuid, number, status FROM offers WHERE uuid = $1 AND removed = FALSE FOR UPDATE`, id).
		Scan(&offer.UUID, &offer.Number, &offer.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOfferNotFound
	}
	if err != nil {
		return nil, err
	}
	if offer.Status == models.OfferFulfilled {
		return nil, ErrOfferAlreadyFulfilled
	}

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `UPDATE offers SET status = $1, updated_at = $2 WHERE uuid = $3`,
		models.OfferFulfilled, now, id); err != nil {
		return nil, err
	}

	articleRows, err := tx.QueryContext(ctx, `SELECT uuid, quantity, delivery_date FROM articles
		WHERE offer_uuid = $1 AND removed = FALSE ORDER BY code`, id)
	if err != nil {
		return nil, err
	}
	defer articleRows.Close()

	type articleLine struct {
		uuid         uuid.UUID
		quantity     int
		deliveryDate time.Time
	}
	var lines []articleLine
	for articleRows.Next() {
		var l articleLine
		if err := articleRows.Scan(&l.uuid, &l.quantity, &l.deliveryDate); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	if err := articleRows.Err(); err != nil {
		return nil, err
	}

	var orders []models.Order
	for i, line := range lines {
		order := models.Order{
			UUID:             uuid.New(),
			ArticleUUID:      line.uuid,
			ProductionNumber: fmt.Sprintf("%s/%d", offer.Number, i+1),
			Quantity:         line.quantity,
			Status:           models.OrderLaunched,
			DeliveryDate:     line.deliveryDate,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO orders (uuid, article_uuid, production_number, quantity, worked_quantity, status, autocontrollo, delivery_date, created_at, updated_at)
			VALUES ($1, $2, $3, $4, 0, $5, FALSE, $6, $7, $8)`,
			order.UUID, order.ArticleUUID, order.ProductionNumber, order.Quantity, order.Status,
			order.DeliveryDate, order.CreatedAt, order.UpdatedAt)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	r.invalidate(ctx)
	return orders, nil
}

func (r *PostgresOfferRepository) invalidate(ctx context.Context) {
	_ = r.cache.Delete(ctx, cache.KeyOffersSelect, cache.KeyCustomerFormOptions)
}
