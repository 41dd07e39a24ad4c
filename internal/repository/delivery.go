package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/domain"
)

// DeliveryRepo represents delivery repository.
type DeliveryRepo struct {
	db *pgxpool.Pool
}

// NewDeliveryRepo creates a new DeliveryRepo.
func NewDeliveryRepo(db *pgxpool.Pool) *DeliveryRepo {
	return &DeliveryRepo{db: db}
}

const deliveryColumns = `id, customer_id, courier_id, origin_lat, origin_lon, dest_lat, dest_lon, status, created_at, updated_at`

func scanDelivery(row pgx.Row) (*domain.Delivery, error) {
	var d domain.Delivery
	err := row.Scan(&d.ID, &d.CustomerID, &d.CourierID,
		&d.Origin.Lat, &d.Origin.Lon, &d.Destination.Lat, &d.Destination.Lon,
		&d.Status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a delivery in status created and fills ID and timestamps.
func (r *DeliveryRepo) Create(ctx context.Context, d *domain.Delivery) error {
	d.Status = domain.DeliveryCreated
	err := r.db.QueryRow(ctx, `
        INSERT INTO deliveries (customer_id, origin_lat, origin_lon, dest_lat, dest_lon, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at
    `, d.CustomerID, d.Origin.Lat, d.Origin.Lon, d.Destination.Lat, d.Destination.Lon, string(d.Status),
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

// LoadDelivery returns the delivery or apperr.ErrNotFound.
func (r *DeliveryRepo) LoadDelivery(ctx context.Context, id int64) (*domain.Delivery, error) {
	d, err := scanDelivery(r.db.QueryRow(ctx, `SELECT `+deliveryColumns+` FROM deliveries WHERE id = $1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("delivery %d: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("load delivery %d: %w", id, err)
	}
	return d, nil
}

// UpdateStatus moves the delivery to an in-flight status. Matched and cancelled
// deliveries are final and are left untouched.
func (r *DeliveryRepo) UpdateStatus(ctx context.Context, id int64, status domain.DeliveryStatus) error {
	ct, err := r.db.Exec(ctx, `
        UPDATE deliveries
        SET status = $2, updated_at = now()
        WHERE id = $1 AND status NOT IN ('matched', 'cancelled')
    `, id, string(status))
	if err != nil {
		return fmt.Errorf("update delivery %d status: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return r.exists(ctx, id)
	}
	return nil
}

// MarkMatched assigns the courier and marks its profile busy in one transaction.
func (r *DeliveryRepo) MarkMatched(ctx context.Context, id, courierID int64) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		status, err := lockStatus(ctx, tx, id)
		if err != nil {
			return err
		}
		if status == domain.DeliveryCancelled || status == domain.DeliveryMatched {
			return fmt.Errorf("delivery %d is %s: %w", id, status, apperr.ErrConflict)
		}

		if _, err := tx.Exec(ctx, `
            UPDATE deliveries
            SET status = 'matched', courier_id = $2, updated_at = now()
            WHERE id = $1
        `, id, courierID); err != nil {
			if IsForeignKey(err) {
				return fmt.Errorf("courier %d: %w", courierID, apperr.ErrNotFound)
			}
			return fmt.Errorf("match delivery %d: %w", id, err)
		}

		if _, err := tx.Exec(ctx, `
            UPDATE couriers SET status = $2, updated_at = now() WHERE id = $1
        `, courierID, string(domain.StatusBusy)); err != nil {
			return fmt.Errorf("update courier status %d: %w", courierID, err)
		}
		return nil
	})
}

// MarkNoCouriersAvailable records that dispatch ran out of candidates.
func (r *DeliveryRepo) MarkNoCouriersAvailable(ctx context.Context, id int64) error {
	return r.UpdateStatus(ctx, id, domain.DeliveryNoCouriersAvailable)
}

// MarkCancelled cancels the delivery unless it is already matched.
func (r *DeliveryRepo) MarkCancelled(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		status, err := lockStatus(ctx, tx, id)
		if err != nil {
			return err
		}
		switch status {
		case domain.DeliveryCancelled:
			return nil
		case domain.DeliveryMatched:
			return fmt.Errorf("delivery %d is matched: %w", id, apperr.ErrConflict)
		}
		if _, err := tx.Exec(ctx, `
            UPDATE deliveries SET status = 'cancelled', updated_at = now() WHERE id = $1
        `, id); err != nil {
			return fmt.Errorf("cancel delivery %d: %w", id, err)
		}
		return nil
	})
}

func lockStatus(ctx context.Context, tx pgx.Tx, id int64) (domain.DeliveryStatus, error) {
	var status domain.DeliveryStatus
	err := tx.QueryRow(ctx, `SELECT status FROM deliveries WHERE id = $1 FOR UPDATE`, id).Scan(&status)
	if err != nil {
		if IsNotFound(err) {
			return "", fmt.Errorf("delivery %d: %w", id, apperr.ErrNotFound)
		}
		return "", fmt.Errorf("lock delivery %d: %w", id, err)
	}
	return status, nil
}

func (r *DeliveryRepo) exists(ctx context.Context, id int64) error {
	var found bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM deliveries WHERE id = $1)`, id).Scan(&found); err != nil {
		return fmt.Errorf("check delivery %d: %w", id, err)
	}
	if !found {
		return fmt.Errorf("delivery %d: %w", id, apperr.ErrNotFound)
	}
	return nil
}
