package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/domain"
)

// CourierRepo represents courier repository.
type CourierRepo struct{ db *pgxpool.Pool }

// NewCourierRepo creates a new CourierRepo.
func NewCourierRepo(db *pgxpool.Pool) *CourierRepo { return &CourierRepo{db: db} }

const courierColumns = `id, name, phone, status, transport_type`

// Get - returns courier by its ID, nil when absent.
func (r *CourierRepo) Get(ctx context.Context, id int64) (*domain.Courier, error) {
	var c domain.Courier
	err := r.db.QueryRow(ctx,
		`SELECT `+courierColumns+` FROM couriers WHERE id=$1`, id,
	).Scan(&c.ID, &c.Name, &c.Phone, &c.Status, &c.TransportType)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get courier %d: %w", id, err)
	}
	return &c, nil
}

// FindProfileByID returns the courier profile or apperr.ErrNotFound.
func (r *CourierRepo) FindProfileByID(ctx context.Context, id int64) (*domain.Courier, error) {
	c, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("courier %d: %w", id, apperr.ErrNotFound)
	}
	return c, nil
}

// List returns couriers ordered by id. If limit/offset are nil, returns the full list.
func (r *CourierRepo) List(ctx context.Context, limit, offset *int) ([]domain.Courier, error) {
	q := `SELECT ` + courierColumns + ` FROM couriers ORDER BY id`
	args := make([]any, 0, 2)
	if limit != nil {
		q += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, *limit)
	}
	if offset != nil {
		q += fmt.Sprintf(" OFFSET $%d", len(args)+1)
		args = append(args, *offset)
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list couriers: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Courier, 0)
	for rows.Next() {
		var c domain.Courier
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Status, &c.TransportType); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Create - creates a new courier.
func (r *CourierRepo) Create(ctx context.Context, c *domain.Courier) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO couriers(name,phone,status,transport_type) VALUES($1,$2,$3,$4) RETURNING id`,
		c.Name, c.Phone, c.Status, c.TransportType).Scan(&id)
	if err != nil {
		if IsDuplicate(err) {
			return 0, fmt.Errorf("courier phone %s: %w", c.Phone, apperr.ErrConflict)
		}
		return 0, fmt.Errorf("create courier: %w", err)
	}
	return id, nil
}

// UpdateStatus sets the profile status and returns false when the courier does not exist.
func (r *CourierRepo) UpdateStatus(ctx context.Context, id int64, status domain.CourierStatus) (bool, error) {
	ct, err := r.db.Exec(ctx,
		`UPDATE couriers SET status=$2, updated_at=now() WHERE id=$1`, id, string(status))
	if err != nil {
		return false, fmt.Errorf("update courier %d status: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}
