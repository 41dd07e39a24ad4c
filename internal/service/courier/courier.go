package courier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/domain"
)

// Service coordinates courier business logic and orchestrates repository calls.
type Service struct {
	repo             courierRepository
	operationTimeout time.Duration
}

// NewService creates and configures a courier Service.
func NewService(r courierRepository, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{repo: r, operationTimeout: timeout}
}

// courier
func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// validateCreate validates a courier for creation.
func validateCreate(c *domain.Courier) error {
	if c == nil {
		return apperr.ErrInvalid
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("name is required: %w", apperr.ErrInvalid)
	}
	if !domain.ValidatePhone(c.Phone) {
		return fmt.Errorf("phone %q: %w", c.Phone, apperr.ErrInvalid)
	}
	if c.Status == "" {
		c.Status = domain.StatusAvailable
	}
	if !c.Status.Valid() {
		return fmt.Errorf("status %q: %w", c.Status, apperr.ErrInvalid)
	}
	if c.TransportType == "" {
		c.TransportType = domain.TransportTypeFoot
	}
	if !c.TransportType.Valid() {
		return fmt.Errorf("transport type %q: %w", c.TransportType, apperr.ErrInvalid)
	}
	return nil
}

// Get retrieves a courier by its ID.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Courier, error) {
	if id <= 0 {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("courier %d: %w", id, apperr.ErrNotFound)
	}
	return c, nil
}

// FindProfileByID is Get under the name the dispatcher expects.
func (s *Service) FindProfileByID(ctx context.Context, id int64) (*domain.Courier, error) {
	return s.Get(ctx, id)
}

// List returns couriers with optional pagination
func (s *Service) List(ctx context.Context, limit, offset *int) ([]domain.Courier, error) {
	if (limit != nil && *limit < 0) || (offset != nil && *offset < 0) {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.List(ctx, limit, offset)
}

// Create persists a new courier and returns its generated ID.
func (s *Service) Create(ctx context.Context, c *domain.Courier) (int64, error) {
	if err := validateCreate(c); err != nil {
		return 0, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.Create(ctx, c)
}

// UpdateStatus changes the profile status of a courier.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status domain.CourierStatus) error {
	if id <= 0 || !status.Valid() {
		return apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	ok, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("courier %d: %w", id, apperr.ErrNotFound)
	}
	return nil
}
