package store

import (
	"context"
	"fmt"

	"streamhub-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RentalFilter narrows a rental query. OwnerID joins the rented service.
type RentalFilter struct {
	ServiceID *uuid.UUID
	BuyerID   *uuid.UUID
	OwnerID   *uuid.UUID
	Status    domain.RentalStatus
}

var activeRentalStatuses = []domain.RentalStatus{
	domain.RentalPending, domain.RentalApproved, domain.RentalInProgress,
}

// CreateRental inserts a rental unless the buyer already holds an active one on the
// same service. Call it inside Tx.
func (s *Store) CreateRental(ctx context.Context, r *domain.ServiceRental) error {
	var n int64
	err := s.db(ctx).Model(&domain.ServiceRental{}).
		Where("service_id = ? AND buyer_id = ? AND status IN ?", r.ServiceID, r.BuyerID, activeRentalStatuses).
		Count(&n).Error
	if err != nil {
		return fmt.Errorf("check active rental: %w", err)
	}
	if n > 0 {
		return domain.ErrDuplicateRequest
	}
	return s.create(ctx, r)
}

func (s *Store) GetRental(ctx context.Context, id uuid.UUID) (*domain.ServiceRental, error) {
	var r domain.ServiceRental
	if err := s.first(ctx, &r, "id = ?", id); err != nil {
		return nil, err
	}
	return &r, nil
}

// TransitionRental is a guarded status write; extra columns are written with it.
func (s *Store) TransitionRental(ctx context.Context, id uuid.UUID, from, to domain.RentalStatus, extra map[string]interface{}) error {
	updates := map[string]interface{}{"status": to}
	for k, v := range extra {
		updates[k] = v
	}
	return s.guardedUpdate(ctx, &domain.ServiceRental{}, id, string(from), updates)
}

func (s *Store) rentalQuery(ctx context.Context, f RentalFilter) *gorm.DB {
	q := s.db(ctx).Model(&domain.ServiceRental{})
	if f.OwnerID != nil {
		q = q.Joins("JOIN listings ON listings.id = service_rentals.service_id").
			Where("listings.owner_id = ?", *f.OwnerID)
	}
	if f.ServiceID != nil {
		q = q.Where("service_rentals.service_id = ?", *f.ServiceID)
	}
	if f.BuyerID != nil {
		q = q.Where("service_rentals.buyer_id = ?", *f.BuyerID)
	}
	if f.Status != "" {
		q = q.Where("service_rentals.status = ?", f.Status)
	}
	return q.Session(&gorm.Session{})
}

func (s *Store) ListRentals(ctx context.Context, f RentalFilter, p domain.Page) ([]domain.ServiceRental, int64, error) {
	q := s.rentalQuery(ctx, f)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count rentals: %w", err)
	}
	var out []domain.ServiceRental
	err := paginate(q.Select("service_rentals.*").Order("service_rentals.created_at DESC"), p).Find(&out).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list rentals: %w", err)
	}
	return out, total, nil
}

// AllRentals returns every rental matching f, oldest first.
func (s *Store) AllRentals(ctx context.Context, f RentalFilter) ([]domain.ServiceRental, error) {
	var out []domain.ServiceRental
	err := s.rentalQuery(ctx, f).Select("service_rentals.*").Order("service_rentals.created_at ASC").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list rentals: %w", err)
	}
	return out, nil
}

// BlockingRentals returns the approved and in-progress rentals of a service.
func (s *Store) BlockingRentals(ctx context.Context, serviceID uuid.UUID) ([]domain.ServiceRental, error) {
	var out []domain.ServiceRental
	err := s.db(ctx).
		Where("service_id = ? AND status IN ?", serviceID,
			[]domain.RentalStatus{domain.RentalApproved, domain.RentalInProgress}).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("blocking rentals: %w", err)
	}
	return out, nil
}

// CountRentalsByStatus counts the rentals received by a service owner, per status.
// Every status is present in the result.
func (s *Store) CountRentalsByStatus(ctx context.Context, ownerID uuid.UUID) (map[domain.RentalStatus]int64, error) {
	var rows []struct {
		Status domain.RentalStatus
		Total  int64
	}
	err := s.db(ctx).Model(&domain.ServiceRental{}).
		Select("service_rentals.status AS status, COUNT(*) AS total").
		Joins("JOIN listings ON listings.id = service_rentals.service_id").
		Where("listings.owner_id = ?", ownerID).
		Group("service_rentals.status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count rentals by status: %w", err)
	}
	out := make(map[domain.RentalStatus]int64, len(domain.RentalStatuses))
	for _, st := range domain.RentalStatuses {
		out[st] = 0
	}
	for _, r := range rows {
		out[r.Status] = r.Total
	}
	return out, nil
}
