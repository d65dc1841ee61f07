package store

import (
	"context"
	"fmt"

	"streamhub-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServiceApplicationFilter narrows a service application query. ServiceOwnerID joins
// the parent service.
type ServiceApplicationFilter struct {
	ServiceID      *uuid.UUID
	BuyerID        *uuid.UUID
	ServiceOwnerID *uuid.UUID
	Status         domain.ApplicationStatus
}

// CreateServiceApplication inserts an application unless the buyer already applied to
// the service, in any status.
func (s *Store) CreateServiceApplication(ctx context.Context, a *domain.ServiceApplication) error {
	var n int64
	err := s.db(ctx).Model(&domain.ServiceApplication{}).
		Where("service_id = ? AND buyer_id = ?", a.ServiceID, a.BuyerID).
		Count(&n).Error
	if err != nil {
		return fmt.Errorf("check service application: %w", err)
	}
	if n > 0 {
		return domain.ErrDuplicateRequest
	}
	return s.create(ctx, a)
}

func (s *Store) GetServiceApplication(ctx context.Context, id uuid.UUID) (*domain.ServiceApplication, error) {
	var a domain.ServiceApplication
	if err := s.first(ctx, &a, "id = ?", id); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) TransitionServiceApplication(ctx context.Context, id uuid.UUID, from, to domain.ApplicationStatus, extra map[string]interface{}) error {
	updates := map[string]interface{}{"status": to}
	for k, v := range extra {
		updates[k] = v
	}
	return s.guardedUpdate(ctx, &domain.ServiceApplication{}, id, string(from), updates)
}

func (s *Store) ListServiceApplications(ctx context.Context, f ServiceApplicationFilter, p domain.Page) ([]domain.ServiceApplication, int64, error) {
	q := s.db(ctx).Model(&domain.ServiceApplication{})
	if f.ServiceOwnerID != nil {
		q = q.Joins("JOIN listings ON listings.id = service_applications.service_id").
			Where("listings.owner_id = ?", *f.ServiceOwnerID)
	}
	if f.ServiceID != nil {
		q = q.Where("service_applications.service_id = ?", *f.ServiceID)
	}
	if f.BuyerID != nil {
		q = q.Where("service_applications.buyer_id = ?", *f.BuyerID)
	}
	if f.Status != "" {
		q = q.Where("service_applications.status = ?", f.Status)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count service applications: %w", err)
	}
	var out []domain.ServiceApplication
	err := paginate(q.Select("service_applications.*").Order("service_applications.created_at DESC"), p).Find(&out).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list service applications: %w", err)
	}
	return out, total, nil
}
