package store

import (
	"context"
	"fmt"

	"streamhub-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApplicationFilter narrows an application query. DemandOwnerID joins the parent demand.
type ApplicationFilter struct {
	DemandID      *uuid.UUID
	ApplicantID   *uuid.UUID
	DemandOwnerID *uuid.UUID
	Status        domain.ApplicationStatus
}

// CreateApplication inserts a pending application unless the applicant already has a
// pending or approved one on the same demand. Call it inside Tx so the check and the
// insert see the same snapshot; the partial unique index backs it up.
func (s *Store) CreateApplication(ctx context.Context, a *domain.DemandApplication) error {
	var n int64
	err := s.db(ctx).Model(&domain.DemandApplication{}).
		Where("demand_id = ? AND applicant_id = ? AND status IN ?", a.DemandID, a.ApplicantID,
			[]domain.ApplicationStatus{domain.ApplicationPending, domain.ApplicationApproved}).
		Count(&n).Error
	if err != nil {
		return fmt.Errorf("check active application: %w", err)
	}
	if n > 0 {
		return domain.ErrDuplicateRequest
	}
	return s.create(ctx, a)
}

func (s *Store) GetApplication(ctx context.Context, id uuid.UUID) (*domain.DemandApplication, error) {
	var a domain.DemandApplication
	if err := s.first(ctx, &a, "id = ?", id); err != nil {
		return nil, err
	}
	return &a, nil
}

// TransitionApplication is a guarded status write; extra columns are written with it.
func (s *Store) TransitionApplication(ctx context.Context, id uuid.UUID, from, to domain.ApplicationStatus, extra map[string]interface{}) error {
	updates := map[string]interface{}{"status": to}
	for k, v := range extra {
		updates[k] = v
	}
	return s.guardedUpdate(ctx, &domain.DemandApplication{}, id, string(from), updates)
}

// EditApplication writes applicant fields while the application is still pending.
func (s *Store) EditApplication(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	delete(updates, "status")
	return s.guardedUpdate(ctx, &domain.DemandApplication{}, id, string(domain.ApplicationPending), updates)
}

func (s *Store) ListApplications(ctx context.Context, f ApplicationFilter, p domain.Page) ([]domain.DemandApplication, int64, error) {
	q := s.db(ctx).Model(&domain.DemandApplication{})
	if f.DemandOwnerID != nil {
		q = q.Joins("JOIN listings ON listings.id = demand_applications.demand_id").
			Where("listings.owner_id = ?", *f.DemandOwnerID)
	}
	if f.DemandID != nil {
		q = q.Where("demand_applications.demand_id = ?", *f.DemandID)
	}
	if f.ApplicantID != nil {
		q = q.Where("demand_applications.applicant_id = ?", *f.ApplicantID)
	}
	if f.Status != "" {
		q = q.Where("demand_applications.status = ?", f.Status)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count applications: %w", err)
	}
	var out []domain.DemandApplication
	err := paginate(q.Select("demand_applications.*").Order("demand_applications.created_at DESC"), p).Find(&out).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list applications: %w", err)
	}
	return out, total, nil
}
