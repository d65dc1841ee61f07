package store

import (
	"context"
	"fmt"
	"time"

	"streamhub-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateReview inserts a review unless the rental already has one. The unique index on
// order_id covers the race between two submitters.
func (s *Store) CreateReview(ctx context.Context, r *domain.Review) error {
	var n int64
	if err := s.db(ctx).Model(&domain.Review{}).Where("order_id = ?", r.OrderID).Count(&n).Error; err != nil {
		return fmt.Errorf("check review: %w", err)
	}
	if n > 0 {
		return domain.ErrDuplicateRequest
	}
	return s.create(ctx, r)
}

func (s *Store) GetReview(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	var r domain.Review
	if err := s.first(ctx, &r, "id = ?", id); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) DeleteReview(ctx context.Context, id uuid.UUID) error {
	res := s.db(ctx).Where("id = ?", id).Delete(&domain.Review{})
	if res.Error != nil {
		return fmt.Errorf("delete review: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateReview writes review columns, reporting a missing row as domain.ErrNotFound.
func (s *Store) UpdateReview(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	res := s.db(ctx).Model(&domain.Review{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update review: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReviewFilter narrows a review query. TargetOwnerID joins the reviewed service.
type ReviewFilter struct {
	TargetID      *uuid.UUID
	ReviewerID    *uuid.UUID
	TargetOwnerID *uuid.UUID
}

func (s *Store) ListReviews(ctx context.Context, f ReviewFilter, p domain.Page) ([]domain.Review, int64, error) {
	q := s.db(ctx).Model(&domain.Review{})
	if f.TargetOwnerID != nil {
		q = q.Joins("JOIN listings ON listings.id = reviews.target_id").
			Where("listings.owner_id = ?", *f.TargetOwnerID)
	}
	if f.TargetID != nil {
		q = q.Where("reviews.target_id = ?", *f.TargetID)
	}
	if f.ReviewerID != nil {
		q = q.Where("reviews.reviewer_id = ?", *f.ReviewerID)
	}

	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}
	var out []domain.Review
	err := paginate(q.Select("reviews.*").Order("reviews.created_at DESC"), p).Find(&out).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	return out, total, nil
}

// SummarizeReviews returns the count and mean rating of a service's reviews.
func (s *Store) SummarizeReviews(ctx context.Context, targetID uuid.UUID) (domain.ReviewSummary, error) {
	var sum domain.ReviewSummary
	err := s.db(ctx).Model(&domain.Review{}).
		Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS average_rating").
		Where("target_id = ?", targetID).
		Scan(&sum).Error
	if err != nil {
		return sum, fmt.Errorf("summarize reviews: %w", err)
	}
	return sum, nil
}
