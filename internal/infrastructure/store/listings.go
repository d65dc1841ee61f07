package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"streamhub-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListingFilter narrows a listing query. Zero values do not filter.
type ListingFilter struct {
	Kind     domain.ListingKind
	OwnerID  *uuid.UUID
	Statuses []domain.ListingStatus
	IsPublic *bool
	Featured *bool
	Category string
	Search   string
	Tag      string
	MinPrice *float64
	MaxPrice *float64
}

func (s *Store) CreateListing(ctx context.Context, l *domain.Listing) error {
	return s.create(ctx, l)
}

func (s *Store) GetListing(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	var l domain.Listing
	if err := s.first(ctx, &l, "id = ?", id); err != nil {
		return nil, err
	}
	return &l, nil
}

// UpdateListing writes non-status fields of a listing.
func (s *Store) UpdateListing(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	delete(updates, "status")
	updates["updated_at"] = time.Now().UTC()
	res := s.db(ctx).Model(&domain.Listing{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update listing: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// TransitionListing moves a listing from one status to another, failing with
// domain.ErrConcurrentModification if the stored status is no longer from.
func (s *Store) TransitionListing(ctx context.Context, id uuid.UUID, from, to domain.ListingStatus) error {
	return s.guardedUpdate(ctx, &domain.Listing{}, id, string(from), map[string]interface{}{"status": to})
}

// ListListings returns one page of listings and the total match count.
func (s *Store) ListListings(ctx context.Context, f ListingFilter, p domain.Page) ([]domain.Listing, int64, error) {
	q := s.db(ctx).Model(&domain.Listing{})
	if f.Kind != "" {
		q = q.Where("kind = ?", f.Kind)
	}
	if f.OwnerID != nil {
		q = q.Where("owner_id = ?", *f.OwnerID)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if f.IsPublic != nil {
		q = q.Where("is_public = ?", *f.IsPublic)
	}
	if f.Featured != nil {
		q = q.Where("featured = ?", *f.Featured)
	}
	if c := strings.TrimSpace(f.Category); c != "" {
		q = q.Where("category = ?", c)
	}
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		like := "%" + escapeLike(term) + "%"
		q = q.Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, like, like)
	}
	if tag := strings.TrimSpace(f.Tag); tag != "" {
		q = q.Where(`tags LIKE ? ESCAPE '\'`, `%"`+escapeLike(tag)+`"%`)
	}
	// Ranges overlap the requested bounds.
	if f.MinPrice != nil {
		q = q.Where("price_max >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price_min <= ?", *f.MaxPrice)
	}

	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count listings: %w", err)
	}
	var out []domain.Listing
	if err := paginate(q.Order("featured DESC").Order("created_at DESC"), p).Find(&out).Error; err != nil {
		return nil, 0, fmt.Errorf("list listings: %w", err)
	}
	return out, total, nil
}
