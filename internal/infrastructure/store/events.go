package store

import (
	"context"
	"fmt"

	"streamhub-backend/internal/domain"

	"github.com/google/uuid"
)

// AppendEvent writes one audit row. Call it inside the Tx of the mutation it records.
func (s *Store) AppendEvent(ctx context.Context, ev *domain.ListingEvent) error {
	if err := s.db(ctx).Create(ev).Error; err != nil {
		return fmt.Errorf("append listing event: %w", err)
	}
	return nil
}

// ListEvents returns the audit trail of a listing, newest first.
func (s *Store) ListEvents(ctx context.Context, listingID uuid.UUID, p domain.Page) ([]domain.ListingEvent, int64, error) {
	var total int64
	if err := s.db(ctx).Model(&domain.ListingEvent{}).Where("listing_id = ?", listingID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count listing events: %w", err)
	}
	var out []domain.ListingEvent
	err := s.db(ctx).Where("listing_id = ?", listingID).
		Order("created_at DESC").
		Offset(p.Offset()).Limit(p.Limit).
		Find(&out).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list listing events: %w", err)
	}
	return out, total, nil
}
