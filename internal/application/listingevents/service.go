package listingevents

import (
	"context"

	"streamhub-backend/internal/application/policies/lifecycle"
	"streamhub-backend/internal/domain"
	"streamhub-backend/internal/infrastructure/store"

	"github.com/google/uuid"
)

type Service struct {
	Store *store.Store
	Pages domain.PageSizes
}

// ListForListing returns the audit trail of one listing, newest first. The owner may
// read their own listing's trail; admins may read any.
func (s *Service) ListForListing(ctx context.Context, c domain.Caller, listingID uuid.UUID, p domain.Page) ([]domain.ListingEvent, domain.Pagination, error) {
	l, err := s.Store.GetListing(ctx, listingID)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	if err := lifecycle.CanReadEvents(c, l); err != nil {
		return nil, domain.Pagination{}, err
	}
	page := s.Pages.Normalize(p)
	events, total, err := s.Store.ListEvents(ctx, l.ID, page)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	if events == nil {
		events = []domain.ListingEvent{}
	}
	return events, domain.NewPagination(page, total), nil
}
