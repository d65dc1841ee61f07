package reviews

import (
	"context"
	"strings"
	"time"

	"streamhub-backend/internal/application/policies/lifecycle"
	"streamhub-backend/internal/domain"
	"streamhub-backend/internal/infrastructure/metrics"
	"streamhub-backend/internal/infrastructure/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

type Service struct {
	Store   *store.Store
	Metrics *metrics.Metrics
	Pages   domain.PageSizes
}

type SubmitInput struct {
	Rating  int
	Content string
	Images  []string
}

// UpdateInput carries the fields an author may revise. Nil leaves a field as is.
type UpdateInput struct {
	Rating  *int
	Content *string
	Images  []string
}

func (s *Service) reject(op string, c domain.Caller, err error) error {
	s.Metrics.Rejected(op, err)
	log.Debug().Str("op", op).Str("actor", c.ID.String()).Str("code", domain.Code(err)).Err(err).Msg("Review operation refused")
	return err
}

// Submit reviews a completed rental. Only its buyer may review, once.
func (s *Service) Submit(ctx context.Context, c domain.Caller, rentalID uuid.UUID, in SubmitInput) (*domain.Review, error) {
	rental, err := s.Store.GetRental(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.CanReview(c, rental); err != nil {
		return nil, s.reject("submit_review", c, err)
	}
	if err := lifecycle.ValidateReview(in.Rating, in.Content); err != nil {
		return nil, s.reject("submit_review", c, err)
	}

	rev := &domain.Review{
		TargetID:   rental.ServiceID,
		OrderID:    rental.ID,
		ReviewerID: c.ID,
		Rating:     in.Rating,
		Content:    strings.TrimSpace(in.Content),
		Images:     datatypes.JSONSlice[string](in.Images),
	}
	err = s.Store.Tx(ctx, func(tx *store.Store) error {
		if err := tx.CreateReview(ctx, rev); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, domain.NewEvent(domain.EntityReview, rev.ID, rental.ServiceID, domain.EventReviewed, c, "", "", map[string]interface{}{
			"rental_id": rental.ID,
			"rating":    rev.Rating,
		}))
	})
	if err != nil {
		return nil, s.reject("submit_review", c, err)
	}
	log.Info().Str("review_id", rev.ID.String()).Str("rental_id", rental.ID.String()).Int("rating", rev.Rating).Msg("Review submitted")
	return rev, nil
}

// ListForService returns one page of a service's reviews and its rating summary.
func (s *Service) ListForService(ctx context.Context, serviceID uuid.UUID, p domain.Page) ([]domain.Review, domain.ReviewSummary, domain.Pagination, error) {
	page := s.Pages.Normalize(p)
	out, total, err := s.Store.ListReviews(ctx, store.ReviewFilter{TargetID: &serviceID}, page)
	if err != nil {
		return nil, domain.ReviewSummary{}, domain.Pagination{}, err
	}
	sum, err := s.Store.SummarizeReviews(ctx, serviceID)
	if err != nil {
		return nil, domain.ReviewSummary{}, domain.Pagination{}, err
	}
	if out == nil {
		out = []domain.Review{}
	}
	return out, sum, domain.NewPagination(page, total), nil
}

// Update revises the caller's own review.
func (s *Service) Update(ctx context.Context, c domain.Caller, id uuid.UUID, in UpdateInput) (*domain.Review, error) {
	rev, err := s.Store.GetReview(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.CanEditReview(c, rev); err != nil {
		return nil, s.reject("update_review", c, err)
	}
	rating, content := rev.Rating, rev.Content
	if in.Rating != nil {
		rating = *in.Rating
	}
	if in.Content != nil {
		content = strings.TrimSpace(*in.Content)
	}
	if err := lifecycle.ValidateReview(rating, content); err != nil {
		return nil, s.reject("update_review", c, err)
	}

	updates := map[string]interface{}{"rating": rating, "content": content}
	if in.Images != nil {
		rev.Images = datatypes.JSONSlice[string](in.Images)
		updates["images"] = rev.Images
	}
	err = s.Store.Tx(ctx, func(tx *store.Store) error {
		if err := tx.UpdateReview(ctx, rev.ID, updates); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, domain.NewEvent(domain.EntityReview, rev.ID, rev.TargetID, domain.EventUpdated, c, "", "", map[string]interface{}{
			"rental_id": rev.OrderID,
			"rating":    rating,
		}))
	})
	if err != nil {
		return nil, s.reject("update_review", c, err)
	}
	rev.Rating, rev.Content = rating, content
	log.Info().Str("review_id", rev.ID.String()).Int("rating", rating).Msg("Review updated")
	return rev, nil
}

// Reply records the service owner's answer to a review, replacing any earlier one.
func (s *Service) Reply(ctx context.Context, c domain.Caller, id uuid.UUID, content string) (*domain.Review, error) {
	rev, err := s.Store.GetReview(ctx, id)
	if err != nil {
		return nil, err
	}
	service, err := s.Store.GetListing(ctx, rev.TargetID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.CanReplyToReview(c, service); err != nil {
		return nil, s.reject("reply_review", c, err)
	}
	if err := lifecycle.ValidateReply(content); err != nil {
		return nil, s.reject("reply_review", c, err)
	}

	now := time.Now().UTC()
	reply := strings.TrimSpace(content)
	err = s.Store.Tx(ctx, func(tx *store.Store) error {
		if err := tx.UpdateReview(ctx, rev.ID, map[string]interface{}{"reply": reply, "replied_at": now}); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, domain.NewEvent(domain.EntityReview, rev.ID, service.ID, domain.EventReviewReplied, c, "", "", nil))
	})
	if err != nil {
		return nil, s.reject("reply_review", c, err)
	}
	rev.Reply, rev.RepliedAt = reply, &now
	log.Info().Str("review_id", rev.ID.String()).Str("actor", c.ID.String()).Msg("Review replied")
	return rev, nil
}

// ListWritten returns the reviews the caller has written.
func (s *Service) ListWritten(ctx context.Context, c domain.Caller, p domain.Page) ([]domain.Review, domain.Pagination, error) {
	if !c.Authenticated() {
		return nil, domain.Pagination{}, domain.ErrAuthorization
	}
	return s.list(ctx, store.ReviewFilter{ReviewerID: &c.ID}, p)
}

// ListReceived returns the reviews left on any service the caller owns.
func (s *Service) ListReceived(ctx context.Context, c domain.Caller, p domain.Page) ([]domain.Review, domain.Pagination, error) {
	if !c.Authenticated() {
		return nil, domain.Pagination{}, domain.ErrAuthorization
	}
	return s.list(ctx, store.ReviewFilter{TargetOwnerID: &c.ID}, p)
}

func (s *Service) list(ctx context.Context, f store.ReviewFilter, p domain.Page) ([]domain.Review, domain.Pagination, error) {
	page := s.Pages.Normalize(p)
	out, total, err := s.Store.ListReviews(ctx, f, page)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	if out == nil {
		out = []domain.Review{}
	}
	return out, domain.NewPagination(page, total), nil
}

// Delete removes a review. Author only.
func (s *Service) Delete(ctx context.Context, c domain.Caller, id uuid.UUID) error {
	rev, err := s.Store.GetReview(ctx, id)
	if err != nil {
		return err
	}
	if err := lifecycle.CanDeleteReview(c, rev); err != nil {
		return s.reject("delete_review", c, err)
	}
	err = s.Store.Tx(ctx, func(tx *store.Store) error {
		if err := tx.DeleteReview(ctx, rev.ID); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, domain.NewEvent(domain.EntityReview, rev.ID, rev.TargetID, domain.EventReviewDeleted, c, "", "", map[string]interface{}{
			"rental_id": rev.OrderID,
		}))
	})
	if err != nil {
		return err
	}
	log.Info().Str("review_id", rev.ID.String()).Str("actor", c.ID.String()).Msg("Review deleted")
	return nil
}
