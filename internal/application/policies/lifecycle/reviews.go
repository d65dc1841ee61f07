package lifecycle

import (
	"streamhub-backend/internal/domain"
	"streamhub-backend/internal/pkg/validation"
)

// CanReview requires a completed rental reviewed by its own buyer.
func CanReview(c domain.Caller, r *domain.ServiceRental) error {
	if r.Status != domain.RentalCompleted || !c.Is(r.BuyerID) {
		return domain.ErrNotEligible
	}
	return nil
}

func ValidateReview(rating int, content string) error {
	if rating < 1 || rating > 5 {
		return domain.Invalid("rating", "must be between 1 and 5")
	}
	if !validation.NonBlank(content) {
		return domain.Invalid("content", "is required")
	}
	return nil
}

// CanEditReview allows the author only. Deleting follows the same rule.
func CanEditReview(c domain.Caller, r *domain.Review) error {
	if !c.Is(r.ReviewerID) {
		return domain.ErrAuthorization
	}
	return nil
}

func CanDeleteReview(c domain.Caller, r *domain.Review) error {
	return CanEditReview(c, r)
}

// CanReplyToReview allows the owner of the reviewed service.
func CanReplyToReview(c domain.Caller, service *domain.Listing) error {
	if !c.Is(service.OwnerID) {
		return domain.ErrAuthorization
	}
	return nil
}

func ValidateReply(content string) error {
	if !validation.NonBlank(content) {
		return domain.Invalid("content", "is required")
	}
	return nil
}
