package lifecycle

import (
	"time"

	"streamhub-backend/internal/constants"
	"streamhub-backend/internal/domain"
	"streamhub-backend/internal/pkg/validation"
)

// RentalFields are the buyer-supplied parts of a rental request.
type RentalFields struct {
	Start *time.Time
	End   *time.Time
	Days  []string
	Price domain.PriceRange
}

// CanRequestRental gates requestRental: not the owner, and the service is live.
func CanRequestRental(c domain.Caller, service *domain.Listing) error {
	if !allowed(constants.RequestRental, c) {
		return domain.ErrAuthorization
	}
	if c.Is(service.OwnerID) {
		return domain.ErrSelfRental
	}
	if service.Kind != domain.KindService {
		return domain.ErrListingNotOpen
	}
	if service.Status != domain.ListingOpen && service.Status != domain.ListingApproved {
		return domain.ErrListingNotOpen
	}
	return nil
}

// ValidateRental requires a window with start <= end or a non-empty day set, and a
// valid expected price.
func ValidateRental(f RentalFields) error {
	hasWindow := f.Start != nil || f.End != nil
	if hasWindow {
		if f.Start == nil || f.End == nil {
			return domain.Invalid("window", "start and end are both required")
		}
		if f.End.Before(*f.Start) {
			return domain.Invalid("window", "start must not be after end")
		}
	}
	days := 0
	for _, d := range f.Days {
		if !validation.NonBlank(d) {
			continue
		}
		if !validation.IsValidDay(d) {
			return domain.Invalid("days", "unknown day "+d)
		}
		days++
	}
	if !hasWindow && days == 0 {
		return domain.Invalid("window", "a time window or at least one day is required")
	}
	return ValidatePriceRange("expected_price", f.Price)
}

func ownsService(c domain.Caller, service *domain.Listing) bool {
	return c.Is(service.OwnerID)
}

// DecideRental lets the service owner settle a pending rental.
func DecideRental(c domain.Caller, service *domain.Listing, r *domain.ServiceRental, d domain.Decision) (domain.RentalStatus, error) {
	if !ownsService(c, service) {
		return r.Status, domain.ErrAuthorization
	}
	return domain.NextRentalStatus(r.Status, domain.DecisionAction(d))
}

// StartRental lets the service owner begin an approved rental.
func StartRental(c domain.Caller, service *domain.Listing, r *domain.ServiceRental) (domain.RentalStatus, error) {
	if !ownsService(c, service) {
		return r.Status, domain.ErrAuthorization
	}
	return domain.NextRentalStatus(r.Status, domain.RentalActStart)
}

// CancelRental lets either party withdraw a live rental.
func CancelRental(c domain.Caller, service *domain.Listing, r *domain.ServiceRental) (domain.RentalStatus, error) {
	if !c.Is(r.BuyerID) && !ownsService(c, service) {
		return r.Status, domain.ErrAuthorization
	}
	return domain.NextRentalStatus(r.Status, domain.RentalActCancel)
}

// CompleteRental is performed by the service owner or an admin.
func CompleteRental(c domain.Caller, service *domain.Listing, r *domain.ServiceRental) (domain.RentalStatus, error) {
	if !ownsService(c, service) && !allowed(constants.CompleteAnyRental, c) {
		return r.Status, domain.ErrAuthorization
	}
	return domain.NextRentalStatus(r.Status, domain.RentalActComplete)
}

// CanViewRental allows the buyer, the service owner and admins.
func CanViewRental(c domain.Caller, service *domain.Listing, r *domain.ServiceRental) error {
	if c.Is(r.BuyerID) || ownsService(c, service) || allowed(constants.CompleteAnyRental, c) {
		return nil
	}
	return domain.ErrAuthorization
}

// CanManageService allows the service owner only.
func CanManageService(c domain.Caller, service *domain.Listing) error {
	if !ownsService(c, service) {
		return domain.ErrAuthorization
	}
	return nil
}
