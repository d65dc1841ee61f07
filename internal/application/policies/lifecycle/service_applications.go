package lifecycle

import (
	"streamhub-backend/internal/constants"
	"streamhub-backend/internal/domain"
)

// CanApplyToService gates a buyer's application to a service. Order: role, self,
// service status.
func CanApplyToService(c domain.Caller, service *domain.Listing) error {
	if !allowed(constants.ApplyToService, c) {
		return domain.ErrRoleMismatch
	}
	if c.Is(service.OwnerID) {
		return domain.ErrSelfApplication
	}
	if service.Kind != domain.KindService {
		return domain.ErrListingNotOpen
	}
	if service.Status != domain.ListingOpen && service.Status != domain.ListingApproved {
		return domain.ErrListingNotOpen
	}
	return nil
}

// ValidateServiceApplication requires a way to reach the buyer.
func ValidateServiceApplication(contactInfo map[string]interface{}) error {
	if len(contactInfo) == 0 {
		return domain.Invalid("contact_info", "is required")
	}
	return nil
}

func DecideServiceApplication(c domain.Caller, service *domain.Listing, app *domain.ServiceApplication, d domain.Decision) (domain.ApplicationStatus, error) {
	if !c.Is(service.OwnerID) {
		return app.Status, domain.ErrAuthorization
	}
	return domain.NextApplicationStatus(app.Status, d)
}

// CanViewServiceApplication allows the buyer, the service owner and admins.
func CanViewServiceApplication(c domain.Caller, service *domain.Listing, app *domain.ServiceApplication) error {
	if c.Is(app.BuyerID) || c.Is(service.OwnerID) {
		return nil
	}
	if c.Authenticated() && c.Role == domain.RoleAdmin {
		return nil
	}
	return domain.ErrAuthorization
}
