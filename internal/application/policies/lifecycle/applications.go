package lifecycle

import (
	"streamhub-backend/internal/constants"
	"streamhub-backend/internal/domain"
	"streamhub-backend/internal/pkg/validation"
)

// CanApplyAsRole is the role gate of CanApply. It needs no demand, so callers run it
// before loading one.
func CanApplyAsRole(c domain.Caller) error {
	if !allowed(constants.ApplyToDemand, c) {
		return domain.ErrRoleMismatch
	}
	return nil
}

// CanApply gates applyToDemand. Order: role, self, demand status.
func CanApply(c domain.Caller, demand *domain.Listing) error {
	if err := CanApplyAsRole(c); err != nil {
		return err
	}
	if c.Is(demand.OwnerID) {
		return domain.ErrSelfApplication
	}
	if demand.Kind != domain.KindDemand {
		return domain.ErrListingNotOpen
	}
	if demand.Status != domain.ListingOpen && demand.Status != domain.ListingApproved {
		return domain.ErrListingNotOpen
	}
	return nil
}

func ValidateApplication(promoteText string) error {
	if !validation.NonBlank(promoteText) {
		return domain.Invalid("promote_text", "is required")
	}
	return nil
}

// DecideApplication lets the demand owner settle a pending application.
func DecideApplication(c domain.Caller, demand *domain.Listing, app *domain.DemandApplication, d domain.Decision) (domain.ApplicationStatus, error) {
	if !c.Is(demand.OwnerID) {
		return app.Status, domain.ErrAuthorization
	}
	return domain.NextApplicationStatus(app.Status, d)
}

// CanViewApplication allows the applicant and the demand owner.
func CanViewApplication(c domain.Caller, demand *domain.Listing, app *domain.DemandApplication) error {
	if c.Is(app.ApplicantID) || c.Is(demand.OwnerID) {
		return nil
	}
	return domain.ErrAuthorization
}

// CanEditApplication lets the applicant revise an application while it is pending.
func CanEditApplication(c domain.Caller, app *domain.DemandApplication) error {
	if !c.Is(app.ApplicantID) {
		return domain.ErrAuthorization
	}
	if app.Status != domain.ApplicationPending {
		return &domain.StateError{Entity: "application", From: string(app.Status), Action: "edit"}
	}
	return nil
}
