// Package lifecycle holds the pure authorization and validation gates of the
// marketplace workflows. Nothing here touches storage; callers load records, ask
// the gate, then perform a guarded write.
package lifecycle

import (
	"streamhub-backend/internal/constants"
	"streamhub-backend/internal/domain"
	"streamhub-backend/internal/pkg/validation"
)

// ListingFields are the caller-editable parts of a listing.
type ListingFields struct {
	Title       string
	Description string
	Category    string
	Price       domain.PriceRange
	Days        []string
}

// ValidatePriceRange rejects negative bounds and min > max.
func ValidatePriceRange(field string, p domain.PriceRange) error {
	if p.Min < 0 {
		return domain.Invalid(field+".min", "must not be negative")
	}
	if p.Max < 0 {
		return domain.Invalid(field+".max", "must not be negative")
	}
	if p.Min > p.Max {
		return domain.Invalid(field, "min must not exceed max")
	}
	if p.Currency != "" && !validation.IsValidCurrency(p.Currency) {
		return domain.Invalid(field+".currency", "must be a 3-letter currency code")
	}
	return nil
}

// ValidateListing checks a listing about to be created or replaced.
func ValidateListing(kind domain.ListingKind, f ListingFields) error {
	if !kind.Valid() {
		return domain.Invalid("kind", "must be demand or service")
	}
	if !validation.NonBlank(f.Title) {
		return domain.Invalid("title", "is required")
	}
	if !validation.NonBlank(f.Description) {
		return domain.Invalid("description", "is required")
	}
	if !validation.NonBlank(f.Category) {
		return domain.Invalid("category", "is required")
	}
	for _, d := range f.Days {
		if !validation.IsValidDay(d) {
			return domain.Invalid("availability.days", "unknown day "+d)
		}
	}
	return ValidatePriceRange("price_range", f.Price)
}

func allowed(permission string, c domain.Caller) bool {
	return c.Authenticated() && constants.AllowedRole(permission, string(c.Role))
}

// CanCreateListing requires an authenticated caller with a known role.
func CanCreateListing(c domain.Caller) error {
	if !allowed(constants.CreateListing, c) {
		return domain.ErrAuthorization
	}
	return nil
}

// CanEditListing allows the owner only.
func CanEditListing(c domain.Caller, l *domain.Listing) error {
	if !c.Is(l.OwnerID) {
		return domain.ErrAuthorization
	}
	return nil
}

func CanModerate(c domain.Caller) error {
	if !allowed(constants.ModerateListing, c) {
		return domain.ErrAuthorization
	}
	return nil
}

func CanFeature(c domain.Caller) error {
	if !allowed(constants.FeatureListing, c) {
		return domain.ErrAuthorization
	}
	return nil
}

// ModerationTransition returns the status a moderation decision leads to.
func ModerationTransition(c domain.Caller, l *domain.Listing, d domain.Decision) (domain.ListingStatus, error) {
	if err := CanModerate(c); err != nil {
		return l.Status, err
	}
	action := domain.ListingActApprove
	if d == domain.DecisionReject {
		action = domain.ListingActReject
	}
	return domain.NextListingStatus(l.Kind, l.Status, action)
}

// OperationalTransition returns the status an owner-driven change leads to.
func OperationalTransition(c domain.Caller, l *domain.Listing, target domain.ListingStatus) (domain.ListingStatus, error) {
	if err := CanEditListing(c, l); err != nil {
		return l.Status, err
	}
	action, ok := domain.OperationalAction(target)
	if !ok {
		return l.Status, &domain.StateError{Entity: string(l.Kind), From: string(l.Status), Action: "set " + string(target)}
	}
	return domain.NextListingStatus(l.Kind, l.Status, action)
}

// CanView reports whether c may see l. Owners and admins see everything.
func CanView(c domain.Caller, l *domain.Listing) bool {
	if l.Discoverable() {
		return true
	}
	return c.Is(l.OwnerID) || (c.Authenticated() && c.Role == domain.RoleAdmin)
}

// CanReadEvents allows the listing owner, and admins for any listing.
func CanReadEvents(c domain.Caller, l *domain.Listing) error {
	if c.Is(l.OwnerID) || allowed(constants.ReadAnyEvents, c) {
		return nil
	}
	return domain.ErrAuthorization
}
