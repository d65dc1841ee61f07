package lifecycle

import (
	"testing"
	"time"

	"streamhub-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func caller(role domain.Role) domain.Caller {
	return domain.Caller{ID: uuid.New(), Role: role}
}

func listing(kind domain.ListingKind, status domain.ListingStatus, owner uuid.UUID) *domain.Listing {
	return &domain.Listing{ID: uuid.New(), Kind: kind, Status: status, OwnerID: owner, IsPublic: true}
}

func validFields() ListingFields {
	return ListingFields{
		Title:       "Livestream host",
		Description: "Hosting a 3h sale",
		Category:    "hosting",
		Price:       domain.PriceRange{Min: 10, Max: 20, Currency: "VND"},
	}
}

func TestValidatePriceRange_Property(t *testing.T) {
	bounds := []float64{-5, -0.01, 0, 1, 10, 1e6}
	for _, min := range bounds {
		for _, max := range bounds {
			err := ValidatePriceRange("price_range", domain.PriceRange{Min: min, Max: max})
			if min < 0 || max < 0 || min > max {
				assert.ErrorIs(t, err, domain.ErrValidation, "min=%v max=%v", min, max)
			} else {
				assert.NoError(t, err, "min=%v max=%v", min, max)
			}
		}
	}
}

func TestValidateListing(t *testing.T) {
	assert.NoError(t, ValidateListing(domain.KindService, validFields()))

	f := validFields()
	f.Title = "   "
	assert.ErrorIs(t, ValidateListing(domain.KindService, f), domain.ErrValidation)

	f = validFields()
	f.Category = ""
	assert.ErrorIs(t, ValidateListing(domain.KindDemand, f), domain.ErrValidation)

	assert.ErrorIs(t, ValidateListing("gig", validFields()), domain.ErrValidation)

	f = validFields()
	f.Days = []string{"mon", "funday"}
	assert.ErrorIs(t, ValidateListing(domain.KindDemand, f), domain.ErrValidation)
}

func TestModerationTransition(t *testing.T) {
	l := listing(domain.KindService, domain.ListingPending, uuid.New())

	_, err := ModerationTransition(caller(domain.RoleSupplier), l, domain.DecisionApprove)
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	to, err := ModerationTransition(caller(domain.RoleAdmin), l, domain.DecisionApprove)
	require.NoError(t, err)
	assert.Equal(t, domain.ListingApproved, to)

	l.Status = domain.ListingOpen
	_, err = ModerationTransition(caller(domain.RoleAdmin), l, domain.DecisionReject)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestOperationalTransition(t *testing.T) {
	owner := caller(domain.RoleSupplier)
	svc := listing(domain.KindService, domain.ListingApproved, owner.ID)

	_, err := OperationalTransition(caller(domain.RoleAdmin), svc, domain.ListingOpen)
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	to, err := OperationalTransition(owner, svc, domain.ListingOpen)
	require.NoError(t, err)
	assert.Equal(t, domain.ListingOpen, to)

	svc.Status = domain.ListingOpen
	_, err = OperationalTransition(owner, svc, domain.ListingAwarded)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = OperationalTransition(owner, svc, domain.ListingPending)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	demand := listing(domain.KindDemand, domain.ListingClosed, owner.ID)
	to, err = OperationalTransition(owner, demand, domain.ListingCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.ListingCompleted, to)
}

func TestCanView(t *testing.T) {
	owner := caller(domain.RoleBuyer)
	stranger := caller(domain.RoleBuyer)
	for _, st := range domain.ListingStatuses {
		l := listing(domain.KindDemand, st, owner.ID)
		assert.Equal(t, st == domain.ListingApproved || st == domain.ListingOpen, CanView(stranger, l), st)
		assert.True(t, CanView(owner, l))
		assert.True(t, CanView(caller(domain.RoleAdmin), l))
	}
	private := listing(domain.KindDemand, domain.ListingOpen, owner.ID)
	private.IsPublic = false
	assert.False(t, CanView(domain.Caller{}, private))
}

func TestCanApply_Properties(t *testing.T) {
	supplier := caller(domain.RoleSupplier)

	for _, st := range domain.ListingStatuses {
		// Buyers are always rejected on role, whatever the demand state.
		d := listing(domain.KindDemand, st, uuid.New())
		assert.ErrorIs(t, CanApply(caller(domain.RoleBuyer), d), domain.ErrRoleMismatch, st)

		// Owners are always rejected as self-applicants.
		own := listing(domain.KindDemand, st, supplier.ID)
		assert.ErrorIs(t, CanApply(supplier, own), domain.ErrSelfApplication, st)

		err := CanApply(supplier, d)
		if st == domain.ListingOpen || st == domain.ListingApproved {
			assert.NoError(t, err, st)
		} else {
			assert.ErrorIs(t, err, domain.ErrListingNotOpen, st)
		}
	}

	assert.ErrorIs(t, CanApply(caller(domain.RoleAdmin), listing(domain.KindDemand, domain.ListingOpen, uuid.New())), domain.ErrRoleMismatch)
	assert.ErrorIs(t, ValidateApplication(" "), domain.ErrValidation)
}

func TestDecideApplication(t *testing.T) {
	owner := caller(domain.RoleBuyer)
	d := listing(domain.KindDemand, domain.ListingOpen, owner.ID)
	app := &domain.DemandApplication{ApplicantID: uuid.New(), Status: domain.ApplicationPending}

	_, err := DecideApplication(caller(domain.RoleAdmin), d, app, domain.DecisionApprove)
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	to, err := DecideApplication(owner, d, app, domain.DecisionReject)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationRejected, to)

	app.Status = domain.ApplicationApproved
	_, err = DecideApplication(owner, d, app, domain.DecisionReject)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	assert.NoError(t, CanViewApplication(domain.Caller{ID: app.ApplicantID}, d, app))
	assert.ErrorIs(t, CanViewApplication(caller(domain.RoleSupplier), d, app), domain.ErrAuthorization)
}

func TestCanEditApplication(t *testing.T) {
	applicant := caller(domain.RoleSupplier)
	app := &domain.DemandApplication{ApplicantID: applicant.ID, Status: domain.ApplicationPending}
	assert.NoError(t, CanEditApplication(applicant, app))
	assert.ErrorIs(t, CanEditApplication(caller(domain.RoleAdmin), app), domain.ErrAuthorization)

	for _, st := range []domain.ApplicationStatus{domain.ApplicationApproved, domain.ApplicationRejected} {
		app.Status = st
		assert.ErrorIs(t, CanEditApplication(applicant, app), domain.ErrInvalidState, st)
	}

	assert.ErrorIs(t, CanApplyAsRole(caller(domain.RoleBuyer)), domain.ErrRoleMismatch)
	assert.NoError(t, CanApplyAsRole(applicant))
}

func TestServiceApplicationGates(t *testing.T) {
	owner := caller(domain.RoleSupplier)
	buyer := caller(domain.RoleBuyer)
	for _, st := range domain.ListingStatuses {
		svc := listing(domain.KindService, st, owner.ID)
		assert.ErrorIs(t, CanApplyToService(caller(domain.RoleSupplier), svc), domain.ErrRoleMismatch, st)
		err := CanApplyToService(buyer, svc)
		if st == domain.ListingOpen || st == domain.ListingApproved {
			assert.NoError(t, err, st)
		} else {
			assert.ErrorIs(t, err, domain.ErrListingNotOpen, st)
		}
	}
	assert.ErrorIs(t, CanApplyToService(buyer, listing(domain.KindService, domain.ListingOpen, buyer.ID)), domain.ErrSelfApplication)
	assert.ErrorIs(t, CanApplyToService(buyer, listing(domain.KindDemand, domain.ListingOpen, owner.ID)), domain.ErrListingNotOpen)
	assert.ErrorIs(t, ValidateServiceApplication(nil), domain.ErrValidation)

	svc := listing(domain.KindService, domain.ListingOpen, owner.ID)
	app := &domain.ServiceApplication{BuyerID: buyer.ID, Status: domain.ApplicationPending}
	_, err := DecideServiceApplication(buyer, svc, app, domain.DecisionApprove)
	assert.ErrorIs(t, err, domain.ErrAuthorization)
	to, err := DecideServiceApplication(owner, svc, app, domain.DecisionApprove)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationApproved, to)

	assert.NoError(t, CanViewServiceApplication(buyer, svc, app))
	assert.NoError(t, CanViewServiceApplication(caller(domain.RoleAdmin), svc, app))
	assert.ErrorIs(t, CanViewServiceApplication(caller(domain.RoleBuyer), svc, app), domain.ErrAuthorization)
}

func TestCanRequestRental(t *testing.T) {
	owner := caller(domain.RoleSupplier)
	svc := listing(domain.KindService, domain.ListingOpen, owner.ID)

	assert.ErrorIs(t, CanRequestRental(owner, svc), domain.ErrSelfRental)
	assert.NoError(t, CanRequestRental(caller(domain.RoleBuyer), svc))
	assert.ErrorIs(t, CanRequestRental(domain.Caller{}, svc), domain.ErrAuthorization)

	svc.Status = domain.ListingClosed
	assert.ErrorIs(t, CanRequestRental(caller(domain.RoleBuyer), svc), domain.ErrListingNotOpen)
}

func TestValidateRental(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	price := domain.PriceRange{Min: 0, Max: 100}

	assert.NoError(t, ValidateRental(RentalFields{Start: &start, End: &end, Price: price}))
	assert.NoError(t, ValidateRental(RentalFields{Days: []string{"sat"}, Price: price}))
	assert.ErrorIs(t, ValidateRental(RentalFields{Start: &end, End: &start, Price: price}), domain.ErrValidation)
	assert.ErrorIs(t, ValidateRental(RentalFields{Start: &start, Price: price}), domain.ErrValidation)
	assert.ErrorIs(t, ValidateRental(RentalFields{Days: []string{" "}, Price: price}), domain.ErrValidation)
	assert.ErrorIs(t, ValidateRental(RentalFields{Days: []string{"sat"}, Price: domain.PriceRange{Min: 5, Max: 1}}), domain.ErrValidation)
}

func TestRentalGates_TerminalIsInvalidState(t *testing.T) {
	owner := caller(domain.RoleSupplier)
	buyer := caller(domain.RoleBuyer)
	svc := listing(domain.KindService, domain.ListingOpen, owner.ID)

	for _, st := range domain.RentalStatuses {
		if !st.Terminal() {
			continue
		}
		r := &domain.ServiceRental{BuyerID: buyer.ID, ServiceID: svc.ID, Status: st}
		for _, d := range []domain.Decision{domain.DecisionApprove, domain.DecisionReject} {
			got, err := DecideRental(owner, svc, r, d)
			assert.ErrorIs(t, err, domain.ErrInvalidState)
			assert.Equal(t, st, got)
		}
		_, err := CancelRental(buyer, svc, r)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
		_, err = CompleteRental(owner, svc, r)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
		_, err = StartRental(owner, svc, r)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	}
}

func TestRentalGates_Actors(t *testing.T) {
	owner := caller(domain.RoleSupplier)
	buyer := caller(domain.RoleBuyer)
	stranger := caller(domain.RoleBuyer)
	svc := listing(domain.KindService, domain.ListingOpen, owner.ID)
	r := &domain.ServiceRental{BuyerID: buyer.ID, ServiceID: svc.ID, Status: domain.RentalPending}

	_, err := DecideRental(buyer, svc, r, domain.DecisionApprove)
	assert.ErrorIs(t, err, domain.ErrAuthorization)
	_, err = CancelRental(stranger, svc, r)
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	to, err := CancelRental(owner, svc, r)
	require.NoError(t, err)
	assert.Equal(t, domain.RentalCancelled, to)

	r.Status = domain.RentalApproved
	_, err = CompleteRental(buyer, svc, r)
	assert.ErrorIs(t, err, domain.ErrAuthorization)
	to, err = CompleteRental(caller(domain.RoleAdmin), svc, r)
	require.NoError(t, err)
	assert.Equal(t, domain.RentalCompleted, to)

	to, err = StartRental(owner, svc, r)
	require.NoError(t, err)
	assert.Equal(t, domain.RentalInProgress, to)

	assert.NoError(t, CanViewRental(buyer, svc, r))
	assert.ErrorIs(t, CanViewRental(stranger, svc, r), domain.ErrAuthorization)
}

func TestCanReview_Conjunction(t *testing.T) {
	buyer := caller(domain.RoleBuyer)
	for _, st := range domain.RentalStatuses {
		r := &domain.ServiceRental{BuyerID: buyer.ID, Status: st}
		if st == domain.RentalCompleted {
			assert.NoError(t, CanReview(buyer, r))
		} else {
			assert.ErrorIs(t, CanReview(buyer, r), domain.ErrNotEligible, st)
		}
		assert.ErrorIs(t, CanReview(caller(domain.RoleBuyer), r), domain.ErrNotEligible)
	}

	for _, rating := range []int{0, 6, -1} {
		assert.ErrorIs(t, ValidateReview(rating, "fine"), domain.ErrValidation)
	}
	assert.ErrorIs(t, ValidateReview(4, ""), domain.ErrValidation)
	assert.NoError(t, ValidateReview(5, "great host"))

	rev := &domain.Review{ReviewerID: buyer.ID}
	assert.NoError(t, CanDeleteReview(buyer, rev))
	assert.ErrorIs(t, CanDeleteReview(caller(domain.RoleAdmin), rev), domain.ErrAuthorization)
	assert.ErrorIs(t, CanEditReview(caller(domain.RoleBuyer), rev), domain.ErrAuthorization)

	owner := caller(domain.RoleSupplier)
	svc := listing(domain.KindService, domain.ListingOpen, owner.ID)
	assert.NoError(t, CanReplyToReview(owner, svc))
	assert.ErrorIs(t, CanReplyToReview(buyer, svc), domain.ErrAuthorization)
	assert.ErrorIs(t, ValidateReply("  "), domain.ErrValidation)
}

func TestCanReadEvents(t *testing.T) {
	owner := caller(domain.RoleBuyer)
	l := listing(domain.KindDemand, domain.ListingOpen, owner.ID)
	assert.NoError(t, CanReadEvents(owner, l))
	assert.NoError(t, CanReadEvents(caller(domain.RoleAdmin), l))
	assert.ErrorIs(t, CanReadEvents(caller(domain.RoleSupplier), l), domain.ErrAuthorization)
}
