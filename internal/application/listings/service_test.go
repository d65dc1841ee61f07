package listings

import (
	"context"
	"testing"

	"streamhub-backend/internal/domain"
	"streamhub-backend/internal/infrastructure/database"
	"streamhub-backend/internal/infrastructure/metrics"
	"streamhub-backend/internal/infrastructure/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupService(t *testing.T) *Service {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return &Service{Store: store.New(db), Metrics: metrics.New()}
}

func newCaller(role domain.Role) domain.Caller {
	return domain.Caller{ID: uuid.New(), Role: role}
}

func serviceInput() CreateListingInput {
	return CreateListingInput{
		Kind:          domain.KindService,
		Title:         "Livestream host for cosmetics",
		Description:   "Experienced host, Vietnamese and English",
		Category:      "hosting",
		PriceMin:      100,
		PriceMax:      500,
		IsPublic:      true,
		AvailableDays: []string{"sat", "sun"},
		ContactInfo:   map[string]interface{}{"email": "host@streamhub.vn"},
	}
}

func TestCreateListing_ForcesPending(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	for _, st := range []string{"", "open", "approved", "completed", "bogus"} {
		in := serviceInput()
		in.Status = st
		l, err := svc.CreateListing(ctx, newCaller(domain.RoleSupplier), in)
		require.NoError(t, err)
		assert.Equal(t, domain.ListingPending, l.Status, st)
		assert.Equal(t, "VND", l.PriceRange.Currency)
	}
}

func TestCreateListing_Validation(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	in := serviceInput()
	in.PriceMin, in.PriceMax = 10, 5
	_, err := svc.CreateListing(ctx, newCaller(domain.RoleSupplier), in)
	assert.ErrorIs(t, err, domain.ErrValidation)

	in = serviceInput()
	in.Description = " "
	_, err = svc.CreateListing(ctx, newCaller(domain.RoleSupplier), in)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CreateListing(ctx, domain.Caller{}, serviceInput())
	assert.ErrorIs(t, err, domain.ErrAuthorization)
}

// Supplier publishes a service, an admin approves it, the owner opens it and it
// becomes publicly discoverable.
func TestServiceLifecycle(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	supplier := newCaller(domain.RoleSupplier)
	admin := newCaller(domain.RoleAdmin)

	l, err := svc.CreateListing(ctx, supplier, serviceInput())
	require.NoError(t, err)

	items, _, err := svc.ListListings(ctx, ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = svc.ModerateListing(ctx, supplier, l.ID, domain.DecisionApprove, "")
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	l, err = svc.ModerateListing(ctx, admin, l.ID, domain.DecisionApprove, "looks good")
	require.NoError(t, err)
	assert.Equal(t, domain.ListingApproved, l.Status)

	_, err = svc.ModerateListing(ctx, admin, l.ID, domain.DecisionReject, "")
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = svc.SetOperationalStatus(ctx, newCaller(domain.RoleSupplier), l.ID, domain.ListingOpen)
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	l, err = svc.SetOperationalStatus(ctx, supplier, l.ID, domain.ListingOpen)
	require.NoError(t, err)
	assert.Equal(t, domain.ListingOpen, l.Status)

	items, page, err := svc.ListListings(ctx, ListQuery{Kind: domain.KindService})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, l.ID, items[0].ID)
	assert.Equal(t, int64(1), page.TotalItems)
	assert.Equal(t, 10, page.Limit)

	_, err = svc.SetOperationalStatus(ctx, supplier, l.ID, domain.ListingAwarded)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	events, _, err := svc.Store.ListEvents(ctx, l.ID, domain.Page{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestListListings_Visibility(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	owner := newCaller(domain.RoleBuyer)
	admin := newCaller(domain.RoleAdmin)

	in := serviceInput()
	in.Kind = domain.KindDemand
	pending, err := svc.CreateListing(ctx, owner, in)
	require.NoError(t, err)

	in.IsPublic = false
	private, err := svc.CreateListing(ctx, owner, in)
	require.NoError(t, err)
	_, err = svc.ModerateListing(ctx, admin, private.ID, domain.DecisionApprove, "")
	require.NoError(t, err)

	items, _, err := svc.ListListings(ctx, ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, items)

	items, page, err := svc.ListListings(ctx, ListQuery{Status: domain.ListingPending})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, int64(0), page.TotalItems)

	notPublic := false
	items, _, err = svc.ListListings(ctx, ListQuery{IsPublic: &notPublic})
	require.NoError(t, err)
	assert.Empty(t, items)

	mine, _, err := svc.ListMyListings(ctx, owner, ListQuery{})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	_, err = svc.GetListing(ctx, newCaller(domain.RoleSupplier), pending.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	got, err := svc.GetListing(ctx, owner, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, pending.ID, got.ID)
}

func TestEditListing(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	owner := newCaller(domain.RoleSupplier)
	l, err := svc.CreateListing(ctx, owner, serviceInput())
	require.NoError(t, err)

	title := "New title"
	_, err = svc.EditListing(ctx, newCaller(domain.RoleSupplier), l.ID, EditListingInput{Title: &title})
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	max := 50.0
	_, err = svc.EditListing(ctx, owner, l.ID, EditListingInput{PriceMax: &max})
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := svc.EditListing(ctx, owner, l.ID, EditListingInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, got.Title)
	assert.Equal(t, domain.ListingPending, got.Status)

	stored, err := svc.Store.GetListing(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, title, stored.Title)
	assert.Equal(t, 500.0, stored.PriceRange.Max)

	_, err = svc.EditListing(ctx, owner, uuid.New(), EditListingInput{Title: &title})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFeatureListing(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	owner := newCaller(domain.RoleSupplier)
	admin := newCaller(domain.RoleAdmin)
	l, err := svc.CreateListing(ctx, owner, serviceInput())
	require.NoError(t, err)

	_, err = svc.FeatureListing(ctx, owner, l.ID, true)
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	_, err = svc.FeatureListing(ctx, admin, l.ID, true)
	require.NoError(t, err)

	// Featured but still pending: not shown.
	items, err := svc.ListFeatured(ctx, domain.KindService, 0)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = svc.ModerateListing(ctx, admin, l.ID, domain.DecisionApprove, "")
	require.NoError(t, err)
	items, err = svc.ListFeatured(ctx, domain.KindService, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Featured)
}
