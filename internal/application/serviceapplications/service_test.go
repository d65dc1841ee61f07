package serviceapplications

import (
	"context"
	"sync"
	"testing"

	"streamhub-backend/internal/domain"
	"streamhub-backend/internal/infrastructure/database"
	"streamhub-backend/internal/infrastructure/metrics"
	"streamhub-backend/internal/infrastructure/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeNotifier) ApplicationDecided(ctx context.Context, toEmail, title, status, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, toEmail+":"+title+":"+status)
	return nil
}

func (f *fakeNotifier) RentalDecided(ctx context.Context, toEmail, serviceTitle, status, reason string) error {
	return nil
}

func (f *fakeNotifier) RentalCancelled(ctx context.Context, toEmail, serviceTitle, reason string) error {
	return nil
}

func setupService(t *testing.T) (*Service, *fakeNotifier) {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	n := &fakeNotifier{}
	return &Service{Store: store.New(db), Metrics: metrics.New(), Notifier: n}, n
}

func newCaller(role domain.Role) domain.Caller {
	return domain.Caller{ID: uuid.New(), Role: role}
}

func seedListing(t *testing.T, s *Service, kind domain.ListingKind, owner domain.Caller, status domain.ListingStatus) *domain.Listing {
	l := &domain.Listing{
		Kind:        kind,
		OwnerID:     owner.ID,
		Title:       "Green-screen studio",
		Description: "Hourly, with lights",
		Category:    "studio",
		PriceRange:  domain.PriceRange{Min: 1, Max: 2, Currency: "VND"},
		IsPublic:    true,
		Status:      status,
	}
	require.NoError(t, s.Store.CreateListing(context.Background(), l))
	return l
}

func contact() ApplyInput {
	return ApplyInput{ContactInfo: map[string]interface{}{"email": "buyer@streamhub.vn"}, Note: "Weekend slots"}
}

func TestApplyGates(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	owner := newCaller(domain.RoleSupplier)
	buyer := newCaller(domain.RoleBuyer)
	open := seedListing(t, svc, domain.KindService, owner, domain.ListingOpen)

	_, err := svc.Apply(ctx, newCaller(domain.RoleSupplier), open.ID, contact())
	assert.ErrorIs(t, err, domain.ErrRoleMismatch)

	own := seedListing(t, svc, domain.KindService, buyer, domain.ListingOpen)
	_, err = svc.Apply(ctx, buyer, own.ID, contact())
	assert.ErrorIs(t, err, domain.ErrSelfApplication)

	for _, st := range []domain.ListingStatus{domain.ListingPending, domain.ListingClosed, domain.ListingRejected} {
		l := seedListing(t, svc, domain.KindService, owner, st)
		_, err = svc.Apply(ctx, buyer, l.ID, contact())
		assert.ErrorIs(t, err, domain.ErrListingNotOpen, st)
	}
	demand := seedListing(t, svc, domain.KindDemand, owner, domain.ListingOpen)
	_, err = svc.Apply(ctx, buyer, demand.ID, contact())
	assert.ErrorIs(t, err, domain.ErrListingNotOpen)

	_, err = svc.Apply(ctx, buyer, open.ID, ApplyInput{Note: "no contact"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.Apply(ctx, buyer, uuid.New(), contact())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyDecideAndDuplicate(t *testing.T) {
	svc, notifier := setupService(t)
	ctx := context.Background()
	owner := newCaller(domain.RoleSupplier)
	buyer := newCaller(domain.RoleBuyer)
	service := seedListing(t, svc, domain.KindService, owner, domain.ListingApproved)

	app, err := svc.Apply(ctx, buyer, service.ID, contact())
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationPending, app.Status)
	assert.Equal(t, "Weekend slots", app.Note)

	_, err = svc.Decide(ctx, buyer, app.ID, domain.DecisionApprove, "")
	assert.ErrorIs(t, err, domain.ErrAuthorization)
	got, err := svc.Decide(ctx, owner, app.ID, domain.DecisionReject, " fully booked ")
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationRejected, got.Status)
	assert.Equal(t, "fully booked", got.DecisionReason)
	assert.Equal(t, []string{"buyer@streamhub.vn:Green-screen studio:rejected"}, notifier.sent)

	_, err = svc.Decide(ctx, owner, app.ID, domain.DecisionApprove, "")
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	// One application per buyer and service, even after rejection.
	_, err = svc.Apply(ctx, buyer, service.ID, contact())
	assert.ErrorIs(t, err, domain.ErrDuplicateRequest)

	events, _, err := svc.Store.ListEvents(ctx, service.ID, domain.Page{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, events, 2)
	for _, e := range events {
		assert.Equal(t, domain.EntityServiceApplication, e.Entity)
	}
}

func TestListsAndGet(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	owner := newCaller(domain.RoleSupplier)
	b1, b2 := newCaller(domain.RoleBuyer), newCaller(domain.RoleBuyer)
	service := seedListing(t, svc, domain.KindService, owner, domain.ListingOpen)

	a1, err := svc.Apply(ctx, b1, service.ID, contact())
	require.NoError(t, err)
	_, err = svc.Apply(ctx, b2, service.ID, contact())
	require.NoError(t, err)

	items, page, err := svc.ListForService(ctx, owner, service.ID, "", domain.Page{})
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, int64(2), page.TotalItems)
	_, _, err = svc.ListForService(ctx, b1, service.ID, "", domain.Page{})
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	mine, _, err := svc.ListMine(ctx, b1, domain.ApplicationPending, domain.Page{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, a1.ID, mine[0].ID)

	received, _, err := svc.ListReceived(ctx, owner, "", domain.Page{})
	require.NoError(t, err)
	assert.Len(t, received, 2)

	_, err = svc.Get(ctx, b2, a1.ID)
	assert.ErrorIs(t, err, domain.ErrAuthorization)
	got, err := svc.Get(ctx, owner, a1.ID)
	require.NoError(t, err)
	assert.Equal(t, a1.ID, got.ID)
	_, err = svc.Get(ctx, newCaller(domain.RoleAdmin), a1.ID)
	require.NoError(t, err)
}
