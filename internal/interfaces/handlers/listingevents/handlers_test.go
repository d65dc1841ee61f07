package listingevents

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	lesvc "streamhub-backend/internal/application/listingevents"
	"streamhub-backend/internal/domain"
	"streamhub-backend/internal/infrastructure/database"
	"streamhub-backend/internal/infrastructure/store"
	"streamhub-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLETest(t *testing.T) (*Handlers, *store.Store) {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	st := store.New(db)
	return &Handlers{Service: &lesvc.Service{Store: st}}, st
}

func appFor(h *Handlers, c domain.Caller) *fiber.App {
	app := fiber.New()
	app.Use(func(ctx *fiber.Ctx) error {
		middleware.SetCaller(ctx, c)
		return ctx.Next()
	})
	app.Get("/listings/:id/events", h.ListForListing)
	return app
}

func TestListForListing(t *testing.T) {
	h, st := setupLETest(t)
	ctx := context.Background()
	owner := domain.Caller{ID: uuid.New(), Role: domain.RoleBuyer}
	l := &domain.Listing{
		Kind: domain.KindDemand, OwnerID: owner.ID, Title: "t", Description: "d", Category: "c",
		PriceRange: domain.PriceRange{Currency: "VND"}, Status: domain.ListingPending,
	}
	require.NoError(t, st.CreateListing(ctx, l))
	require.NoError(t, st.AppendEvent(ctx, domain.NewEvent(domain.EntityListing, l.ID, l.ID, domain.EventCreated, owner, "", "pending", nil)))

	resp, err := appFor(h, owner).Test(httptest.NewRequest("GET", "/listings/"+l.ID.String()+"/events", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Len(t, result["data"], 1)

	stranger := domain.Caller{ID: uuid.New(), Role: domain.RoleSupplier}
	resp, err = appFor(h, stranger).Test(httptest.NewRequest("GET", "/listings/"+l.ID.String()+"/events", nil))
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)

	resp, err = appFor(h, owner).Test(httptest.NewRequest("GET", "/listings/"+uuid.NewString()+"/events", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}
