package reviews

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	revsvc "streamhub-backend/internal/application/reviews"
	"streamhub-backend/internal/domain"
	"streamhub-backend/internal/infrastructure/database"
	"streamhub-backend/internal/infrastructure/metrics"
	"streamhub-backend/internal/infrastructure/store"
	"streamhub-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	app    *fiber.App
	store  *store.Store
	caller domain.Caller
}

func setupReviewsTest(t *testing.T) *testEnv {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	st := store.New(db)
	h := &Handlers{Service: &revsvc.Service{Store: st, Metrics: metrics.New()}}

	env := &testEnv{app: fiber.New(), store: st}
	env.app.Use(func(c *fiber.Ctx) error {
		middleware.SetCaller(c, env.caller)
		return c.Next()
	})
	env.app.Post("/rentals/:id/review", h.Submit)
	env.app.Get("/services/:id/reviews", h.ListForService)
	env.app.Get("/reviews/mine", h.ListWritten)
	env.app.Get("/reviews/received", h.ListReceived)
	env.app.Put("/reviews/:id", h.Update)
	env.app.Post("/reviews/:id/reply", h.Reply)
	env.app.Delete("/reviews/:id", h.Delete)
	return env
}

func (e *testEnv) do(t *testing.T, as domain.Caller, method, path string, body interface{}) (int, map[string]interface{}) {
	e.caller = as
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := e.app.Test(req)
	require.NoError(t, err)
	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return resp.StatusCode, result
}

func seedRental(t *testing.T, st *store.Store, buyer domain.Caller, status domain.RentalStatus) *domain.ServiceRental {
	ctx := context.Background()
	service := &domain.Listing{
		Kind: domain.KindService, OwnerID: uuid.New(), Title: "Crew", Description: "d", Category: "production",
		PriceRange: domain.PriceRange{Currency: "VND"}, IsPublic: true, Status: domain.ListingOpen,
	}
	require.NoError(t, st.CreateListing(ctx, service))
	r := &domain.ServiceRental{
		ServiceID: service.ID, BuyerID: buyer.ID, Days: []string{"sat"},
		ExpectedPrice: domain.PriceRange{Currency: "VND"}, Status: status,
	}
	require.NoError(t, st.CreateRental(ctx, r))
	return r
}

func TestReviewFlowOverHTTP(t *testing.T) {
	env := setupReviewsTest(t)
	buyer := domain.Caller{ID: uuid.New(), Role: domain.RoleBuyer}
	pending := seedRental(t, env.store, buyer, domain.RentalPending)
	done := seedRental(t, env.store, buyer, domain.RentalCompleted)
	body := map[string]interface{}{"rating": 5, "content": "Smooth stream"}

	code, _ := env.do(t, buyer, "POST", "/rentals/"+pending.ID.String()+"/review", body)
	assert.Equal(t, 403, code)
	code, _ = env.do(t, buyer, "POST", "/rentals/"+done.ID.String()+"/review", map[string]interface{}{"rating": 9, "content": "x"})
	assert.Equal(t, 400, code)

	code, result := env.do(t, buyer, "POST", "/rentals/"+done.ID.String()+"/review", body)
	require.Equal(t, 201, code)
	reviewID := result["data"].(map[string]interface{})["id"].(string)

	code, _ = env.do(t, buyer, "POST", "/rentals/"+done.ID.String()+"/review", body)
	assert.Equal(t, 409, code)

	code, result = env.do(t, domain.Caller{}, "GET", "/services/"+done.ServiceID.String()+"/reviews", nil)
	assert.Equal(t, 200, code)
	assert.Len(t, result["data"], 1)
	meta := result["metadata"].(map[string]interface{})
	assert.Equal(t, float64(1), meta["totalItems"])
	assert.Equal(t, float64(5), meta["summary"].(map[string]interface{})["average_rating"])

	code, _ = env.do(t, domain.Caller{ID: uuid.New(), Role: domain.RoleBuyer}, "DELETE", "/reviews/"+reviewID, nil)
	assert.Equal(t, 403, code)
	code, _ = env.do(t, buyer, "DELETE", "/reviews/"+reviewID, nil)
	assert.Equal(t, 200, code)
	code, _ = env.do(t, buyer, "DELETE", "/reviews/"+reviewID, nil)
	assert.Equal(t, 404, code)
}

func TestEditReplyAndOwnListsOverHTTP(t *testing.T) {
	env := setupReviewsTest(t)
	buyer := domain.Caller{ID: uuid.New(), Role: domain.RoleBuyer}
	done := seedRental(t, env.store, buyer, domain.RentalCompleted)
	service, err := env.store.GetListing(context.Background(), done.ServiceID)
	require.NoError(t, err)
	owner := domain.Caller{ID: service.OwnerID, Role: domain.RoleSupplier}

	code, result := env.do(t, buyer, "POST", "/rentals/"+done.ID.String()+"/review", map[string]interface{}{"rating": 2, "content": "Audio dropped"})
	require.Equal(t, 201, code)
	reviewID := result["data"].(map[string]interface{})["id"].(string)

	code, result = env.do(t, buyer, "PUT", "/reviews/"+reviewID, map[string]interface{}{"rating": 4})
	assert.Equal(t, 200, code)
	assert.Equal(t, float64(4), result["data"].(map[string]interface{})["rating"])
	assert.Equal(t, "Audio dropped", result["data"].(map[string]interface{})["content"])
	code, _ = env.do(t, owner, "PUT", "/reviews/"+reviewID, map[string]interface{}{"rating": 1})
	assert.Equal(t, 403, code)

	code, _ = env.do(t, buyer, "POST", "/reviews/"+reviewID+"/reply", map[string]string{"content": "me too"})
	assert.Equal(t, 403, code)
	code, result = env.do(t, owner, "POST", "/reviews/"+reviewID+"/reply", map[string]string{"content": "Fixed the mixer"})
	assert.Equal(t, 200, code)
	assert.Equal(t, "Fixed the mixer", result["data"].(map[string]interface{})["reply"])

	code, result = env.do(t, buyer, "GET", "/reviews/mine", nil)
	assert.Equal(t, 200, code)
	assert.Len(t, result["data"], 1)
	code, result = env.do(t, owner, "GET", "/reviews/received?limit=5", nil)
	assert.Equal(t, 200, code)
	assert.Len(t, result["data"], 1)
	assert.Equal(t, float64(5), result["metadata"].(map[string]interface{})["limit"])
}
