package listings

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	listsvc "streamhub-backend/internal/application/listings"
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
	caller domain.Caller
}

func setupListingsTest(t *testing.T) *testEnv {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	h := &Handlers{Service: &listsvc.Service{Store: store.New(db), Metrics: metrics.New()}}

	env := &testEnv{app: fiber.New()}
	env.app.Use(func(c *fiber.Ctx) error {
		if env.caller.Authenticated() {
			middleware.SetCaller(c, env.caller)
		}
		return c.Next()
	})
	env.app.Post("/listings", h.CreateListing)
	env.app.Get("/listings", h.ListListings)
	env.app.Get("/listings/featured", h.ListFeatured)
	env.app.Get("/listings/mine", h.ListMine)
	env.app.Get("/listings/:id", h.GetListing)
	env.app.Put("/listings/:id", h.EditListing)
	env.app.Patch("/listings/:id/moderate", h.ModerateListing)
	env.app.Patch("/listings/:id/status", h.SetStatus)
	env.app.Patch("/listings/:id/feature", h.FeatureListing)
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

func caller(role domain.Role) domain.Caller {
	return domain.Caller{ID: uuid.New(), Role: role}
}

func serviceBody() map[string]interface{} {
	return map[string]interface{}{
		"kind":        "service",
		"title":       "Livestream host",
		"description": "Weekend shows",
		"category":    "hosting",
		"price_min":   100,
		"price_max":   200,
		"status":      "open",
	}
}

func dataID(t *testing.T, result map[string]interface{}) string {
	data, ok := result["data"].(map[string]interface{})
	require.True(t, ok, "data missing: %v", result)
	return data["id"].(string)
}

func TestCreateListing_PendingAndValidation(t *testing.T) {
	env := setupListingsTest(t)
	supplier := caller(domain.RoleSupplier)

	code, result := env.do(t, supplier, "POST", "/listings", serviceBody())
	assert.Equal(t, 201, code)
	assert.Equal(t, "success", result["status"])
	assert.Equal(t, "pending", result["data"].(map[string]interface{})["status"])

	bad := serviceBody()
	bad["price_min"] = 500
	code, result = env.do(t, supplier, "POST", "/listings", bad)
	assert.Equal(t, 400, code)
	assert.Equal(t, "error", result["status"])

	noKind := serviceBody()
	delete(noKind, "kind")
	code, _ = env.do(t, supplier, "POST", "/listings", noKind)
	assert.Equal(t, 400, code)

	code, _ = env.do(t, domain.Caller{}, "POST", "/listings", serviceBody())
	assert.Equal(t, 403, code)
}

func TestListingLifecycleOverHTTP(t *testing.T) {
	env := setupListingsTest(t)
	supplier := caller(domain.RoleSupplier)
	admin := caller(domain.RoleAdmin)
	stranger := caller(domain.RoleBuyer)

	_, result := env.do(t, supplier, "POST", "/listings", serviceBody())
	id := dataID(t, result)

	// Pending listings are hidden from strangers and from the public list.
	code, _ := env.do(t, stranger, "GET", "/listings/"+id, nil)
	assert.Equal(t, 404, code)
	code, result = env.do(t, domain.Caller{}, "GET", "/listings", nil)
	assert.Equal(t, 200, code)
	assert.Equal(t, float64(0), result["metadata"].(map[string]interface{})["totalItems"])

	code, _ = env.do(t, supplier, "PATCH", "/listings/"+id+"/moderate", map[string]string{"decision": "approve"})
	assert.Equal(t, 403, code)
	code, _ = env.do(t, admin, "PATCH", "/listings/"+id+"/moderate", map[string]string{"decision": "maybe"})
	assert.Equal(t, 400, code)
	code, _ = env.do(t, admin, "PATCH", "/listings/"+id+"/moderate", map[string]string{"decision": "approve"})
	assert.Equal(t, 200, code)
	code, _ = env.do(t, admin, "PATCH", "/listings/"+id+"/moderate", map[string]string{"decision": "reject"})
	assert.Equal(t, 409, code)

	code, result = env.do(t, supplier, "PATCH", "/listings/"+id+"/status", map[string]string{"status": "open"})
	assert.Equal(t, 200, code)
	assert.Equal(t, "open", result["data"].(map[string]interface{})["status"])

	code, result = env.do(t, domain.Caller{}, "GET", "/listings?kind=service&search=HOST", nil)
	assert.Equal(t, 200, code)
	assert.Len(t, result["data"], 1)

	code, _ = env.do(t, stranger, "GET", "/listings/"+id, nil)
	assert.Equal(t, 200, code)

	code, _ = env.do(t, domain.Caller{}, "GET", "/listings?min_price=abc", nil)
	assert.Equal(t, 400, code)
}

func TestEditAndFeature(t *testing.T) {
	env := setupListingsTest(t)
	supplier := caller(domain.RoleSupplier)
	admin := caller(domain.RoleAdmin)

	_, result := env.do(t, supplier, "POST", "/listings", serviceBody())
	id := dataID(t, result)

	code, _ := env.do(t, caller(domain.RoleSupplier), "PUT", "/listings/"+id, map[string]interface{}{"title": "Mine now"})
	assert.Equal(t, 403, code)
	code, result = env.do(t, supplier, "PUT", "/listings/"+id, map[string]interface{}{"title": "Evening host", "status": "open"})
	assert.Equal(t, 200, code)
	data := result["data"].(map[string]interface{})
	assert.Equal(t, "Evening host", data["title"])
	assert.Equal(t, "pending", data["status"])

	code, _ = env.do(t, admin, "PATCH", "/listings/"+id+"/feature", map[string]interface{}{})
	assert.Equal(t, 400, code)
	code, _ = env.do(t, supplier, "PATCH", "/listings/"+id+"/feature", map[string]interface{}{"featured": true})
	assert.Equal(t, 403, code)
	code, _ = env.do(t, admin, "PATCH", "/listings/"+id+"/feature", map[string]interface{}{"featured": true})
	assert.Equal(t, 200, code)

	// Featured but still pending: not listed.
	code, result = env.do(t, domain.Caller{}, "GET", "/listings/featured", nil)
	assert.Equal(t, 200, code)
	assert.Len(t, result["data"], 0)

	code, result = env.do(t, supplier, "GET", "/listings/mine", nil)
	assert.Equal(t, 200, code)
	assert.Len(t, result["data"], 1)

	code, _ = env.do(t, supplier, "GET", "/listings/not-a-uuid", nil)
	assert.Equal(t, 400, code)
}
