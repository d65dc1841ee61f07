package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"streamhub-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		domain.ErrValidation:                       400,
		domain.Invalid("title", "required"):        400,
		domain.ErrAuthorization:                    403,
		domain.ErrRoleMismatch:                     403,
		domain.ErrNotEligible:                      403,
		domain.ErrSelfApplication:                  409,
		domain.ErrSelfRental:                       409,
		domain.ErrListingNotOpen:                   409,
		domain.ErrInvalidState:                     409,
		domain.ErrConcurrentModification:           409,
		domain.ErrDuplicateRequest:                 409,
		domain.ErrNotFound:                         404,
		fmt.Errorf("load: %w", domain.ErrNotFound): 404,
		errors.New("connection refused"):           500,
	}
	for err, want := range cases {
		assert.Equal(t, want, StatusFor(err), err.Error())
	}
}

func do(t *testing.T, err error) (int, ErrorBody) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return FromError(c, err) })
	resp, e := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, e)
	b, _ := io.ReadAll(resp.Body)
	var body ErrorBody
	require.NoError(t, json.Unmarshal(b, &body))
	return resp.StatusCode, body
}

func TestFromError_FieldDetail(t *testing.T) {
	code, body := do(t, domain.Invalid("price_range", "min must not exceed max"))
	assert.Equal(t, 400, code)
	assert.Equal(t, "error", body.Status)
	details := body.Error.Details.(map[string]interface{})
	assert.Equal(t, "validation", details["code"])
	assert.Equal(t, "price_range", details["field"])
}

func TestFromError_HidesInternalText(t *testing.T) {
	code, body := do(t, errors.New("pq: password authentication failed"))
	assert.Equal(t, 500, code)
	assert.Equal(t, "Internal Server Error", body.Error.Message)
}

func TestEnvelopes(t *testing.T) {
	app := fiber.New()
	app.Get("/list", func(c *fiber.Ctx) error {
		return Paginated(c, "ok", []string{"a"}, domain.NewPagination(domain.Page{Page: 1, Limit: 2}, 3))
	})
	app.Post("/", func(c *fiber.Ctx) error { return SuccessCreated(c, "made", fiber.Map{"id": 1}, nil) })

	resp, err := app.Test(httptest.NewRequest("GET", "/list", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	var body SuccessBody
	b, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(b, &body))
	assert.Equal(t, "success", body.Status)
	meta := body.Metadata.(map[string]interface{})
	assert.Equal(t, float64(2), meta["totalPages"])
	assert.Equal(t, float64(2), meta["limit"])

	resp, err = app.Test(httptest.NewRequest("POST", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)
	b, _ = io.ReadAll(resp.Body)
	body = SuccessBody{}
	require.NoError(t, json.Unmarshal(b, &body))
	assert.Equal(t, map[string]interface{}{}, body.Metadata)
}
