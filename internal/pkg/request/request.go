package request

import (
	"strconv"
	"strings"

	"streamhub-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UUIDParam parses a path parameter as a UUID.
func UUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, domain.Invalid(name, "must be a valid UUID")
	}
	return id, nil
}

// Bind parses the request body into v. An empty body leaves v untouched.
func Bind(c *fiber.Ctx, v interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(v); err != nil {
		return domain.Invalid("body", "could not be parsed: "+err.Error())
	}
	return nil
}

// Page reads page and limit query parameters. Missing or malformed values fall back
// to zero, which the services normalize.
func Page(c *fiber.Ctx) domain.Page {
	return domain.Page{Page: c.QueryInt("page", 0), Limit: c.QueryInt("limit", 0)}
}

// OptionalBool parses a query flag; absent yields nil.
func OptionalBool(c *fiber.Ctx, key string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, domain.Invalid(key, "must be true or false")
	}
	return &b, nil
}

// OptionalFloat parses a numeric query value; absent yields nil.
func OptionalFloat(c *fiber.Ctx, key string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, domain.Invalid(key, "must be a number")
	}
	return &f, nil
}

// Decision parses an approve/reject verdict.
func Decision(field, raw string) (domain.Decision, error) {
	d, ok := domain.ParseDecision(strings.ToLower(strings.TrimSpace(raw)))
	if !ok {
		return "", domain.Invalid(field, "must be approve or reject")
	}
	return d, nil
}

// Kind parses an optional listing kind.
func Kind(raw string) (domain.ListingKind, error) {
	k := domain.ListingKind(strings.ToLower(strings.TrimSpace(raw)))
	if k != "" && !k.Valid() {
		return "", domain.Invalid("kind", "must be demand or service")
	}
	return k, nil
}
