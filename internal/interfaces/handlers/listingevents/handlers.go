package listingevents

import (
	lesvc "streamhub-backend/internal/application/listingevents"
	"streamhub-backend/internal/middleware"
	"streamhub-backend/internal/pkg/request"
	"streamhub-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *lesvc.Service
}

// GET /api/v1/listings/:id/events lists events newest first. Owner or admin only.
func (h *Handlers) ListForListing(c *fiber.Ctx) error {
	id, err := request.UUIDParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	events, page, err := h.Service.ListForListing(c.UserContext(), middleware.CallerFrom(c), id, request.Page(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Paginated(c, "Listing events fetched successfully", events, page)
}
