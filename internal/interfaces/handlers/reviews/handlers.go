package reviews

import (
	revsvc "streamhub-backend/internal/application/reviews"
	"streamhub-backend/internal/domain"
	"streamhub-backend/internal/middleware"
	"streamhub-backend/internal/pkg/request"
	"streamhub-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *revsvc.Service
}

type submitBody struct {
	Rating  int      `json:"rating"`
	Content string   `json:"content"`
	Images  []string `json:"images"`
}

type updateBody struct {
	Rating  *int     `json:"rating"`
	Content *string  `json:"content"`
	Images  []string `json:"images"`
}

// reviewsMeta adds the rating summary next to the pagination fields.
type reviewsMeta struct {
	domain.Pagination
	Summary domain.ReviewSummary `json:"summary"`
}

// POST /api/v1/rentals/:id/review
func (h *Handlers) Submit(c *fiber.Ctx) error {
	rentalID, err := request.UUIDParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var body submitBody
	if err := request.Bind(c, &body); err != nil {
		return response.FromError(c, err)
	}
	rev, err := h.Service.Submit(c.UserContext(), middleware.CallerFrom(c), rentalID, revsvc.SubmitInput(body))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Review submitted successfully", rev, nil)
}

// GET /api/v1/services/:id/reviews
func (h *Handlers) ListForService(c *fiber.Ctx) error {
	serviceID, err := request.UUIDParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	items, summary, page, err := h.Service.ListForService(c.UserContext(), serviceID, request.Page(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Reviews fetched successfully", items, reviewsMeta{Pagination: page, Summary: summary})
}

// DELETE /api/v1/reviews/:id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := request.UUIDParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.Delete(c.UserContext(), middleware.CallerFrom(c), id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Review deleted successfully", fiber.Map{"id": id}, nil)
}

// PUT /api/v1/reviews/:id
func (h *Handlers) Update(c *fiber.Ctx) error {
	id, err := request.UUIDParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var body updateBody
	if err := request.Bind(c, &body); err != nil {
		return response.FromError(c, err)
	}
	rev, err := h.Service.Update(c.UserContext(), middleware.CallerFrom(c), id, revsvc.UpdateInput(body))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Review updated successfully", rev, nil)
}

// POST /api/v1/reviews/:id/reply
func (h *Handlers) Reply(c *fiber.Ctx) error {
	id, err := request.UUIDParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var body struct {
		Content string `json:"content"`
	}
	if err := request.Bind(c, &body); err != nil {
		return response.FromError(c, err)
	}
	rev, err := h.Service.Reply(c.UserContext(), middleware.CallerFrom(c), id, body.Content)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Reply saved successfully", rev, nil)
}

// GET /api/v1/reviews/mine
func (h *Handlers) ListWritten(c *fiber.Ctx) error {
	items, page, err := h.Service.ListWritten(c.UserContext(), middleware.CallerFrom(c), request.Page(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Paginated(c, "Your reviews fetched successfully", items, page)
}

// GET /api/v1/reviews/received
func (h *Handlers) ListReceived(c *fiber.Ctx) error {
	items, page, err := h.Service.ListReceived(c.UserContext(), middleware.CallerFrom(c), request.Page(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Paginated(c, "Received reviews fetched successfully", items, page)
}
