package serviceapplications

import (
	sasvc "streamhub-backend/internal/application/serviceapplications"
	"streamhub-backend/internal/domain"
	"streamhub-backend/internal/middleware"
	"streamhub-backend/internal/pkg/request"
	"streamhub-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *sasvc.Service
}

type applyBody struct {
	ContactInfo map[string]interface{} `json:"contact_info"`
	Note        string                 `json:"note"`
}

func statusQuery(c *fiber.Ctx) (domain.ApplicationStatus, error) {
	st := domain.ApplicationStatus(c.Query("status"))
	if st != "" && !st.Valid() {
		return "", domain.Invalid("status", "unknown application status")
	}
	return st, nil
}

// POST /api/v1/services/:id/applications
func (h *Handlers) Apply(c *fiber.Ctx) error {
	serviceID, err := request.UUIDParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var body applyBody
	if err := request.Bind(c, &body); err != nil {
		return response.FromError(c, err)
	}
	app, err := h.Service.Apply(c.UserContext(), middleware.CallerFrom(c), serviceID, sasvc.ApplyInput(body))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Service application submitted successfully", app, nil)
}

// PATCH /api/v1/service-applications/:id/decision
func (h *Handlers) Decide(c *fiber.Ctx) error {
	id, err := request.UUIDParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var body struct {
		Decision string `json:"decision"`
		Reason   string `json:"reason"`
	}
	if err := request.Bind(c, &body); err != nil {
		return response.FromError(c, err)
	}
	d, err := request.Decision("decision", body.Decision)
	if err != nil {
		return response.FromError(c, err)
	}
	app, err := h.Service.Decide(c.UserContext(), middleware.CallerFrom(c), id, d, body.Reason)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Service application "+string(app.Status), app, nil)
}

// GET /api/v1/services/:id/applications
func (h *Handlers) ListForService(c *fiber.Ctx) error {
	serviceID, err := request.UUIDParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	st, err := statusQuery(c)
	if err != nil {
		return response.FromError(c, err)
	}
	items, page, err := h.Service.ListForService(c.UserContext(), middleware.CallerFrom(c), serviceID, st, request.Page(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Paginated(c, "Service applications fetched successfully", items, page)
}

// GET /api/v1/service-applications/mine
func (h *Handlers) ListMine(c *fiber.Ctx) error {
	st, err := statusQuery(c)
	if err != nil {
		return response.FromError(c, err)
	}
	items, page, err := h.Service.ListMine(c.UserContext(), middleware.CallerFrom(c), st, request.Page(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Paginated(c, "Your service applications fetched successfully", items, page)
}

// GET /api/v1/service-applications/received
func (h *Handlers) ListReceived(c *fiber.Ctx) error {
	st, err := statusQuery(c)
	if err != nil {
		return response.FromError(c, err)
	}
	items, page, err := h.Service.ListReceived(c.UserContext(), middleware.CallerFrom(c), st, request.Page(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Paginated(c, "Received service applications fetched successfully", items, page)
}

// GET /api/v1/service-applications/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := request.UUIDParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	app, err := h.Service.Get(c.UserContext(), middleware.CallerFrom(c), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Service application fetched successfully", app, nil)
}
