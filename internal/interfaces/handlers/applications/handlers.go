package applications

import (
	appsvc "streamhub-backend/internal/application/applications"
	"streamhub-backend/internal/domain"
	"streamhub-backend/internal/middleware"
	"streamhub-backend/internal/pkg/request"
	"streamhub-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *appsvc.Service
}

type applyBody struct {
	PromoteText string                 `json:"promote_text"`
	ContactInfo map[string]interface{} `json:"contact_info"`
	Note        string                 `json:"note"`
	ImageURLs   []string               `json:"image_urls"`
}

type updateBody struct {
	PromoteText *string                `json:"promote_text"`
	ContactInfo map[string]interface{} `json:"contact_info"`
	Note        *string                `json:"note"`
	ImageURLs   []string               `json:"image_urls"`
}

func statusQuery(c *fiber.Ctx) (domain.ApplicationStatus, error) {
	st := domain.ApplicationStatus(c.Query("status"))
	if st != "" && !st.Valid() {
		return "", domain.Invalid("status", "unknown application status")
	}
	return st, nil
}

// POST /api/v1/demands/:id/applications
func (h *Handlers) Apply(c *fiber.Ctx) error {
	demandID, err := request.UUIDParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var body applyBody
	if err := request.Bind(c, &body); err != nil {
		return response.FromError(c, err)
	}
	app, err := h.Service.Apply(c.UserContext(), middleware.CallerFrom(c), demandID, appsvc.ApplyInput(body))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Application submitted successfully", app, nil)
}

// PUT /api/v1/applications/:id
func (h *Handlers) Update(c *fiber.Ctx) error {
	id, err := request.UUIDParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var body updateBody
	if err := request.Bind(c, &body); err != nil {
		return response.FromError(c, err)
	}
	app, err := h.Service.Update(c.UserContext(), middleware.CallerFrom(c), id, appsvc.UpdateInput(body))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Application updated successfully", app, nil)
}

// PATCH /api/v1/applications/:id/decision
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
	return response.Success(c, "Application "+string(app.Status), app, nil)
}

// GET /api/v1/demands/:id/applications
func (h *Handlers) ListForDemand(c *fiber.Ctx) error {
	demandID, err := request.UUIDParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	st, err := statusQuery(c)
	if err != nil {
		return response.FromError(c, err)
	}
	items, page, err := h.Service.ListForDemand(c.UserContext(), middleware.CallerFrom(c), demandID, st, request.Page(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Paginated(c, "Applications fetched successfully", items, page)
}

// GET /api/v1/applications/mine
func (h *Handlers) ListMine(c *fiber.Ctx) error {
	st, err := statusQuery(c)
	if err != nil {
		return response.FromError(c, err)
	}
	items, page, err := h.Service.ListMine(c.UserContext(), middleware.CallerFrom(c), st, request.Page(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Paginated(c, "Your applications fetched successfully", items, page)
}

// GET /api/v1/applications/received
func (h *Handlers) ListReceived(c *fiber.Ctx) error {
	st, err := statusQuery(c)
	if err != nil {
		return response.FromError(c, err)
	}
	items, page, err := h.Service.ListReceived(c.UserContext(), middleware.CallerFrom(c), st, request.Page(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Paginated(c, "Received applications fetched successfully", items, page)
}

// GET /api/v1/applications/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := request.UUIDParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	app, err := h.Service.Get(c.UserContext(), middleware.CallerFrom(c), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Application fetched successfully", app, nil)
}
