package rentals

import (
	"bytes"
	"time"

	rentsvc "streamhub-backend/internal/application/rentals"
	"streamhub-backend/internal/domain"
	"streamhub-backend/internal/middleware"
	"streamhub-backend/internal/pkg/request"
	"streamhub-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *rentsvc.Service
}

type requestBody struct {
	WindowStart *time.Time             `json:"window_start"`
	WindowEnd   *time.Time             `json:"window_end"`
	Days        []string               `json:"days"`
	PriceMin    float64                `json:"price_min"`
	PriceMax    float64                `json:"price_max"`
	Currency    string                 `json:"currency"`
	ContactInfo map[string]interface{} `json:"contact_info"`
	Note        string                 `json:"note"`
}

func statusQuery(c *fiber.Ctx) (domain.RentalStatus, error) {
	st := domain.RentalStatus(c.Query("status"))
	if st != "" && !st.Valid() {
		return "", domain.Invalid("status", "unknown rental status")
	}
	return st, nil
}

// POST /api/v1/services/:id/rentals
func (h *Handlers) Request(c *fiber.Ctx) error {
	serviceID, err := request.UUIDParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var body requestBody
	if err := request.Bind(c, &body); err != nil {
		return response.FromError(c, err)
	}
	r, err := h.Service.Request(c.UserContext(), middleware.CallerFrom(c), serviceID, rentsvc.RequestInput(body))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Rental requested successfully", r, nil)
}

// POST /api/v1/services/:id/availability
func (h *Handlers) CheckAvailability(c *fiber.Ctx) error {
	serviceID, err := request.UUIDParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var body struct {
		WindowStart *time.Time `json:"window_start"`
		WindowEnd   *time.Time `json:"window_end"`
		Days        []string   `json:"days"`
	}
	if err := request.Bind(c, &body); err != nil {
		return response.FromError(c, err)
	}
	res, err := h.Service.CheckAvailability(c.UserContext(), middleware.CallerFrom(c), serviceID, body.WindowStart, body.WindowEnd, body.Days)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Availability checked", res, nil)
}

// GET /api/v1/services/:id/rentals
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
	return response.Paginated(c, "Service rentals fetched successfully", items, page)
}

// GET /api/v1/services/:id/rentals.csv
func (h *Handlers) ExportCSV(c *fiber.Ctx) error {
	serviceID, err := request.UUIDParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var buf bytes.Buffer
	if err := h.Service.ExportCSV(c.UserContext(), middleware.CallerFrom(c), serviceID, &buf); err != nil {
		return response.FromError(c, err)
	}
	c.Attachment("rentals-" + serviceID.String() + ".csv")
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(buf.Bytes())
}

// GET /api/v1/rentals/mine
func (h *Handlers) ListMine(c *fiber.Ctx) error {
	st, err := statusQuery(c)
	if err != nil {
		return response.FromError(c, err)
	}
	items, page, err := h.Service.ListMine(c.UserContext(), middleware.CallerFrom(c), st, request.Page(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Paginated(c, "Your rentals fetched successfully", items, page)
}

// GET /api/v1/rentals/received
func (h *Handlers) ListReceived(c *fiber.Ctx) error {
	st, err := statusQuery(c)
	if err != nil {
		return response.FromError(c, err)
	}
	items, page, err := h.Service.ListReceived(c.UserContext(), middleware.CallerFrom(c), st, request.Page(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Paginated(c, "Received rentals fetched successfully", items, page)
}

// GET /api/v1/rentals/received/counts
func (h *Handlers) CountReceived(c *fiber.Ctx) error {
	counts, err := h.Service.CountByStatus(c.UserContext(), middleware.CallerFrom(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Rental counts fetched successfully", counts, nil)
}

// GET /api/v1/rentals/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := request.UUIDParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	r, err := h.Service.Get(c.UserContext(), middleware.CallerFrom(c), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Rental fetched successfully", r, nil)
}

// PATCH /api/v1/rentals/:id/decision
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
	r, err := h.Service.Decide(c.UserContext(), middleware.CallerFrom(c), id, d, body.Reason)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Rental "+string(r.Status), r, nil)
}

// POST /api/v1/rentals/:id/start
func (h *Handlers) Start(c *fiber.Ctx) error {
	id, err := request.UUIDParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	r, err := h.Service.Start(c.UserContext(), middleware.CallerFrom(c), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Rental started", r, nil)
}

// POST /api/v1/rentals/:id/cancel
func (h *Handlers) Cancel(c *fiber.Ctx) error {
	id, err := request.UUIDParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := request.Bind(c, &body); err != nil {
		return response.FromError(c, err)
	}
	r, err := h.Service.Cancel(c.UserContext(), middleware.CallerFrom(c), id, body.Reason)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Rental cancelled", r, nil)
}

// POST /api/v1/rentals/:id/complete
func (h *Handlers) Complete(c *fiber.Ctx) error {
	id, err := request.UUIDParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	r, err := h.Service.Complete(c.UserContext(), middleware.CallerFrom(c), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Rental completed", r, nil)
}
