package listings

import (
	"time"

	listsvc "streamhub-backend/internal/application/listings"
	"streamhub-backend/internal/domain"
	"streamhub-backend/internal/middleware"
	"streamhub-backend/internal/pkg/request"
	"streamhub-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *listsvc.Service
}

type createListingBody struct {
	Kind          string                 `json:"kind"`
	Title         string                 `json:"title"`
	Description   string                 `json:"description"`
	Category      string                 `json:"category"`
	PriceMin      float64                `json:"price_min"`
	PriceMax      float64                `json:"price_max"`
	Currency      string                 `json:"currency"`
	IsPublic      *bool                  `json:"is_public"`
	Status        string                 `json:"status"`
	Tags          []string               `json:"tags"`
	ImageURLs     []string               `json:"image_urls"`
	AvailableFrom *time.Time             `json:"available_from"`
	AvailableTo   *time.Time             `json:"available_to"`
	AvailableDays []string               `json:"available_days"`
	Note          string                 `json:"note"`
	ContactInfo   map[string]interface{} `json:"contact_info"`
}

// POST /api/v1/listings
func (h *Handlers) CreateListing(c *fiber.Ctx) error {
	var body createListingBody
	if err := request.Bind(c, &body); err != nil {
		return response.FromError(c, err)
	}
	kind, err := request.Kind(body.Kind)
	if err != nil {
		return response.FromError(c, err)
	}
	if kind == "" {
		return response.FromError(c, domain.Invalid("kind", "is required"))
	}
	public := true
	if body.IsPublic != nil {
		public = *body.IsPublic
	}
	l, err := h.Service.CreateListing(c.UserContext(), middleware.CallerFrom(c), listsvc.CreateListingInput{
		Kind:          kind,
		Title:         body.Title,
		Description:   body.Description,
		Category:      body.Category,
		PriceMin:      body.PriceMin,
		PriceMax:      body.PriceMax,
		Currency:      body.Currency,
		IsPublic:      public,
		Status:        body.Status,
		Tags:          body.Tags,
		ImageURLs:     body.ImageURLs,
		AvailableFrom: body.AvailableFrom,
		AvailableTo:   body.AvailableTo,
		AvailableDays: body.AvailableDays,
		Note:          body.Note,
		ContactInfo:   body.ContactInfo,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Listing created successfully", l, nil)
}

type editListingBody struct {
	Title         *string                `json:"title"`
	Description   *string                `json:"description"`
	Category      *string                `json:"category"`
	PriceMin      *float64               `json:"price_min"`
	PriceMax      *float64               `json:"price_max"`
	Currency      *string                `json:"currency"`
	IsPublic      *bool                  `json:"is_public"`
	Tags          *[]string              `json:"tags"`
	ImageURLs     *[]string              `json:"image_urls"`
	AvailableFrom *time.Time             `json:"available_from"`
	AvailableTo   *time.Time             `json:"available_to"`
	AvailableDays *[]string              `json:"available_days"`
	Note          *string                `json:"note"`
	ContactInfo   map[string]interface{} `json:"contact_info"`
}

// PUT /api/v1/listings/:id
func (h *Handlers) EditListing(c *fiber.Ctx) error {
	id, err := request.UUIDParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var body editListingBody
	if err := request.Bind(c, &body); err != nil {
		return response.FromError(c, err)
	}
	l, err := h.Service.EditListing(c.UserContext(), middleware.CallerFrom(c), id, listsvc.EditListingInput(body))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Listing updated successfully", l, nil)
}

// PATCH /api/v1/listings/:id/moderate
func (h *Handlers) ModerateListing(c *fiber.Ctx) error {
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
	l, err := h.Service.ModerateListing(c.UserContext(), middleware.CallerFrom(c), id, d, body.Reason)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Listing moderated successfully", l, nil)
}

// PATCH /api/v1/listings/:id/status
func (h *Handlers) SetStatus(c *fiber.Ctx) error {
	id, err := request.UUIDParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := request.Bind(c, &body); err != nil {
		return response.FromError(c, err)
	}
	l, err := h.Service.SetOperationalStatus(c.UserContext(), middleware.CallerFrom(c), id, domain.ListingStatus(body.Status))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Listing status updated successfully", l, nil)
}

// PATCH /api/v1/listings/:id/feature
func (h *Handlers) FeatureListing(c *fiber.Ctx) error {
	id, err := request.UUIDParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var body struct {
		Featured *bool `json:"featured"`
	}
	if err := request.Bind(c, &body); err != nil {
		return response.FromError(c, err)
	}
	if body.Featured == nil {
		return response.FromError(c, domain.Invalid("featured", "is required"))
	}
	l, err := h.Service.FeatureListing(c.UserContext(), middleware.CallerFrom(c), id, *body.Featured)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Listing featured flag updated", l, nil)
}

func listQuery(c *fiber.Ctx) (listsvc.ListQuery, error) {
	q := listsvc.ListQuery{
		Status:   domain.ListingStatus(c.Query("status")),
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Tag:      c.Query("tag"),
		Page:     request.Page(c),
	}
	var err error
	if q.Kind, err = request.Kind(c.Query("kind")); err != nil {
		return q, err
	}
	if q.Status != "" && !q.Status.Valid() {
		return q, domain.Invalid("status", "unknown listing status")
	}
	if q.IsPublic, err = request.OptionalBool(c, "is_public"); err != nil {
		return q, err
	}
	if q.Featured, err = request.OptionalBool(c, "featured"); err != nil {
		return q, err
	}
	if q.MinPrice, err = request.OptionalFloat(c, "min_price"); err != nil {
		return q, err
	}
	if q.MaxPrice, err = request.OptionalFloat(c, "max_price"); err != nil {
		return q, err
	}
	return q, nil
}

// GET /api/v1/listings
func (h *Handlers) ListListings(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return response.FromError(c, err)
	}
	items, page, err := h.Service.ListListings(c.UserContext(), q)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Paginated(c, "Listings fetched successfully", items, page)
}

// GET /api/v1/listings/mine
func (h *Handlers) ListMine(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return response.FromError(c, err)
	}
	items, page, err := h.Service.ListMyListings(c.UserContext(), middleware.CallerFrom(c), q)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Paginated(c, "Your listings fetched successfully", items, page)
}

// GET /api/v1/listings/featured
func (h *Handlers) ListFeatured(c *fiber.Ctx) error {
	kind, err := request.Kind(c.Query("kind"))
	if err != nil {
		return response.FromError(c, err)
	}
	items, err := h.Service.ListFeatured(c.UserContext(), kind, c.QueryInt("limit", 0))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Featured listings fetched successfully", items, nil)
}

// GET /api/v1/listings/:id
func (h *Handlers) GetListing(c *fiber.Ctx) error {
	id, err := request.UUIDParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	l, err := h.Service.GetListing(c.UserContext(), middleware.CallerFrom(c), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Listing fetched successfully", l, nil)
}
