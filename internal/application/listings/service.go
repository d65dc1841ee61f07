package listings

import (
	"context"
	"strings"
	"time"

	"streamhub-backend/internal/application/policies/lifecycle"
	"streamhub-backend/internal/domain"
	"streamhub-backend/internal/infrastructure/metrics"
	"streamhub-backend/internal/infrastructure/store"
	"streamhub-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

const featuredLimit = 6

type Service struct {
	Store           *store.Store
	Metrics         *metrics.Metrics
	DefaultCurrency string
	Pages           domain.PageSizes
}

type CreateListingInput struct {
	Kind          domain.ListingKind
	Title         string
	Description   string
	Category      string
	PriceMin      float64
	PriceMax      float64
	Currency      string
	IsPublic      bool
	Status        string // ignored: new listings always start pending
	Tags          []string
	ImageURLs     []string
	AvailableFrom *time.Time
	AvailableTo   *time.Time
	AvailableDays []string
	Note          string
	ContactInfo   map[string]interface{}
}

// EditListingInput carries a partial update; nil fields are left unchanged.
type EditListingInput struct {
	Title         *string
	Description   *string
	Category      *string
	PriceMin      *float64
	PriceMax      *float64
	Currency      *string
	IsPublic      *bool
	Tags          *[]string
	ImageURLs     *[]string
	AvailableFrom *time.Time
	AvailableTo   *time.Time
	AvailableDays *[]string
	Note          *string
	ContactInfo   map[string]interface{}
}

// ListQuery filters public and owner listing queries.
type ListQuery struct {
	Kind     domain.ListingKind
	Status   domain.ListingStatus
	IsPublic *bool
	Featured *bool
	Category string
	Search   string
	Tag      string
	MinPrice *float64
	MaxPrice *float64
	Page     domain.Page
}

func (s *Service) currency(c string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c != "" {
		return c
	}
	if s.DefaultCurrency != "" {
		return s.DefaultCurrency
	}
	return constants.DefaultCurrency
}

func validateWindow(from, to *time.Time) error {
	if from != nil && to != nil && to.Before(*from) {
		return domain.Invalid("availability", "start must not be after end")
	}
	return nil
}

func (s *Service) reject(op string, c domain.Caller, err error) error {
	s.Metrics.Rejected(op, err)
	log.Debug().Str("op", op).Str("actor", c.ID.String()).Str("code", domain.Code(err)).Err(err).Msg("Listing operation refused")
	return err
}

// CreateListing stores a new demand or service. The status is always pending,
// whatever the caller asked for.
func (s *Service) CreateListing(ctx context.Context, c domain.Caller, in CreateListingInput) (*domain.Listing, error) {
	if err := lifecycle.CanCreateListing(c); err != nil {
		return nil, s.reject("create_listing", c, err)
	}
	price := domain.PriceRange{Min: in.PriceMin, Max: in.PriceMax, Currency: s.currency(in.Currency)}
	err := lifecycle.ValidateListing(in.Kind, lifecycle.ListingFields{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Price:       price,
		Days:        in.AvailableDays,
	})
	if err == nil {
		err = validateWindow(in.AvailableFrom, in.AvailableTo)
	}
	if err != nil {
		return nil, s.reject("create_listing", c, err)
	}

	l := &domain.Listing{
		Kind:        in.Kind,
		OwnerID:     c.ID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		PriceRange:  price,
		IsPublic:    in.IsPublic,
		Status:      domain.ListingPending,
		Tags:        datatypes.JSONSlice[string](in.Tags),
		ImageURLs:   datatypes.JSONSlice[string](in.ImageURLs),
		Availability: domain.Availability{
			Start: in.AvailableFrom,
			End:   in.AvailableTo,
			Days:  datatypes.JSONSlice[string](in.AvailableDays),
		},
		Note:        in.Note,
		ContactInfo: domain.JSONObject(in.ContactInfo),
	}
	err = s.Store.Tx(ctx, func(tx *store.Store) error {
		if err := tx.CreateListing(ctx, l); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, domain.NewEvent(domain.EntityListing, l.ID, l.ID, domain.EventCreated, c, "", string(l.Status), map[string]interface{}{
			"kind":      l.Kind,
			"price_min": l.PriceRange.Min,
			"price_max": l.PriceRange.Max,
			"currency":  l.PriceRange.Currency,
		}))
	})
	if err != nil {
		return nil, err
	}
	s.Metrics.Transition(string(l.Kind), "", string(l.Status))
	log.Info().Str("listing_id", l.ID.String()).Str("kind", string(l.Kind)).Str("owner", c.ID.String()).Msg("Listing created")
	return l, nil
}

// EditListing updates the owner-editable fields. Status is never touched here.
func (s *Service) EditListing(ctx context.Context, c domain.Caller, id uuid.UUID, in EditListingInput) (*domain.Listing, error) {
	l, err := s.Store.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.CanEditListing(c, l); err != nil {
		return nil, s.reject("edit_listing", c, err)
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		l.Title = strings.TrimSpace(*in.Title)
		updates["title"] = l.Title
	}
	if in.Description != nil {
		l.Description = strings.TrimSpace(*in.Description)
		updates["description"] = l.Description
	}
	if in.Category != nil {
		l.Category = strings.TrimSpace(*in.Category)
		updates["category"] = l.Category
	}
	if in.PriceMin != nil {
		l.PriceRange.Min = *in.PriceMin
		updates["price_min"] = l.PriceRange.Min
	}
	if in.PriceMax != nil {
		l.PriceRange.Max = *in.PriceMax
		updates["price_max"] = l.PriceRange.Max
	}
	if in.Currency != nil {
		l.PriceRange.Currency = s.currency(*in.Currency)
		updates["currency"] = l.PriceRange.Currency
	}
	if in.IsPublic != nil {
		l.IsPublic = *in.IsPublic
		updates["is_public"] = l.IsPublic
	}
	if in.Tags != nil {
		l.Tags = datatypes.JSONSlice[string](*in.Tags)
		updates["tags"] = l.Tags
	}
	if in.ImageURLs != nil {
		l.ImageURLs = datatypes.JSONSlice[string](*in.ImageURLs)
		updates["image_urls"] = l.ImageURLs
	}
	if in.AvailableFrom != nil {
		l.Availability.Start = in.AvailableFrom
		updates["available_from"] = in.AvailableFrom
	}
	if in.AvailableTo != nil {
		l.Availability.End = in.AvailableTo
		updates["available_to"] = in.AvailableTo
	}
	if in.AvailableDays != nil {
		l.Availability.Days = datatypes.JSONSlice[string](*in.AvailableDays)
		updates["available_days"] = l.Availability.Days
	}
	if in.Note != nil {
		l.Note = *in.Note
		updates["note"] = l.Note
	}
	if in.ContactInfo != nil {
		l.ContactInfo = domain.JSONObject(in.ContactInfo)
		updates["contact_info"] = l.ContactInfo
	}

	err = lifecycle.ValidateListing(l.Kind, lifecycle.ListingFields{
		Title:       l.Title,
		Description: l.Description,
		Category:    l.Category,
		Price:       l.PriceRange,
		Days:        l.Availability.Days,
	})
	if err == nil {
		err = validateWindow(l.Availability.Start, l.Availability.End)
	}
	if err != nil {
		return nil, s.reject("edit_listing", c, err)
	}
	if len(updates) == 0 {
		return l, nil
	}

	fields := make([]string, 0, len(updates))
	for k := range updates {
		fields = append(fields, k)
	}
	err = s.Store.Tx(ctx, func(tx *store.Store) error {
		if err := tx.UpdateListing(ctx, l.ID, updates); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, domain.NewEvent(domain.EntityListing, l.ID, l.ID, domain.EventUpdated, c, string(l.Status), string(l.Status), map[string]interface{}{
			"fields": fields,
		}))
	})
	if err != nil {
		return nil, err
	}
	l.UpdatedAt = time.Now().UTC()
	log.Info().Str("listing_id", l.ID.String()).Str("actor", c.ID.String()).Int("fields", len(fields)).Msg("Listing edited")
	return l, nil
}

// ModerateListing approves or rejects a pending listing. Admin only.
func (s *Service) ModerateListing(ctx context.Context, c domain.Caller, id uuid.UUID, d domain.Decision, reason string) (*domain.Listing, error) {
	if err := lifecycle.CanModerate(c); err != nil {
		return nil, s.reject("moderate_listing", c, err)
	}
	l, err := s.Store.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}
	to, err := lifecycle.ModerationTransition(c, l, d)
	if err != nil {
		return nil, s.reject("moderate_listing", c, err)
	}
	return s.transition(ctx, c, l, to, domain.EventModerated, map[string]interface{}{"decision": d, "reason": reason})
}

// SetOperationalStatus applies an owner-driven open, close, award or complete.
func (s *Service) SetOperationalStatus(ctx context.Context, c domain.Caller, id uuid.UUID, target domain.ListingStatus) (*domain.Listing, error) {
	l, err := s.Store.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}
	to, err := lifecycle.OperationalTransition(c, l, target)
	if err != nil {
		return nil, s.reject("set_listing_status", c, err)
	}
	return s.transition(ctx, c, l, to, domain.EventStatusChanged, nil)
}

func (s *Service) transition(ctx context.Context, c domain.Caller, l *domain.Listing, to domain.ListingStatus, event string, data map[string]interface{}) (*domain.Listing, error) {
	from := l.Status
	err := s.Store.Tx(ctx, func(tx *store.Store) error {
		if err := tx.TransitionListing(ctx, l.ID, from, to); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, domain.NewEvent(domain.EntityListing, l.ID, l.ID, event, c, string(from), string(to), data))
	})
	if err != nil {
		return nil, s.reject(strings.ToLower(event), c, err)
	}
	l.Status = to
	l.UpdatedAt = time.Now().UTC()
	s.Metrics.Transition(string(l.Kind), string(from), string(to))
	log.Info().Str("listing_id", l.ID.String()).Str("kind", string(l.Kind)).Str("from", string(from)).Str("to", string(to)).Str("actor", c.ID.String()).Msg("Listing status changed")
	return l, nil
}

// ListListings returns publicly discoverable listings. Filters that can never match a
// discoverable listing yield an empty page.
func (s *Service) ListListings(ctx context.Context, q ListQuery) ([]domain.Listing, domain.Pagination, error) {
	page := s.Pages.Normalize(q.Page)
	if q.IsPublic != nil && !*q.IsPublic {
		return []domain.Listing{}, domain.NewPagination(page, 0), nil
	}
	statuses := []domain.ListingStatus{domain.ListingApproved, domain.ListingOpen}
	if q.Status != "" {
		if !q.Status.Discoverable() {
			return []domain.Listing{}, domain.NewPagination(page, 0), nil
		}
		statuses = []domain.ListingStatus{q.Status}
	}
	public := true
	return s.list(ctx, store.ListingFilter{
		Kind:     q.Kind,
		Statuses: statuses,
		IsPublic: &public,
		Featured: q.Featured,
		Category: q.Category,
		Search:   q.Search,
		Tag:      q.Tag,
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
	}, page)
}

// ListMyListings returns the caller's own listings in any status.
func (s *Service) ListMyListings(ctx context.Context, c domain.Caller, q ListQuery) ([]domain.Listing, domain.Pagination, error) {
	page := s.Pages.Normalize(q.Page)
	if !c.Authenticated() {
		return nil, domain.Pagination{}, domain.ErrAuthorization
	}
	f := store.ListingFilter{
		Kind:     q.Kind,
		OwnerID:  &c.ID,
		IsPublic: q.IsPublic,
		Featured: q.Featured,
		Category: q.Category,
		Search:   q.Search,
		Tag:      q.Tag,
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
	}
	if q.Status != "" {
		f.Statuses = []domain.ListingStatus{q.Status}
	}
	return s.list(ctx, f, page)
}

func (s *Service) list(ctx context.Context, f store.ListingFilter, page domain.Page) ([]domain.Listing, domain.Pagination, error) {
	out, total, err := s.Store.ListListings(ctx, f, page)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	if out == nil {
		out = []domain.Listing{}
	}
	return out, domain.NewPagination(page, total), nil
}

// GetListing returns one listing. Listings the caller may not see are reported as missing.
func (s *Service) GetListing(ctx context.Context, c domain.Caller, id uuid.UUID) (*domain.Listing, error) {
	l, err := s.Store.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}
	if !lifecycle.CanView(c, l) {
		return nil, domain.ErrNotFound
	}
	return l, nil
}

// FeatureListing sets or clears the featured flag. Admin only.
func (s *Service) FeatureListing(ctx context.Context, c domain.Caller, id uuid.UUID, featured bool) (*domain.Listing, error) {
	if err := lifecycle.CanFeature(c); err != nil {
		return nil, s.reject("feature_listing", c, err)
	}
	l, err := s.Store.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}
	err = s.Store.Tx(ctx, func(tx *store.Store) error {
		if err := tx.UpdateListing(ctx, l.ID, map[string]interface{}{"featured": featured}); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, domain.NewEvent(domain.EntityListing, l.ID, l.ID, domain.EventFeatured, c, string(l.Status), string(l.Status), map[string]interface{}{"featured": featured}))
	})
	if err != nil {
		return nil, err
	}
	l.Featured = featured
	log.Info().Str("listing_id", l.ID.String()).Bool("featured", featured).Str("actor", c.ID.String()).Msg("Listing featured flag changed")
	return l, nil
}

// ListFeatured returns up to limit featured, discoverable listings of a kind.
func (s *Service) ListFeatured(ctx context.Context, kind domain.ListingKind, limit int) ([]domain.Listing, error) {
	if limit <= 0 || limit > s.Pages.MaxLimit() {
		limit = featuredLimit
	}
	featured, public := true, true
	out, _, err := s.Store.ListListings(ctx, store.ListingFilter{
		Kind:     kind,
		Statuses: []domain.ListingStatus{domain.ListingApproved, domain.ListingOpen},
		IsPublic: &public,
		Featured: &featured,
	}, domain.Page{Page: 1, Limit: limit})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Listing{}
	}
	return out, nil
}
