package rentals

import (
	"context"
	"strings"
	"time"

	"streamhub-backend/internal/application/notifications"
	"streamhub-backend/internal/application/policies/lifecycle"
	"streamhub-backend/internal/domain"
	"streamhub-backend/internal/infrastructure/metrics"
	"streamhub-backend/internal/infrastructure/store"
	"streamhub-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

type Service struct {
	Store           *store.Store
	Metrics         *metrics.Metrics
	Notifier        notifications.Sender
	DefaultCurrency string
	Pages           domain.PageSizes
}

type RequestInput struct {
	WindowStart *time.Time
	WindowEnd   *time.Time
	Days        []string
	PriceMin    float64
	PriceMax    float64
	Currency    string
	ContactInfo map[string]interface{}
	Note        string
}

// Availability is the result of a slot check against a service's booked rentals.
type Availability struct {
	Available   bool        `json:"available"`
	Conflicts   []string    `json:"conflicts"`
	ConflictIDs []uuid.UUID `json:"conflicting_rental_ids"`
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

func (s *Service) reject(op string, c domain.Caller, err error) error {
	s.Metrics.Rejected(op, err)
	log.Debug().Str("op", op).Str("actor", c.ID.String()).Str("code", domain.Code(err)).Err(err).Msg("Rental operation refused")
	return err
}

// Request creates a pending rental of a live service.
func (s *Service) Request(ctx context.Context, c domain.Caller, serviceID uuid.UUID, in RequestInput) (*domain.ServiceRental, error) {
	service, err := s.Store.GetListing(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.CanRequestRental(c, service); err != nil {
		return nil, s.reject("request_rental", c, err)
	}
	price := domain.PriceRange{Min: in.PriceMin, Max: in.PriceMax, Currency: s.currency(in.Currency)}
	err = lifecycle.ValidateRental(lifecycle.RentalFields{
		Start: in.WindowStart,
		End:   in.WindowEnd,
		Days:  in.Days,
		Price: price,
	})
	if err != nil {
		return nil, s.reject("request_rental", c, err)
	}

	var days []string
	for _, d := range in.Days {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			days = append(days, d)
		}
	}
	r := &domain.ServiceRental{
		ServiceID:     service.ID,
		BuyerID:       c.ID,
		WindowStart:   in.WindowStart,
		WindowEnd:     in.WindowEnd,
		Days:          datatypes.JSONSlice[string](days),
		ExpectedPrice: price,
		ContactInfo:   domain.JSONObject(in.ContactInfo),
		Note:          in.Note,
		Status:        domain.RentalPending,
	}
	err = s.Store.Tx(ctx, func(tx *store.Store) error {
		if err := tx.CreateRental(ctx, r); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, domain.NewEvent(domain.EntityRental, r.ID, service.ID, domain.EventRequested, c, "", string(r.Status), map[string]interface{}{
			"slots": r.Slots(),
		}))
	})
	if err != nil {
		return nil, s.reject("request_rental", c, err)
	}
	s.Metrics.Transition(domain.EntityRental, "", string(r.Status))
	log.Info().Str("rental_id", r.ID.String()).Str("service_id", service.ID.String()).Str("buyer", c.ID.String()).Msg("Rental requested")
	return r, nil
}

// load fetches a rental with its service.
func (s *Service) load(ctx context.Context, id uuid.UUID) (*domain.ServiceRental, *domain.Listing, error) {
	r, err := s.Store.GetRental(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	service, err := s.Store.GetListing(ctx, r.ServiceID)
	if err != nil {
		return nil, nil, err
	}
	return r, service, nil
}

// apply performs the guarded write for a computed transition and records it.
func (s *Service) apply(ctx context.Context, c domain.Caller, op string, r *domain.ServiceRental, to domain.RentalStatus, event string, extra map[string]interface{}) error {
	from := r.Status
	err := s.Store.Tx(ctx, func(tx *store.Store) error {
		if err := tx.TransitionRental(ctx, r.ID, from, to, extra); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, domain.NewEvent(domain.EntityRental, r.ID, r.ServiceID, event, c, string(from), string(to), extra))
	})
	if err != nil {
		return s.reject(op, c, err)
	}
	r.Status = to
	r.UpdatedAt = time.Now().UTC()
	s.Metrics.Transition(domain.EntityRental, string(from), string(to))
	log.Info().Str("rental_id", r.ID.String()).Str("from", string(from)).Str("to", string(to)).Str("actor", c.ID.String()).Msg("Rental status changed")
	return nil
}

// Decide approves or rejects a pending rental. Service owner only.
func (s *Service) Decide(ctx context.Context, c domain.Caller, id uuid.UUID, d domain.Decision, reason string) (*domain.ServiceRental, error) {
	r, service, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	to, err := lifecycle.DecideRental(c, service, r, d)
	if err != nil {
		return nil, s.reject("decide_rental", c, err)
	}
	var extra map[string]interface{}
	reason = strings.TrimSpace(reason)
	if to == domain.RentalRejected {
		extra = map[string]interface{}{"reject_reason": reason}
	}
	if err := s.apply(ctx, c, "decide_rental", r, to, domain.EventDecided, extra); err != nil {
		return nil, err
	}
	if to == domain.RentalRejected {
		r.RejectReason = reason
	}
	if s.Notifier != nil {
		if err := s.Notifier.RentalDecided(ctx, domain.ContactEmail(r.ContactInfo), service.Title, string(to), reason); err != nil {
			log.Warn().Err(err).Str("rental_id", r.ID.String()).Msg("Rental decision email failed")
		}
	}
	return r, nil
}

// Start moves an approved rental into progress. Service owner only.
func (s *Service) Start(ctx context.Context, c domain.Caller, id uuid.UUID) (*domain.ServiceRental, error) {
	r, service, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	to, err := lifecycle.StartRental(c, service, r)
	if err != nil {
		return nil, s.reject("start_rental", c, err)
	}
	if err := s.apply(ctx, c, "start_rental", r, to, domain.EventStarted, nil); err != nil {
		return nil, err
	}
	return r, nil
}

// Cancel withdraws a live rental. Either the buyer or the service owner may cancel.
func (s *Service) Cancel(ctx context.Context, c domain.Caller, id uuid.UUID, reason string) (*domain.ServiceRental, error) {
	r, service, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	to, err := lifecycle.CancelRental(c, service, r)
	if err != nil {
		return nil, s.reject("cancel_rental", c, err)
	}
	reason = strings.TrimSpace(reason)
	by := c.ID
	extra := map[string]interface{}{"cancel_reason": reason, "cancelled_by": by}
	if err := s.apply(ctx, c, "cancel_rental", r, to, domain.EventCancelled, extra); err != nil {
		return nil, err
	}
	r.CancelReason = reason
	r.CancelledBy = &by

	if s.Notifier != nil {
		to := domain.ContactEmail(r.ContactInfo)
		if c.Is(r.BuyerID) {
			to = domain.ContactEmail(service.ContactInfo)
		}
		if err := s.Notifier.RentalCancelled(ctx, to, service.Title, reason); err != nil {
			log.Warn().Err(err).Str("rental_id", r.ID.String()).Msg("Rental cancellation email failed")
		}
	}
	return r, nil
}

// Complete closes an approved or in-progress rental. Service owner or admin.
func (s *Service) Complete(ctx context.Context, c domain.Caller, id uuid.UUID) (*domain.ServiceRental, error) {
	r, service, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	to, err := lifecycle.CompleteRental(c, service, r)
	if err != nil {
		return nil, s.reject("complete_rental", c, err)
	}
	if err := s.apply(ctx, c, "complete_rental", r, to, domain.EventCompleted, nil); err != nil {
		return nil, err
	}
	return r, nil
}

// Get returns one rental to its buyer, the service owner or an admin.
func (s *Service) Get(ctx context.Context, c domain.Caller, id uuid.UUID) (*domain.ServiceRental, error) {
	r, service, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.CanViewRental(c, service, r); err != nil {
		return nil, err
	}
	return r, nil
}

// CheckAvailability reports which of the requested slots are already held by an
// approved or in-progress rental of the service.
func (s *Service) CheckAvailability(ctx context.Context, c domain.Caller, serviceID uuid.UUID, start, end *time.Time, days []string) (*Availability, error) {
	service, err := s.Store.GetListing(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if !lifecycle.CanView(c, service) {
		return nil, domain.ErrNotFound
	}
	booked, err := s.Store.BlockingRentals(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	wanted := domain.Slots(start, end, days)
	held := make(map[string][]uuid.UUID)
	for i := range booked {
		for _, slot := range booked[i].Slots() {
			held[slot] = append(held[slot], booked[i].ID)
		}
	}

	res := &Availability{Conflicts: []string{}, ConflictIDs: []uuid.UUID{}}
	seen := make(map[uuid.UUID]struct{})
	for _, slot := range wanted {
		ids, ok := held[slot]
		if !ok {
			continue
		}
		res.Conflicts = append(res.Conflicts, slot)
		for _, id := range ids {
			if _, dup := seen[id]; !dup {
				seen[id] = struct{}{}
				res.ConflictIDs = append(res.ConflictIDs, id)
			}
		}
	}
	res.Available = len(res.Conflicts) == 0
	return res, nil
}

// ListForService lists the rentals of one service. Owner only.
func (s *Service) ListForService(ctx context.Context, c domain.Caller, serviceID uuid.UUID, status domain.RentalStatus, p domain.Page) ([]domain.ServiceRental, domain.Pagination, error) {
	service, err := s.Store.GetListing(ctx, serviceID)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	if err := lifecycle.CanManageService(c, service); err != nil {
		return nil, domain.Pagination{}, s.reject("list_service_rentals", c, err)
	}
	return s.list(ctx, store.RentalFilter{ServiceID: &service.ID, Status: status}, p)
}

// ListMine lists the caller's own rental requests.
func (s *Service) ListMine(ctx context.Context, c domain.Caller, status domain.RentalStatus, p domain.Page) ([]domain.ServiceRental, domain.Pagination, error) {
	if !c.Authenticated() {
		return nil, domain.Pagination{}, domain.ErrAuthorization
	}
	return s.list(ctx, store.RentalFilter{BuyerID: &c.ID, Status: status}, p)
}

// ListReceived lists rentals of every service the caller owns.
func (s *Service) ListReceived(ctx context.Context, c domain.Caller, status domain.RentalStatus, p domain.Page) ([]domain.ServiceRental, domain.Pagination, error) {
	if !c.Authenticated() {
		return nil, domain.Pagination{}, domain.ErrAuthorization
	}
	return s.list(ctx, store.RentalFilter{OwnerID: &c.ID, Status: status}, p)
}

func (s *Service) list(ctx context.Context, f store.RentalFilter, p domain.Page) ([]domain.ServiceRental, domain.Pagination, error) {
	page := s.Pages.Normalize(p)
	out, total, err := s.Store.ListRentals(ctx, f, page)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	if out == nil {
		out = []domain.ServiceRental{}
	}
	return out, domain.NewPagination(page, total), nil
}

// CountByStatus counts the rentals the caller received, per status.
func (s *Service) CountByStatus(ctx context.Context, c domain.Caller) (map[domain.RentalStatus]int64, error) {
	if !c.Authenticated() {
		return nil, domain.ErrAuthorization
	}
	return s.Store.CountRentalsByStatus(ctx, c.ID)
}
