package applications

import (
	"context"
	"sort"
	"strings"

	"streamhub-backend/internal/application/notifications"
	"streamhub-backend/internal/application/policies/lifecycle"
	"streamhub-backend/internal/domain"
	"streamhub-backend/internal/infrastructure/metrics"
	"streamhub-backend/internal/infrastructure/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

type Service struct {
	Store    *store.Store
	Metrics  *metrics.Metrics
	Notifier notifications.Sender
	Pages    domain.PageSizes
}

type ApplyInput struct {
	PromoteText string
	ContactInfo map[string]interface{}
	Note        string
	ImageURLs   []string
}

// UpdateInput carries the fields an applicant may revise. Nil leaves a field as is.
type UpdateInput struct {
	PromoteText *string
	ContactInfo map[string]interface{}
	Note        *string
	ImageURLs   []string
}

func (s *Service) reject(op string, c domain.Caller, err error) error {
	s.Metrics.Rejected(op, err)
	log.Debug().Str("op", op).Str("actor", c.ID.String()).Str("code", domain.Code(err)).Err(err).Msg("Application operation refused")
	return err
}

// Apply records a supplier's application against an open or approved demand.
func (s *Service) Apply(ctx context.Context, c domain.Caller, demandID uuid.UUID, in ApplyInput) (*domain.DemandApplication, error) {
	if err := lifecycle.CanApplyAsRole(c); err != nil {
		return nil, s.reject("apply", c, err)
	}
	demand, err := s.Store.GetListing(ctx, demandID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.CanApply(c, demand); err != nil {
		return nil, s.reject("apply", c, err)
	}
	if err := lifecycle.ValidateApplication(in.PromoteText); err != nil {
		return nil, s.reject("apply", c, err)
	}

	app := &domain.DemandApplication{
		DemandID:    demand.ID,
		ApplicantID: c.ID,
		PromoteText: strings.TrimSpace(in.PromoteText),
		ContactInfo: domain.JSONObject(in.ContactInfo),
		Note:        in.Note,
		ImageURLs:   datatypes.JSONSlice[string](in.ImageURLs),
		Status:      domain.ApplicationPending,
	}
	err = s.Store.Tx(ctx, func(tx *store.Store) error {
		if err := tx.CreateApplication(ctx, app); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, domain.NewEvent(domain.EntityApplication, app.ID, demand.ID, domain.EventApplied, c, "", string(app.Status), nil))
	})
	if err != nil {
		return nil, s.reject("apply", c, err)
	}
	s.Metrics.Transition(domain.EntityApplication, "", string(app.Status))
	log.Info().Str("application_id", app.ID.String()).Str("demand_id", demand.ID.String()).Str("applicant", c.ID.String()).Msg("Application submitted")
	return app, nil
}

// Update revises the caller's own pending application.
func (s *Service) Update(ctx context.Context, c domain.Caller, id uuid.UUID, in UpdateInput) (*domain.DemandApplication, error) {
	app, err := s.Store.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.CanEditApplication(c, app); err != nil {
		return nil, s.reject("update_application", c, err)
	}

	updates := map[string]interface{}{}
	if in.PromoteText != nil {
		if err := lifecycle.ValidateApplication(*in.PromoteText); err != nil {
			return nil, s.reject("update_application", c, err)
		}
		app.PromoteText = strings.TrimSpace(*in.PromoteText)
		updates["promote_text"] = app.PromoteText
	}
	if in.ContactInfo != nil {
		app.ContactInfo = domain.JSONObject(in.ContactInfo)
		updates["contact_info"] = app.ContactInfo
	}
	if in.Note != nil {
		app.Note = *in.Note
		updates["note"] = app.Note
	}
	if in.ImageURLs != nil {
		app.ImageURLs = datatypes.JSONSlice[string](in.ImageURLs)
		updates["image_urls"] = app.ImageURLs
	}
	if len(updates) == 0 {
		return app, nil
	}

	fields := make([]string, 0, len(updates))
	for k := range updates {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	err = s.Store.Tx(ctx, func(tx *store.Store) error {
		if err := tx.EditApplication(ctx, app.ID, updates); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, domain.NewEvent(domain.EntityApplication, app.ID, app.DemandID, domain.EventUpdated, c, string(app.Status), string(app.Status), map[string]interface{}{"fields": fields}))
	})
	if err != nil {
		return nil, s.reject("update_application", c, err)
	}
	log.Info().Str("application_id", app.ID.String()).Strs("fields", fields).Msg("Application updated")
	return app, nil
}

// Decide approves or rejects a pending application. Only the demand owner may decide;
// the demand itself is left untouched.
func (s *Service) Decide(ctx context.Context, c domain.Caller, id uuid.UUID, d domain.Decision, reason string) (*domain.DemandApplication, error) {
	app, err := s.Store.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	demand, err := s.Store.GetListing(ctx, app.DemandID)
	if err != nil {
		return nil, err
	}
	to, err := lifecycle.DecideApplication(c, demand, app, d)
	if err != nil {
		return nil, s.reject("decide_application", c, err)
	}

	from := app.Status
	reason = strings.TrimSpace(reason)
	err = s.Store.Tx(ctx, func(tx *store.Store) error {
		if err := tx.TransitionApplication(ctx, app.ID, from, to, map[string]interface{}{"decision_reason": reason}); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, domain.NewEvent(domain.EntityApplication, app.ID, demand.ID, domain.EventDecided, c, string(from), string(to), map[string]interface{}{"reason": reason}))
	})
	if err != nil {
		return nil, s.reject("decide_application", c, err)
	}
	app.Status = to
	app.DecisionReason = reason
	s.Metrics.Transition(domain.EntityApplication, string(from), string(to))
	log.Info().Str("application_id", app.ID.String()).Str("from", string(from)).Str("to", string(to)).Str("actor", c.ID.String()).Msg("Application decided")

	if s.Notifier != nil {
		if err := s.Notifier.ApplicationDecided(ctx, domain.ContactEmail(app.ContactInfo), demand.Title, string(to), reason); err != nil {
			log.Warn().Err(err).Str("application_id", app.ID.String()).Msg("Application decision email failed")
		}
	}
	return app, nil
}

// ListForDemand lists the applications of one demand. Owner only.
func (s *Service) ListForDemand(ctx context.Context, c domain.Caller, demandID uuid.UUID, status domain.ApplicationStatus, p domain.Page) ([]domain.DemandApplication, domain.Pagination, error) {
	demand, err := s.Store.GetListing(ctx, demandID)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	if !c.Is(demand.OwnerID) {
		return nil, domain.Pagination{}, s.reject("list_demand_applications", c, domain.ErrAuthorization)
	}
	return s.list(ctx, store.ApplicationFilter{DemandID: &demand.ID, Status: status}, p)
}

// ListMine lists the caller's own applications.
func (s *Service) ListMine(ctx context.Context, c domain.Caller, status domain.ApplicationStatus, p domain.Page) ([]domain.DemandApplication, domain.Pagination, error) {
	if !c.Authenticated() {
		return nil, domain.Pagination{}, domain.ErrAuthorization
	}
	return s.list(ctx, store.ApplicationFilter{ApplicantID: &c.ID, Status: status}, p)
}

// ListReceived lists applications made against any demand the caller owns.
func (s *Service) ListReceived(ctx context.Context, c domain.Caller, status domain.ApplicationStatus, p domain.Page) ([]domain.DemandApplication, domain.Pagination, error) {
	if !c.Authenticated() {
		return nil, domain.Pagination{}, domain.ErrAuthorization
	}
	return s.list(ctx, store.ApplicationFilter{DemandOwnerID: &c.ID, Status: status}, p)
}

func (s *Service) list(ctx context.Context, f store.ApplicationFilter, p domain.Page) ([]domain.DemandApplication, domain.Pagination, error) {
	page := s.Pages.Normalize(p)
	out, total, err := s.Store.ListApplications(ctx, f, page)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	if out == nil {
		out = []domain.DemandApplication{}
	}
	return out, domain.NewPagination(page, total), nil
}

// Get returns one application to its applicant or the demand owner.
func (s *Service) Get(ctx context.Context, c domain.Caller, id uuid.UUID) (*domain.DemandApplication, error) {
	app, err := s.Store.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	demand, err := s.Store.GetListing(ctx, app.DemandID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.CanViewApplication(c, demand, app); err != nil {
		return nil, err
	}
	return app, nil
}
