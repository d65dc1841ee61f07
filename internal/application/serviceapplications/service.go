package serviceapplications

import (
	"context"
	"strings"

	"streamhub-backend/internal/application/notifications"
	"streamhub-backend/internal/application/policies/lifecycle"
	"streamhub-backend/internal/domain"
	"streamhub-backend/internal/infrastructure/metrics"
	"streamhub-backend/internal/infrastructure/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Service struct {
	Store    *store.Store
	Metrics  *metrics.Metrics
	Notifier notifications.Sender
	Pages    domain.PageSizes
}

type ApplyInput struct {
	ContactInfo map[string]interface{}
	Note        string
}

func (s *Service) reject(op string, c domain.Caller, err error) error {
	s.Metrics.Rejected(op, err)
	log.Debug().Str("op", op).Str("actor", c.ID.String()).Str("code", domain.Code(err)).Err(err).Msg("Service application operation refused")
	return err
}

// Apply records a buyer's application to an open or approved service.
func (s *Service) Apply(ctx context.Context, c domain.Caller, serviceID uuid.UUID, in ApplyInput) (*domain.ServiceApplication, error) {
	service, err := s.Store.GetListing(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.CanApplyToService(c, service); err != nil {
		return nil, s.reject("apply_service", c, err)
	}
	if err := lifecycle.ValidateServiceApplication(in.ContactInfo); err != nil {
		return nil, s.reject("apply_service", c, err)
	}

	app := &domain.ServiceApplication{
		ServiceID:   service.ID,
		BuyerID:     c.ID,
		ContactInfo: domain.JSONObject(in.ContactInfo),
		Note:        strings.TrimSpace(in.Note),
		Status:      domain.ApplicationPending,
	}
	err = s.Store.Tx(ctx, func(tx *store.Store) error {
		if err := tx.CreateServiceApplication(ctx, app); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, domain.NewEvent(domain.EntityServiceApplication, app.ID, service.ID, domain.EventApplied, c, "", string(app.Status), nil))
	})
	if err != nil {
		return nil, s.reject("apply_service", c, err)
	}
	s.Metrics.Transition(domain.EntityServiceApplication, "", string(app.Status))
	log.Info().Str("service_application_id", app.ID.String()).Str("service_id", service.ID.String()).Str("buyer", c.ID.String()).Msg("Service application submitted")
	return app, nil
}

// Decide approves or rejects a pending application. Service owner only.
func (s *Service) Decide(ctx context.Context, c domain.Caller, id uuid.UUID, d domain.Decision, reason string) (*domain.ServiceApplication, error) {
	app, err := s.Store.GetServiceApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	service, err := s.Store.GetListing(ctx, app.ServiceID)
	if err != nil {
		return nil, err
	}
	to, err := lifecycle.DecideServiceApplication(c, service, app, d)
	if err != nil {
		return nil, s.reject("decide_service_application", c, err)
	}

	from := app.Status
	reason = strings.TrimSpace(reason)
	err = s.Store.Tx(ctx, func(tx *store.Store) error {
		if err := tx.TransitionServiceApplication(ctx, app.ID, from, to, map[string]interface{}{"decision_reason": reason}); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, domain.NewEvent(domain.EntityServiceApplication, app.ID, service.ID, domain.EventDecided, c, string(from), string(to), map[string]interface{}{"reason": reason}))
	})
	if err != nil {
		return nil, s.reject("decide_service_application", c, err)
	}
	app.Status = to
	app.DecisionReason = reason
	s.Metrics.Transition(domain.EntityServiceApplication, string(from), string(to))
	log.Info().Str("service_application_id", app.ID.String()).Str("from", string(from)).Str("to", string(to)).Str("actor", c.ID.String()).Msg("Service application decided")

	if s.Notifier != nil {
		if err := s.Notifier.ApplicationDecided(ctx, domain.ContactEmail(app.ContactInfo), service.Title, string(to), reason); err != nil {
			log.Warn().Err(err).Str("service_application_id", app.ID.String()).Msg("Service application decision email failed")
		}
	}
	return app, nil
}

// ListForService lists the applications to one service. Owner only.
func (s *Service) ListForService(ctx context.Context, c domain.Caller, serviceID uuid.UUID, status domain.ApplicationStatus, p domain.Page) ([]domain.ServiceApplication, domain.Pagination, error) {
	service, err := s.Store.GetListing(ctx, serviceID)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	if !c.Is(service.OwnerID) {
		return nil, domain.Pagination{}, s.reject("list_service_applications", c, domain.ErrAuthorization)
	}
	return s.list(ctx, store.ServiceApplicationFilter{ServiceID: &service.ID, Status: status}, p)
}

func (s *Service) ListMine(ctx context.Context, c domain.Caller, status domain.ApplicationStatus, p domain.Page) ([]domain.ServiceApplication, domain.Pagination, error) {
	if !c.Authenticated() {
		return nil, domain.Pagination{}, domain.ErrAuthorization
	}
	return s.list(ctx, store.ServiceApplicationFilter{BuyerID: &c.ID, Status: status}, p)
}

// ListReceived lists applications to any service the caller owns.
func (s *Service) ListReceived(ctx context.Context, c domain.Caller, status domain.ApplicationStatus, p domain.Page) ([]domain.ServiceApplication, domain.Pagination, error) {
	if !c.Authenticated() {
		return nil, domain.Pagination{}, domain.ErrAuthorization
	}
	return s.list(ctx, store.ServiceApplicationFilter{ServiceOwnerID: &c.ID, Status: status}, p)
}

func (s *Service) list(ctx context.Context, f store.ServiceApplicationFilter, p domain.Page) ([]domain.ServiceApplication, domain.Pagination, error) {
	page := s.Pages.Normalize(p)
	out, total, err := s.Store.ListServiceApplications(ctx, f, page)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	if out == nil {
		out = []domain.ServiceApplication{}
	}
	return out, domain.NewPagination(page, total), nil
}

func (s *Service) Get(ctx context.Context, c domain.Caller, id uuid.UUID) (*domain.ServiceApplication, error) {
	app, err := s.Store.GetServiceApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	service, err := s.Store.GetListing(ctx, app.ServiceID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.CanViewServiceApplication(c, service, app); err != nil {
		return nil, err
	}
	return app, nil
}
