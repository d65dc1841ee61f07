package rentals

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"streamhub-backend/internal/application/policies/lifecycle"
	"streamhub-backend/internal/domain"
	"streamhub-backend/internal/infrastructure/store"

	"github.com/google/uuid"
)

var exportHeader = []string{
	"id", "status", "buyer_id", "window_start", "window_end", "days",
	"expected_min", "expected_max", "currency", "note", "created_at",
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ExportCSV writes every rental of a service, oldest first. Service owner only.
func (s *Service) ExportCSV(ctx context.Context, c domain.Caller, serviceID uuid.UUID, w io.Writer) error {
	service, err := s.Store.GetListing(ctx, serviceID)
	if err != nil {
		return err
	}
	if err := lifecycle.CanManageService(c, service); err != nil {
		return s.reject("export_rentals", c, err)
	}
	rows, err := s.Store.AllRentals(ctx, store.RentalFilter{ServiceID: &service.ID})
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		created := r.CreatedAt
		rec := []string{
			r.ID.String(),
			string(r.Status),
			r.BuyerID.String(),
			formatTime(r.WindowStart),
			formatTime(r.WindowEnd),
			strings.Join(r.Days, "|"),
			formatMoney(r.ExpectedPrice.Min),
			formatMoney(r.ExpectedPrice.Max),
			r.ExpectedPrice.Currency,
			r.Note,
			formatTime(&created),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
