package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// maxWindowDays caps how many calendar days a rental window expands to when
// computing slot conflicts.
const maxWindowDays = 366

// ServiceRental is a buyer's request to rent a service for a window or a set of days.
type ServiceRental struct {
	ID            uuid.UUID                   `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ServiceID     uuid.UUID                   `gorm:"column:service_id;type:uuid;not null;index;uniqueIndex:idx_rental_active,where:status IN ('pending','approved','in_progress')" json:"service_id"`
	BuyerID       uuid.UUID                   `gorm:"column:buyer_id;type:uuid;not null;index;uniqueIndex:idx_rental_active,where:status IN ('pending','approved','in_progress')" json:"buyer_id"`
	WindowStart   *time.Time                  `gorm:"column:window_start" json:"window_start,omitempty"`
	WindowEnd     *time.Time                  `gorm:"column:window_end" json:"window_end,omitempty"`
	Days          datatypes.JSONSlice[string] `gorm:"column:days" json:"days,omitempty"`
	ExpectedPrice PriceRange                  `gorm:"embedded" json:"expected_price"`
	ContactInfo   datatypes.JSON              `gorm:"column:contact_info" json:"contact_info,omitempty"`
	Note          string                      `gorm:"column:note;type:text" json:"note,omitempty"`
	RejectReason  string                      `gorm:"column:reject_reason;type:text" json:"reject_reason,omitempty"`
	CancelReason  string                      `gorm:"column:cancel_reason;type:text" json:"cancel_reason,omitempty"`
	CancelledBy   *uuid.UUID                  `gorm:"column:cancelled_by;type:uuid" json:"cancelled_by,omitempty"`
	Status        RentalStatus                `gorm:"column:status;type:varchar(20);not null;index" json:"status"`
	CreatedAt     time.Time                   `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time                   `gorm:"column:updated_at" json:"updated_at"`
}

func (ServiceRental) TableName() string {
	return "service_rentals"
}

func (r *ServiceRental) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Slots expands the rental into comparable slot keys: every named day plus every
// calendar date (YYYY-MM-DD) covered by the window.
func Slots(start, end *time.Time, days []string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(s string) {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, d := range days {
		add(d)
	}
	if start != nil && end != nil && !end.Before(*start) {
		day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
		last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
		for i := 0; !day.After(last) && i < maxWindowDays; i++ {
			add(day.Format("2006-01-02"))
			day = day.AddDate(0, 0, 1)
		}
	}
	return out
}

// Slots returns the slot keys held by this rental.
func (r *ServiceRental) Slots() []string {
	return Slots(r.WindowStart, r.WindowEnd, r.Days)
}
