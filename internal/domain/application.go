package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DemandApplication is a supplier's offer against a demand. At most one non-rejected
// application exists per (demand, applicant).
type DemandApplication struct {
	ID             uuid.UUID                   `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	DemandID       uuid.UUID                   `gorm:"column:demand_id;type:uuid;not null;index;uniqueIndex:idx_application_active,where:status <> 'rejected'" json:"demand_id"`
	ApplicantID    uuid.UUID                   `gorm:"column:applicant_id;type:uuid;not null;index;uniqueIndex:idx_application_active,where:status <> 'rejected'" json:"applicant_id"`
	PromoteText    string                      `gorm:"column:promote_text;type:text;not null" json:"promote_text"`
	ContactInfo    datatypes.JSON              `gorm:"column:contact_info" json:"contact_info,omitempty"`
	Note           string                      `gorm:"column:note;type:text" json:"note,omitempty"`
	ImageURLs      datatypes.JSONSlice[string] `gorm:"column:image_urls" json:"image_urls,omitempty"`
	Status         ApplicationStatus           `gorm:"column:status;type:varchar(20);not null;index" json:"status"`
	DecisionReason string                      `gorm:"column:decision_reason;type:text" json:"decision_reason,omitempty"`
	CreatedAt      time.Time                   `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time                   `gorm:"column:updated_at" json:"updated_at"`
}

func (DemandApplication) TableName() string {
	return "demand_applications"
}

func (a *DemandApplication) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
