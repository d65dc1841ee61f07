package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ServiceApplication is a buyer's expression of interest in a service, decided by the
// service owner. A buyer applies to a given service once, whatever the outcome.
type ServiceApplication struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ServiceID      uuid.UUID         `gorm:"column:service_id;type:uuid;not null;index;uniqueIndex:idx_service_application_buyer" json:"service_id"`
	BuyerID        uuid.UUID         `gorm:"column:buyer_id;type:uuid;not null;index;uniqueIndex:idx_service_application_buyer" json:"buyer_id"`
	ContactInfo    datatypes.JSON    `gorm:"column:contact_info;not null" json:"contact_info"`
	Note           string            `gorm:"column:note;type:text" json:"note,omitempty"`
	Status         ApplicationStatus `gorm:"column:status;type:varchar(20);not null;index" json:"status"`
	DecisionReason string            `gorm:"column:decision_reason;type:text" json:"decision_reason,omitempty"`
	CreatedAt      time.Time         `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"column:updated_at" json:"updated_at"`
}

func (ServiceApplication) TableName() string {
	return "service_applications"
}

func (a *ServiceApplication) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
