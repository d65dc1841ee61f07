package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Review rates a service after a completed rental. One review per rental (OrderID).
// The service owner may answer it with a single reply, which a later reply replaces.
type Review struct {
	ID         uuid.UUID                   `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	TargetID   uuid.UUID                   `gorm:"column:target_id;type:uuid;not null;index" json:"target_id"`
	OrderID    uuid.UUID                   `gorm:"column:order_id;type:uuid;not null;uniqueIndex" json:"order_id"`
	ReviewerID uuid.UUID                   `gorm:"column:reviewer_id;type:uuid;not null;index" json:"reviewer_id"`
	Rating     int                         `gorm:"column:rating;not null" json:"rating"`
	Content    string                      `gorm:"column:content;type:text;not null" json:"content"`
	Images     datatypes.JSONSlice[string] `gorm:"column:images" json:"images,omitempty"`
	Reply      string                      `gorm:"column:reply;type:text" json:"reply,omitempty"`
	RepliedAt  *time.Time                  `gorm:"column:replied_at" json:"replied_at,omitempty"`
	CreatedAt  time.Time                   `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time                   `gorm:"column:updated_at" json:"updated_at"`
}

func (Review) TableName() string {
	return "reviews"
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ReviewSummary aggregates the ratings of one service.
type ReviewSummary struct {
	Count         int64   `json:"count"`
	AverageRating float64 `json:"average_rating"`
}
