package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Event types recorded in the listing audit trail.
const (
	EventCreated       = "CREATED"
	EventUpdated       = "UPDATED"
	EventModerated     = "MODERATED"
	EventStatusChanged = "STATUS_CHANGED"
	EventFeatured      = "FEATURED"
	EventApplied       = "APPLIED"
	EventDecided       = "DECIDED"
	EventRequested     = "REQUESTED"
	EventStarted       = "STARTED"
	EventCancelled     = "CANCELLED"
	EventCompleted     = "COMPLETED"
	EventReviewed      = "REVIEWED"
	EventReviewDeleted = "REVIEW_DELETED"
	EventReviewReplied = "REVIEW_REPLIED"
)

// Audited entity names.
const (
	EntityListing     = "listing"
	EntityApplication = "application"
	EntityRental      = "rental"
	EntityReview      = "review"

	EntityServiceApplication = "service_application"
)

// ListingEvent is one append-only audit row, written in the same transaction as the
// mutation it describes. ListingID always points at the parent listing.
type ListingEvent struct {
	EventID    uuid.UUID      `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	ListingID  uuid.UUID      `gorm:"column:listing_id;type:uuid;not null;index" json:"listing_id"`
	Entity     string         `gorm:"column:entity;type:varchar(20);not null" json:"entity"`
	EntityID   uuid.UUID      `gorm:"column:entity_id;type:uuid;not null;index" json:"entity_id"`
	EventType  string         `gorm:"column:event_type;type:varchar(30);not null" json:"event_type"`
	FromStatus string         `gorm:"column:from_status;type:varchar(20)" json:"from_status,omitempty"`
	ToStatus   string         `gorm:"column:to_status;type:varchar(20)" json:"to_status,omitempty"`
	ActorID    uuid.UUID      `gorm:"column:actor_id;type:uuid" json:"actor_id"`
	EventData  datatypes.JSON `gorm:"column:event_data" json:"event_data"`
	CreatedAt  time.Time      `gorm:"column:created_at" json:"created_at"`
}

func (ListingEvent) TableName() string {
	return "listing_events"
}

func (le *ListingEvent) BeforeCreate(tx *gorm.DB) error {
	if le.EventID == uuid.Nil {
		le.EventID = uuid.New()
	}
	if len(le.EventData) == 0 {
		le.EventData = datatypes.JSON("{}")
	}
	return nil
}

// NewEvent builds an audit row; data is marshalled to JSON.
func NewEvent(entity string, entityID, listingID uuid.UUID, eventType string, actor Caller, from, to string, data map[string]interface{}) *ListingEvent {
	if data == nil {
		data = map[string]interface{}{}
	}
	b, _ := json.Marshal(data)
	return &ListingEvent{
		ListingID:  listingID,
		Entity:     entity,
		EntityID:   entityID,
		EventType:  eventType,
		FromStatus: from,
		ToStatus:   to,
		ActorID:    actor.ID,
		EventData:  datatypes.JSON(b),
	}
}
